package models

import "time"

// Brand represents the product manufacturer
type Brand struct {
	ID      int64   `json:"id"`
	Name    string  `json:"mname"`
	Picture *string `json:"picture,omitempty"`
}

// Category represents the product category
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"categoryName"`
	URL  string `json:"url"`
}

// VariantValue is a key/value attribute of a variant (e.g. color, size)
type VariantValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// VariantSubValue is a nested variant attribute
type VariantSubValue struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductProperty represents a purchasable variant of a product
type ProductProperty struct {
	ID               int64             `json:"id"`
	Barcode          string            `json:"barcode"`
	Price            Numeric           `json:"price"`
	Stock            Numeric           `json:"stock"`
	VariantValues    []VariantValue    `json:"variantValues"`
	VariantSubValues []VariantSubValue `json:"variantSubValues"`
}

// ProductImage is an image tagged with the variant barcodes it represents
type ProductImage struct {
	ImagePath          string      `json:"imagePath"`
	RelatedBarcodes    BarcodeList `json:"relatedBarcodes"`
	RelatedBarcodesRaw BarcodeList `json:"relatedBarcodesRaw"`
}

// Product is the raw upstream product record
type Product struct {
	ID                     int64             `json:"id"`
	Name                   string            `json:"name"`
	StockCode              *string           `json:"stockCode,omitempty"`
	Stock                  Numeric           `json:"stock"`
	GTIN                   *string           `json:"gtin,omitempty"`
	ManufacturerPartNumber *string           `json:"manufacturerPartNumber,omitempty"`
	DiscountRate           Numeric           `json:"discountRate"`
	URL                    *string           `json:"url,omitempty"`
	VAT                    Numeric           `json:"vat"`
	SalePrice              Numeric           `json:"salePrice"`
	SalePriceWithTax       Numeric           `json:"salePriceWithTax"`
	OldPrice               Numeric           `json:"oldPrice"`
	OldPriceWithTax        Numeric           `json:"oldPriceWithTax"`
	Price                  Numeric           `json:"price"`
	PriceWithTax           Numeric           `json:"priceWithTax"`
	Currency               string            `json:"currency"`
	Brand                  *Brand            `json:"brand,omitempty"`
	Category               *Category         `json:"category,omitempty"`
	ProductProperties      []ProductProperty `json:"productProperties"`
	ProductImages          []ProductImage    `json:"productImages"`
}

// ProductRecord is the stored snapshot row of an upstream product
type ProductRecord struct {
	ID         int64     `db:"id" json:"id"`
	CategoryID *int64    `db:"category_id" json:"category_id,omitempty"`
	Name       string    `db:"name" json:"name"`
	StockCode  *string   `db:"stock_code" json:"stock_code,omitempty"`
	BrandName  *string   `db:"brand_name" json:"brand_name,omitempty"`
	Payload    string    `db:"payload" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FavoriteSummary is an immutable snapshot of a product taken when it was favorited
type FavoriteSummary struct {
	ID           ProductID `json:"id"`
	Name         string    `json:"name"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Price        float64   `json:"price"`
	PriceWithTax *float64  `json:"priceWithTax,omitempty"`
	Currency     string    `json:"currency"`
	Stock        *float64  `json:"stock,omitempty"`
	BrandName    *string   `json:"brandName,omitempty"`
}
