package catalog

import (
	"strings"

	"catalog-service/internal/models"
)

// PlaceholderImage is shown when a product has no images
const PlaceholderImage = "/placeholder-product.svg"

var colorKeys = map[string]bool{
	"renk":   true,
	"color":  true,
	"colour": true,
}

// ProductCard is the listing view of a product
type ProductCard struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	BrandName     string                 `json:"brandName,omitempty"`
	StockCode     string                 `json:"stockCode,omitempty"`
	ImageURL      string                 `json:"imageUrl"`
	Price         float64                `json:"price"`
	PreviousPrice *float64               `json:"previousPrice,omitempty"`
	DiscountRate  int64                  `json:"discountRate"`
	Currency      string                 `json:"currency"`
	Stock         float64                `json:"stock"`
	Summary       models.FavoriteSummary `json:"summary"`
}

// VariantView is a selectable variant on the detail page
type VariantView struct {
	ID       int64                 `json:"id"`
	Barcode  string                `json:"barcode"`
	Label    string                `json:"label"`
	ColorHex string                `json:"colorHex,omitempty"`
	Price    *float64              `json:"price,omitempty"`
	Stock    *float64              `json:"stock,omitempty"`
	Values   []models.VariantValue `json:"values"`
	Selected bool                  `json:"selected"`
}

// ProductDetail is the detail view with the selected variant applied
type ProductDetail struct {
	ProductCard
	HeroImage string        `json:"heroImage"`
	Variants  []VariantView `json:"variants"`
}

// BuildFavoriteSummary snapshots the fields the favorites page needs
func BuildFavoriteSummary(product models.Product) models.FavoriteSummary {
	summary := models.FavoriteSummary{
		ID:       models.ProductIDFromInt(product.ID),
		Name:     product.Name,
		Currency: product.Currency,
	}

	if len(product.ProductImages) > 0 {
		path := product.ProductImages[0].ImagePath
		summary.ImageURL = &path
	}

	if v, ok := firstNumber(product.SalePrice, product.Price); ok {
		summary.Price = v
	}
	if v, ok := firstNumber(product.SalePriceWithTax, product.PriceWithTax); ok {
		summary.PriceWithTax = &v
	}
	if v, ok := ToNumber(product.Stock); ok {
		summary.Stock = &v
	}
	if product.Brand != nil {
		name := product.Brand.Name
		summary.BrandName = &name
	}

	return summary
}

func firstNumber(values ...models.Numeric) (float64, bool) {
	for _, value := range values {
		if v, ok := ToNumber(value); ok {
			return v, true
		}
	}
	return 0, false
}

func imageOrPlaceholder(images []models.ProductImage, barcode string) string {
	if path, ok := GetImageForBarcode(images, barcode); ok && path != "" {
		return path
	}
	return PlaceholderImage
}

// BuildProductCard resolves the display values of a listing card. The image
// follows the first variant's barcode.
func BuildProductCard(product models.Product) ProductCard {
	price := ResolveProductPrice(product)
	previous := ResolveProductPreviousPrice(product)

	card := ProductCard{
		ID:           product.ID,
		Name:         product.Name,
		Price:        price,
		DiscountRate: DiscountRate(previous, price),
		Currency:     NormalizeCurrency(product.Currency),
		Stock:        ResolveProductStock(product),
		Summary:      BuildFavoriteSummary(product),
	}

	if HasDiscount(previous, price) {
		card.PreviousPrice = &previous
	}
	if product.Brand != nil {
		card.BrandName = product.Brand.Name
	}
	if product.StockCode != nil {
		card.StockCode = *product.StockCode
	}

	var barcode string
	if len(product.ProductProperties) > 0 {
		barcode = product.ProductProperties[0].Barcode
	}
	card.ImageURL = imageOrPlaceholder(product.ProductImages, barcode)

	return card
}

// VariantLabel joins the variant values, or falls back to the barcode
func VariantLabel(property models.ProductProperty) string {
	if len(property.VariantValues) == 0 {
		return property.Barcode
	}
	parts := make([]string, 0, len(property.VariantValues))
	for _, v := range property.VariantValues {
		parts = append(parts, v.Value)
	}
	return strings.Join(parts, " / ")
}

func variantColor(property models.ProductProperty) string {
	for _, v := range property.VariantValues {
		if !colorKeys[foldColorName(strings.TrimSpace(v.Key))] {
			continue
		}
		if hex, ok := ResolveColorHex(v.Value); ok {
			return hex
		}
	}
	return ""
}

// SelectVariant returns the variant with the given id, the first variant when
// no id matches, or nil when the product has none.
func SelectVariant(product models.Product, propertyID *int64) *models.ProductProperty {
	if len(product.ProductProperties) == 0 {
		return nil
	}
	if propertyID != nil {
		for i := range product.ProductProperties {
			if product.ProductProperties[i].ID == *propertyID {
				return &product.ProductProperties[i]
			}
		}
	}
	return &product.ProductProperties[0]
}

// BuildProductDetail resolves the detail view for the selected variant.
// Price and stock come from the variant first, then the product.
func BuildProductDetail(product models.Product, propertyID *int64) ProductDetail {
	detail := ProductDetail{ProductCard: BuildProductCard(product)}
	selected := SelectVariant(product, propertyID)

	var barcode string
	if selected != nil {
		barcode = selected.Barcode
		if v, ok := ToNumber(selected.Price); ok {
			detail.Price = v
		} else if v, ok := firstNumber(product.SalePrice, product.Price); ok {
			detail.Price = v
		}
		if v, ok := ToNumber(selected.Stock); ok {
			detail.Stock = v
		} else if v, ok := ToNumber(product.Stock); ok {
			detail.Stock = v
		} else {
			detail.Stock = 0
		}
	}

	detail.HeroImage = imageOrPlaceholder(product.ProductImages, barcode)
	detail.ImageURL = detail.HeroImage

	previous := ResolveProductPreviousPrice(product)
	detail.PreviousPrice = nil
	if HasDiscount(previous, detail.Price) {
		detail.PreviousPrice = &previous
	}
	detail.DiscountRate = DiscountRate(previous, detail.Price)

	detail.Variants = make([]VariantView, 0, len(product.ProductProperties))
	for _, property := range product.ProductProperties {
		view := VariantView{
			ID:       property.ID,
			Barcode:  property.Barcode,
			Label:    VariantLabel(property),
			ColorHex: variantColor(property),
			Values:   property.VariantValues,
			Selected: selected != nil && selected.ID == property.ID,
		}
		if v, ok := ToNumber(property.Price); ok {
			view.Price = &v
		}
		if v, ok := ToNumber(property.Stock); ok {
			view.Stock = &v
		}
		detail.Variants = append(detail.Variants, view)
	}

	return detail
}
