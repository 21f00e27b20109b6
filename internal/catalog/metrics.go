package catalog

import (
	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

func collect(values ...models.Numeric) []float64 {
	candidates := make([]float64, 0, len(values))
	for _, value := range values {
		if v, ok := ToNumber(value); ok {
			candidates = append(candidates, v)
		}
	}
	return candidates
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// ResolveProductPrice returns the lowest positive price across the product
// price fields and all variant prices. When nothing is positive it returns the
// lowest candidate, and 0 when there are no candidates.
func ResolveProductPrice(product models.Product) float64 {
	fields := []models.Numeric{
		product.SalePrice,
		product.Price,
		product.SalePriceWithTax,
		product.PriceWithTax,
	}
	for _, property := range product.ProductProperties {
		fields = append(fields, property.Price)
	}

	candidates := collect(fields...)
	if p := positive(candidates); len(p) > 0 {
		return minOf(p)
	}
	if len(candidates) > 0 {
		return minOf(candidates)
	}
	return 0
}

// ResolveProductStock returns the direct stock when present, otherwise the
// sum of variant stocks.
func ResolveProductStock(product models.Product) float64 {
	if stock, ok := ToNumber(product.Stock); ok {
		return stock
	}

	var total float64
	for _, property := range product.ProductProperties {
		if stock, ok := ToNumber(property.Stock); ok {
			total += stock
		}
	}
	return total
}

// ResolveProductPreviousPrice returns the lowest positive old price, or 0.
func ResolveProductPreviousPrice(product models.Product) float64 {
	p := positive(collect(product.OldPrice, product.OldPriceWithTax))
	if len(p) == 0 {
		return 0
	}
	return minOf(p)
}

// HasDiscount reports whether a strikethrough price should be shown
func HasDiscount(previous, current float64) bool {
	return previous > 0 && previous > current
}

// DiscountRate returns round((previous-current)/previous*100), rounding
// halves away from zero. It is 0 when there is no discount.
func DiscountRate(previous, current float64) int64 {
	if !HasDiscount(previous, current) {
		return 0
	}
	prev := decimal.NewFromFloat(previous)
	rate := prev.Sub(decimal.NewFromFloat(current)).Div(prev).Mul(decimal.NewFromInt(100))
	return rate.Round(0).IntPart()
}
