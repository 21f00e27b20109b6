package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"catalog-service/internal/models"
)

// Listing defaults
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Filter is the shopper's listing criteria as carried in the URL
type Filter struct {
	Search      string
	CategoryID  *int64
	InStockOnly bool
	MinPrice    *float64
	MaxPrice    *float64
	Page        int
	PageSize    int
}

func parseNumberParam(values url.Values, key string) *float64 {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	v, ok := ToNumber(raw)
	if !ok {
		return nil
	}
	return &v
}

// ParseFilter reads q, category, inStock, min, max, page and pageSize.
// Malformed values are ignored rather than rejected.
func ParseFilter(values url.Values, defaultPageSize int) Filter {
	if defaultPageSize < 1 || defaultPageSize > MaxPageSize {
		defaultPageSize = DefaultPageSize
	}

	f := Filter{
		Search:      strings.TrimSpace(values.Get("q")),
		InStockOnly: values.Get("inStock") == "true",
		MinPrice:    parseNumberParam(values, "min"),
		MaxPrice:    parseNumberParam(values, "max"),
		Page:        1,
		PageSize:    defaultPageSize,
	}

	if id, err := strconv.ParseInt(values.Get("category"), 10, 64); err == nil && id > 0 {
		f.CategoryID = &id
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 1 {
		f.Page = page
	}
	if size, err := strconv.Atoi(values.Get("pageSize")); err == nil && size >= 1 && size <= MaxPageSize {
		f.PageSize = size
	}

	return f
}

// Offset returns the number of upstream rows to skip
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Matches applies the listing predicate to a single product
func (f Filter) Matches(product models.Product) bool {
	if search := strings.ToLower(f.Search); search != "" && !matchesSearch(product, search) {
		return false
	}

	if f.CategoryID != nil && (product.Category == nil || product.Category.ID != *f.CategoryID) {
		return false
	}

	price := ResolveProductPrice(product)
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}

	if f.InStockOnly && ResolveProductStock(product) <= 0 {
		return false
	}
	return true
}

func matchesSearch(product models.Product, search string) bool {
	fields := []string{product.Name}
	if product.StockCode != nil {
		fields = append(fields, *product.StockCode)
	}
	if product.Brand != nil {
		fields = append(fields, product.Brand.Name)
	}

	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Apply returns the products that match, in their original order
func (f Filter) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// CategoryOption is an entry of the category dropdown
type CategoryOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// CategoryOptions collects the distinct categories of a page, sorted by label.
// A later product wins when two share a category id.
func CategoryOptions(products []models.Product) []CategoryOption {
	labels := make(map[int64]string)
	for _, p := range products {
		if p.Category != nil && p.Category.ID != 0 && p.Category.Name != "" {
			labels[p.Category.ID] = p.Category.Name
		}
	}

	options := make([]CategoryOption, 0, len(labels))
	for id, label := range labels {
		options = append(options, CategoryOption{ID: id, Label: label})
	}
	sort.Slice(options, func(i, j int) bool {
		li, lj := strings.ToLower(options[i].Label), strings.ToLower(options[j].Label)
		if li != lj {
			return li < lj
		}
		return options[i].ID < options[j].ID
	})
	return options
}
