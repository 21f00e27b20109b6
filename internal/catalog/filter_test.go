package catalog

import (
	"net/url"
	"testing"

	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID:        1,
			Name:      "Basic Tee",
			StockCode: strPtr("TS-001"),
			Price:     models.Num(100),
			Stock:     models.Num(5),
			Brand:     &models.Brand{ID: 1, Name: "Acme"},
			Category:  &models.Category{ID: 10, Name: "Tişört"},
		},
		{
			ID:       2,
			Name:     "Hoodie",
			Price:    models.Num(400),
			Stock:    models.Num(0),
			Category: &models.Category{ID: 20, Name: "Ceket"},
		},
		{
			ID:    3,
			Name:  "Socks",
			Price: models.Num(30),
			ProductProperties: []models.ProductProperty{
				{Stock: models.Num(1)},
			},
			Category: &models.Category{ID: 10, Name: "Tişört"},
		},
	}
}

func ids(products []models.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestParseFilter(t *testing.T) {
	values := url.Values{
		"q":        {"  tee "},
		"category": {"10"},
		"inStock":  {"true"},
		"min":      {"20,5"},
		"max":      {"abc"},
		"page":     {"3"},
		"pageSize": {"500"},
	}

	f := ParseFilter(values, 0)
	assert.Equal(t, "tee", f.Search)
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, int64(10), *f.CategoryID)
	assert.True(t, f.InStockOnly)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 20.5, *f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, 24, f.Offset())

	empty := ParseFilter(url.Values{"page": {"-2"}}, 24)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 24, empty.PageSize)
	assert.Nil(t, empty.CategoryID)
}

func TestFilterApply(t *testing.T) {
	products := sampleProducts()

	assert.Equal(t, []int64{1, 2, 3}, ids(Filter{}.Apply(products)))
	assert.Equal(t, []int64{1}, ids(Filter{Search: "ACME"}.Apply(products)))
	assert.Equal(t, []int64{1}, ids(Filter{Search: "ts-0"}.Apply(products)))

	cat := int64(10)
	assert.Equal(t, []int64{1, 3}, ids(Filter{CategoryID: &cat}.Apply(products)))

	min, max := 50.0, 400.0
	assert.Equal(t, []int64{1, 2}, ids(Filter{MinPrice: &min, MaxPrice: &max}.Apply(products)))

	assert.Equal(t, []int64{1, 3}, ids(Filter{InStockOnly: true}.Apply(products)))
}

func TestCategoryOptions(t *testing.T) {
	options := CategoryOptions(sampleProducts())
	assert.Equal(t, []CategoryOption{
		{ID: 20, Label: "Ceket"},
		{ID: 10, Label: "Tişört"},
	}, options)
}
