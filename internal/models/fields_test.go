package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductImageDecodesBarcodeShapes(t *testing.T) {
	payload := `[
		{"imagePath": "a.jpg", "relatedBarcodes": "ABC, DEF", "relatedBarcodesRaw": null},
		{"imagePath": "b.jpg", "relatedBarcodes": ["X1", null, 42]},
		{"imagePath": "c.jpg"}
	]`

	var images []ProductImage
	require.NoError(t, json.Unmarshal([]byte(payload), &images))
	require.Len(t, images, 3)

	assert.Equal(t, []string{"ABC, DEF"}, images[0].RelatedBarcodes.Entries())
	assert.True(t, images[0].RelatedBarcodesRaw.IsAbsent())
	assert.Equal(t, []string{"X1", "", "42"}, images[1].RelatedBarcodes.Entries())
	assert.True(t, images[2].RelatedBarcodes.IsAbsent())
	assert.Nil(t, images[2].RelatedBarcodesRaw.Entries())
}

func TestNumericKeepsNumbersAndStrings(t *testing.T) {
	var p ProductProperty
	require.NoError(t, json.Unmarshal([]byte(`{"price": "12,5", "stock": 3}`), &p))

	assert.Equal(t, "12,5", p.Price.Raw())
	assert.Equal(t, float64(3), p.Stock.Raw())

	require.NoError(t, json.Unmarshal([]byte(`{"price": true, "stock": null}`), &p))
	assert.Nil(t, p.Price.Raw())
	assert.Nil(t, p.Stock.Raw())
}

func TestProductIDAcceptsNumberOrString(t *testing.T) {
	var s FavoriteSummary
	require.NoError(t, json.Unmarshal([]byte(`{"id": 17, "name": "x"}`), &s))
	assert.Equal(t, "17", s.ID.Key())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "sku-9", "name": "x"}`), &s))
	assert.Equal(t, "sku-9", s.ID.Key())

	out, err := json.Marshal(FavoriteSummary{ID: ProductIDFromInt(5), Name: "y", Currency: "TRY"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":5`)
}
