package catalog

import (
	"regexp"
	"strings"

	"catalog-service/internal/models"
)

var barcodeSeparators = regexp.MustCompile(`[,;|\s]+`)

func normalizeBarcode(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// SplitRelatedBarcodes flattens a related-barcodes field into normalized tokens.
// Every entry is split on runs of comma, semicolon, pipe or whitespace.
func SplitRelatedBarcodes(list models.BarcodeList) []string {
	tokens := make([]string, 0)
	for _, entry := range list.Entries() {
		for _, piece := range barcodeSeparators.Split(entry, -1) {
			if token := normalizeBarcode(piece); token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}

// relatedBarcodes combines both raw fields of an image, relatedBarcodes first.
func relatedBarcodes(image models.ProductImage) []string {
	return append(SplitRelatedBarcodes(image.RelatedBarcodes), SplitRelatedBarcodes(image.RelatedBarcodesRaw)...)
}

// GetImageForBarcode picks the path of the first image tagged with barcode.
// It falls back to the first image when barcode is blank or nothing matches,
// and reports false only when there are no images at all.
func GetImageForBarcode(images []models.ProductImage, barcode string) (string, bool) {
	if len(images) == 0 {
		return "", false
	}

	target := normalizeBarcode(barcode)
	if target == "" {
		return images[0].ImagePath, true
	}

	for _, image := range images {
		for _, token := range relatedBarcodes(image) {
			if token == target {
				return image.ImagePath, true
			}
		}
	}

	return images[0].ImagePath, true
}
