package catalog

import (
	"regexp"
	"strings"
)

// FallbackCurrency is used when upstream sends no currency or the local "TL" alias
const FallbackCurrency = "TRY"

var nonWord = regexp.MustCompile(`[^\w]`)

// NormalizeCurrency maps a raw currency token to a canonical ISO code
func NormalizeCurrency(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(nonWord.ReplaceAllString(raw, "")))
	if cleaned == "" || cleaned == "TL" {
		return FallbackCurrency
	}
	return cleaned
}
