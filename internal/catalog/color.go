package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var colorTable = map[string]string{
	"kirmizi":    "#ef4444",
	"siyah":      "#0f172a",
	"beyaz":      "#f8fafc",
	"beyazsiyah": "#f8fafc",
	"gri":        "#94a3b8",
	"lacivert":   "#0b134f",
	"mavi":       "#3b82f6",
	"turuncu":    "#f97316",
	"sari":       "#facc15",
	"yesil":      "#22c55e",
	"pembe":      "#ec4899",
	"mor":        "#8b5cf6",
	"kahverengi": "#92400e",
	"antrasit":   "#1f2937",
}

var turkishFold = strings.NewReplacer(
	"ı", "i",
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ö", "o",
	"ç", "c",
)

var hexColor = regexp.MustCompile(`(?i)^#([0-9a-f]{3}){1,2}$`)

// foldColorName lowercases, strips combining marks and maps Turkish letters to ASCII.
func foldColorName(value string) string {
	lowered := strings.ToLower(value)
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, lowered)
	if err != nil {
		stripped = lowered
	}
	return turkishFold.Replace(stripped)
}

// ResolveColorHex maps a free-text color name to a hex color. Literal hex
// colors pass through unchanged.
func ResolveColorHex(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if hex, ok := colorTable[foldColorName(trimmed)]; ok {
		return hex, true
	}

	if hexColor.MatchString(trimmed) {
		return trimmed, true
	}

	return "", false
}
