package catalog

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"catalog-service/internal/models"
)

// ToNumber coerces a number, numeric string, or models.Numeric into a finite
// float64. Anything else, including NaN, Inf, blank strings and nil, is absent.
func ToNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case models.Numeric:
		return ToNumber(v.Raw())
	case *models.Numeric:
		if v == nil {
			return 0, false
		}
		return ToNumber(v.Raw())
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case *float64:
		if v == nil {
			return 0, false
		}
		return finite(*v)
	case json.Number:
		return parseNumeric(v.String())
	case string:
		return parseNumeric(v)
	case *string:
		if v == nil {
			return 0, false
		}
		return parseNumeric(*v)
	default:
		return 0, false
	}
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixedInt    = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// parseNumeric accepts a decimal comma in place of the decimal point. Beyond
// plain decimals only unsigned 0x, 0o and 0b integers are numbers; digit
// separators and hex floats are not.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)

	if prefixedInt.MatchString(s) {
		return parsePrefixedInt(s)
	}
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func parsePrefixedInt(s string) (float64, bool) {
	base := 16
	switch s[1] {
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	}

	n, ok := new(big.Int).SetString(s[2:], base)
	if !ok {
		return 0, false
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return finite(v)
}
