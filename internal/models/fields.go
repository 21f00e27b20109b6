package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Numeric holds a raw upstream numeric field that may arrive as a JSON
// number, a string, or null. Use catalog.ToNumber to read it.
type Numeric struct {
	raw interface{}
}

// Num wraps a number
func Num(v float64) Numeric {
	return Numeric{raw: v}
}

// NumString wraps a string-encoded number
func NumString(s string) Numeric {
	return Numeric{raw: s}
}

// Raw returns the underlying value: float64, string or nil
func (n Numeric) Raw() interface{} {
	return n.raw
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Numeric) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, string, nil:
		n.raw = v
	default:
		n.raw = nil
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.raw)
}

type barcodeKind int

const (
	barcodesAbsent barcodeKind = iota
	barcodesSingle
	barcodesMany
)

// BarcodeList is the decoded form of a related-barcodes field, which
// upstream sends as a delimited string, an array of strings, or null.
type BarcodeList struct {
	kind   barcodeKind
	single string
	many   []string
}

// SingleBarcodes builds a list from one delimited string
func SingleBarcodes(s string) BarcodeList {
	return BarcodeList{kind: barcodesSingle, single: s}
}

// ManyBarcodes builds a list from an array of delimited strings
func ManyBarcodes(values ...string) BarcodeList {
	return BarcodeList{kind: barcodesMany, many: values}
}

// IsAbsent reports whether the field was null or missing
func (b BarcodeList) IsAbsent() bool {
	return b.kind == barcodesAbsent
}

// Entries returns the raw strings in order
func (b BarcodeList) Entries() []string {
	switch b.kind {
	case barcodesSingle:
		return []string{b.single}
	case barcodesMany:
		return b.many
	default:
		return nil
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (b *BarcodeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*b = BarcodeList{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = SingleBarcodes(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			values = append(values, rawToString(item))
		}
		*b = ManyBarcodes(values...)
	case '{':
		*b = BarcodeList{}
	default:
		*b = SingleBarcodes(string(data))
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (b BarcodeList) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case barcodesSingle:
		return json.Marshal(b.single)
	case barcodesMany:
		return json.Marshal(b.many)
	default:
		return jsonNull, nil
	}
}

func rawToString(item json.RawMessage) string {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || bytes.Equal(item, jsonNull) {
		return ""
	}
	if item[0] == '"' {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			return s
		}
	}
	return string(item)
}

// ProductID is a product identifier that upstream may send as a number or a string
type ProductID string

// ProductIDFromInt converts a numeric id
func ProductIDFromInt(id int64) ProductID {
	return ProductID(strconv.FormatInt(id, 10))
}

// Key returns the string key used by the favorites maps
func (id ProductID) Key() string {
	return strings.TrimSpace(string(id))
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ProductID(n.String())
	return nil
}

// MarshalJSON implements json.Marshaler. Integer ids are written as numbers.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}
