// models/number.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NullNumber is a shot counter crossing a trust boundary. The remote store is
// untyped JSON and has historically held numbers, numeric strings, empty strings
// and garbage, so every counter is parsed through ToNumberOrNull and carries an
// explicit null state.
type NullNumber struct {
	Value float64
	Valid bool
}

// Num returns a non-null NullNumber.
func Num(v float64) NullNumber {
	return NullNumber{Value: v, Valid: true}
}

// NullNum returns the null NullNumber.
func NullNum() NullNumber {
	return NullNumber{}
}

// ToNumberOrNull coerces arbitrary input to a finite number or null:
// nil, empty string and anything that does not parse to a finite float are null.
func ToNumberOrNull(v any) NullNumber {
	switch n := v.(type) {
	case nil:
		return NullNumber{}
	case NullNumber:
		return n
	case float64:
		return finiteOrNull(n)
	case float32:
		return finiteOrNull(float64(n))
	case int:
		return Num(float64(n))
	case int32:
		return Num(float64(n))
	case int64:
		return Num(float64(n))
	case json.Number:
		return parseNumber(n.String())
	case string:
		return parseNumber(n)
	case bool:
		// JS Number(true) === 1; the store never held booleans on purpose,
		// but keep the coercion total.
		if n {
			return Num(1)
		}
		return Num(0)
	default:
		return NullNumber{}
	}
}

func parseNumber(s string) NullNumber {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullNumber{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullNumber{}
	}
	return finiteOrNull(f)
}

func finiteOrNull(f float64) NullNumber {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NullNumber{}
	}
	return NullNumber{Value: f, Valid: true}
}

// Int returns the value truncated toward zero; 0 when null.
func (n NullNumber) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value)
}

// OrZero mirrors the `?? 0` fallback used by the recovery step.
func (n NullNumber) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

func (n NullNumber) Equal(o NullNumber) bool {
	if n.Valid != o.Valid {
		return false
	}
	return !n.Valid || n.Value == o.Value
}

func (n NullNumber) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n NullNumber) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON is deliberately lenient: malformed legacy values become null
// instead of failing the whole document.
func (n *NullNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = NullNumber{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = NullNumber{}
			return nil
		}
		*n = parseNumber(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = NullNumber{}
		return nil
	}
	*n = finiteOrNull(f)
	return nil
}
