// models/tokenid.go
package models

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// TokenID identifies an NFT. The store holds both numbers and strings; all-digit
// strings are folded into numbers during normalization, anything else stays a
// string (and can never be queried on chain).
type TokenID struct {
	num     float64
	str     string
	numeric bool
	present bool
}

func NumericTokenID(v float64) TokenID {
	return TokenID{num: v, numeric: true, present: true}
}

func StringTokenID(s string) TokenID {
	return TokenID{str: s, present: true}
}

func (t TokenID) IsZero() bool { return !t.present }

func (t TokenID) IsNumeric() bool { return t.numeric }

// Canonical folds an all-digit string id into a numeric one. Idempotent.
func (t TokenID) Canonical() TokenID {
	if !t.present || t.numeric {
		return t
	}
	if t.str == "" || strings.TrimLeft(t.str, "0123456789") != "" {
		return t
	}
	f, err := strconv.ParseFloat(t.str, 64)
	if err != nil {
		return t
	}
	return NumericTokenID(f)
}

// BigInt returns the id as a chain-queryable integer.
func (t TokenID) BigInt() (*big.Int, bool) {
	if !t.present || !t.numeric {
		return nil, false
	}
	return big.NewInt(int64(t.num)), true
}

// Less orders numeric ids ascending before falling back to a lexical compare,
// matching the NFT list sort in the store.
func (t TokenID) Less(o TokenID) bool {
	if t.numeric && o.numeric {
		return t.num < o.num
	}
	return t.String() < o.String()
}

func (t TokenID) Equal(o TokenID) bool {
	if t.present != o.present || t.numeric != o.numeric {
		return false
	}
	if t.numeric {
		return t.num == o.num
	}
	return t.str == o.str
}

func (t TokenID) String() string {
	if !t.present {
		return ""
	}
	if t.numeric {
		return strconv.FormatFloat(t.num, 'f', -1, 64)
	}
	return t.str
}

func (t TokenID) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("null"), nil
	}
	if t.numeric {
		return []byte(strconv.FormatFloat(t.num, 'f', -1, 64)), nil
	}
	return json.Marshal(t.str)
}

func (t *TokenID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = TokenID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = StringTokenID(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*t = NumericTokenID(f)
	return nil
}
