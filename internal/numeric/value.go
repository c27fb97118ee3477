package numeric

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Value is a number as typed by a user: forms send either a JSON number or a
// string such as "12,5". The raw text is kept until Decimal is called.
type Value string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	*v = Value(data)
	return nil
}

// Decimal returns the normalized value, 0 when the text is not a number
func (v Value) Decimal() decimal.Decimal {
	return parseString(string(v))
}

// IsSet reports whether anything was entered
func (v Value) IsSet() bool {
	return v != ""
}
