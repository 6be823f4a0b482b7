package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// leadingFloat matches the numeric prefix a form control would accept,
// so "12abc" reads as 12 while "abc" is rejected.
var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Field is a numeric form input that may not have been typed yet.
// A blank Field counts as zero in arithmetic but stays distinguishable
// from an explicit 0.
type Field struct {
	Value decimal.Decimal
	Set   bool
}

// Blank returns an untyped field.
func Blank() Field {
	return Field{}
}

// NewField returns a field holding v.
func NewField(v decimal.Decimal) Field {
	return Field{Value: v, Set: true}
}

// FieldFromFloat returns a field holding f.
func FieldFromFloat(f float64) Field {
	return NewField(decimal.NewFromFloat(f))
}

// FieldFromInt returns a field holding n.
func FieldFromInt(n int64) Field {
	return NewField(decimal.NewFromInt(n))
}

// IsBlank reports whether nothing has been entered.
func (f Field) IsBlank() bool {
	return !f.Set
}

// OrZero returns the value, or zero for a blank field.
func (f Field) OrZero() decimal.Decimal {
	if !f.Set {
		return decimal.Zero
	}
	return f.Value
}

// ParseField interprets raw input text. Empty text is always accepted and
// yields a blank field. Otherwise the text must start with a float; ok is
// false when it does not.
func ParseField(text string) (Field, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Blank(), true
	}
	m := leadingFloat.FindString(text)
	if m == "" {
		return Field{}, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Field{}, false
	}
	return FieldFromFloat(f), true
}

// Edit applies a keystroke-level edit. Rejected input leaves f unchanged.
func (f Field) Edit(text string) Field {
	next, ok := ParseField(text)
	if !ok {
		return f
	}
	return next
}

func (f Field) String() string {
	if !f.Set {
		return ""
	}
	return f.Value.String()
}

// MarshalJSON renders a blank field as "" and a set field as a JSON number.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte(`""`), nil
	}
	return []byte(f.Value.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings, "" and null.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Blank()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, ok := ParseField(s)
		if !ok {
			return fmt.Errorf("billing: %q is not a number", s)
		}
		*f = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("billing: invalid number %s: %w", data, err)
	}
	*f = NewField(d)
	return nil
}
