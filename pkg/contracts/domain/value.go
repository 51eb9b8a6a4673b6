package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the only layout accepted when coercing text to dates.
const DateLayout = "2006-01-02"

// Kind is the semantic category of a column or of a single present value.
type Kind int

const (
	// KindEmpty marks a column without any present value, and the missing marker itself.
	KindEmpty Kind = iota
	KindNumeric
	KindText
	KindBoolean
	KindDatetime
)

var kindNames = map[Kind]string{
	KindEmpty:    "empty",
	KindNumeric:  "numeric",
	KindText:     "text",
	KindBoolean:  "boolean",
	KindDatetime: "datetime",
}

// String returns the lowercase kind name used in logs and JSON
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalJSON encodes the kind as its name
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown column kind %q", name)
}

// Value is a single table cell: a number, text, boolean, date or the missing marker.
// The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	text string
	flag bool
	date time.Time
}

// Missing returns the missing marker
func Missing() Value { return Value{} }

// Number returns a numeric value. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{kind: KindNumeric, num: f}
}

// Text returns a text value
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBoolean, flag: b} }

// Date returns a datetime value
func Date(t time.Time) Value { return Value{kind: KindDatetime, date: t} }

// ValueOf converts a plain Go value into a cell. nil becomes missing,
// unsupported types are rendered as text.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Value:
		return x
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case string:
		return Text(x)
	case *string:
		if x == nil {
			return Missing()
		}
		return Text(*x)
	case bool:
		return Bool(x)
	case time.Time:
		return Date(x)
	default:
		return Text(fmt.Sprint(x))
	}
}

// IsMissing reports whether the cell holds the missing marker
func (v Value) IsMissing() bool { return v.kind == KindEmpty }

// Kind returns the kind of the held value, KindEmpty when missing
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric payload, NaN when the value is not a number
func (v Value) Float() float64 {
	if v.kind != KindNumeric {
		return math.NaN()
	}
	return v.num
}

// Str returns the text payload of a text value
func (v Value) Str() string { return v.text }

// Bool returns the boolean payload of a boolean value
func (v Value) Bool() bool { return v.flag }

// Time returns the payload of a datetime value
func (v Value) Time() time.Time { return v.date }

// String renders the value the way it is written to CSV. Missing renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindNumeric:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	case KindDatetime:
		return formatDate(v.date)
	default:
		return ""
	}
}

// Key returns a comparable identity for the value. Two values are equal for
// deduplication and distinct counting exactly when their keys are equal.
func (v Value) Key() string {
	switch v.kind {
	case KindNumeric:
		n := v.num
		if n == 0 {
			n = 0 // fold -0
		}
		return "n:" + strconv.FormatFloat(n, 'g', -1, 64)
	case KindText:
		return "s:" + v.text
	case KindBoolean:
		return "b:" + strconv.FormatBool(v.flag)
	case KindDatetime:
		return "d:" + v.date.UTC().Format(time.RFC3339Nano)
	default:
		return "null"
	}
}

// Equal reports value-wise equality, treating missing as equal to missing
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}

// MarshalJSON encodes the cell as a JSON scalar, missing as null
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumeric:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	case KindBoolean:
		return json.Marshal(v.flag)
	case KindDatetime:
		return json.Marshal(formatDate(v.date))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar. Strings always decode as text so that
// type coercion stays the pipeline's decision.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil, float64, string, bool:
		*v = ValueOf(x)
		return nil
	default:
		return fmt.Errorf("cell must be a JSON scalar, got %T", raw)
	}
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(time.RFC3339)
}
