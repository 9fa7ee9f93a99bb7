package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Kind classifies a field value.
type Kind int

const (
	// KindNull is a JSON null or a missing key.
	KindNull Kind = iota

	// KindString is a JSON string.
	KindString

	// KindStructured is any other JSON value (object, array, number,
	// boolean), kept as opaque compacted JSON.
	KindStructured
)

// NullSentinel is the string some extractors write in place of a
// real null. It is treated as absent.
const NullSentinel = "null"

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindStructured:
		return "structured"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one field value of a Record. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	raw  json.RawMessage
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Structured returns an opaque value holding raw JSON. raw is
// compacted; it must be valid JSON.
func Structured(raw json.RawMessage) Value {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		// Invalid input is kept as-is and surfaces on marshal.
		return Value{kind: KindStructured, raw: append(json.RawMessage(nil), raw...)}
	}
	return Value{kind: KindStructured, raw: buf.Bytes()}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string content of a KindString value and the raw
// JSON text of a KindStructured value. Null yields "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindStructured:
		return string(v.raw)
	default:
		return ""
	}
}

// IsAbsent reports whether v is null or the "null" sentinel string.
func (v Value) IsAbsent() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == NullSentinel)
}

// Key returns an equality key: two values are equal iff their keys
// are. Top-level numbers compare by exact numeric value, so 1, 1.0
// and 1e0 are equal. Other structured values compare by their
// compacted JSON text.
func (v Value) Key() string {
	if n, ok := v.number(); ok {
		return fmt.Sprintf("%d:#%s", v.kind, n.RatString())
	}
	return fmt.Sprintf("%d:%s", v.kind, v.Text())
}

// number returns the exact value of a structured JSON number.
func (v Value) number() (*big.Rat, bool) {
	if v.kind != KindStructured || len(v.raw) == 0 {
		return nil, false
	}
	if c := v.raw[0]; c != '-' && (c < '0' || c > '9') {
		return nil, false
	}
	return new(big.Rat).SetString(string(v.raw))
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return marshalString(v.str)
	case KindStructured:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// marshalString encodes s without escaping <, > and &, which are
// common in method bodies.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return fmt.Errorf("empty JSON value")
	case bytes.Equal(data, []byte("null")):
		*v = Null()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	default:
		*v = Structured(data)
	}
	return nil
}
