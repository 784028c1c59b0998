// Package edm renders Go values as OData literals for the four primitive kinds the
// catalogue exposes on product attributes.
package edm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the primitive type of a catalogue attribute value.
type Kind int

const (
	// KindString is a textual value (Edm.String).
	KindString Kind = iota
	// KindDouble is an IEEE 754 double precision value (Edm.Double).
	KindDouble
	// KindInteger is an integral value (Edm.Int64).
	KindInteger
	// KindDateTimeOffset is a point in time (Edm.DateTimeOffset).
	KindDateTimeOffset
)

var kindNames = [...]string{
	KindString:         "String",
	KindDouble:         "Double",
	KindInteger:        "Integer",
	KindDateTimeOffset: "DateTimeOffset",
}

var kindTypeNames = [...]string{
	KindString:         "Edm.String",
	KindDouble:         "Edm.Double",
	KindInteger:        "Edm.Int64",
	KindDateTimeOffset: "Edm.DateTimeOffset",
}

// String returns the name used inside OData.CSC.<Kind>Attribute.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// TypeName returns the EDM type name (e.g., "Edm.String").
func (k Kind) TypeName() string {
	if !k.Valid() {
		return ""
	}
	return kindTypeNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindString && k <= KindDateTimeOffset
}

// Ordered reports whether relational comparisons (lt, le, ge, gt) are defined for k.
// Only equality is defined for strings.
func (k Kind) Ordered() bool {
	switch k {
	case KindDouble, KindInteger, KindDateTimeOffset:
		return true
	default:
		return false
	}
}

// ParseKind returns the Kind named by s ("String", "Double", "Integer", "DateTimeOffset").
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Type is a primitive attribute value. It renders as an OData literal through String
// and as a JSON value through its json methods.
type Type interface {
	Kind() Kind
	IsNull() bool

	// Value returns the Go value: string, int64, float64 or time.Time; nil when null.
	Value() interface{}

	String() string

	json.Marshaler
	json.Unmarshaler
}

// New converts value into the EDM type bound to kind. It fails when the dynamic type
// of value does not belong to kind; no cross-kind conversion is attempted and pointers
// are never dereferenced. An untyped nil yields a null value.
func New(kind Kind, value interface{}) (Type, error) {
	switch kind {
	case KindString:
		return NewString(value)
	case KindDouble:
		return NewDouble(value)
	case KindInteger:
		return NewInteger(value)
	case KindDateTimeOffset:
		return NewDateTimeOffset(value)
	default:
		return nil, fmt.Errorf("unknown EDM kind: %d", int(kind))
	}
}

// Decode reads a JSON value as kind. Empty input decodes as null.
func Decode(kind Kind, data []byte) (Type, error) {
	var v Type
	switch kind {
	case KindString:
		v = &String{}
	case KindDouble:
		v = &Double{}
	case KindInteger:
		v = &Integer{}
	case KindDateTimeOffset:
		v = &DateTimeOffset{}
	default:
		return nil, fmt.Errorf("unknown EDM kind: %d", int(kind))
	}
	if len(data) == 0 {
		data = jsonNull
	}
	if err := v.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return v, nil
}

// Literal is a shorthand for New(kind, value).String().
func Literal(kind Kind, value interface{}) (string, error) {
	t, err := New(kind, value)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

var jsonNull = []byte("null")

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), jsonNull)
}
