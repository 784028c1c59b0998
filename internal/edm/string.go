package edm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String is an Edm.String attribute value such as productType.
type String struct {
	value  string
	isNull bool
}

// NewString accepts a Go string only.
func NewString(value interface{}) (Type, error) {
	switch v := value.(type) {
	case nil:
		return &String{isNull: true}, nil
	case string:
		return &String{value: v}, nil
	}
	return nil, fmt.Errorf("cannot convert %T to Edm.String", value)
}

func (s *String) Kind() Kind   { return KindString }
func (s *String) IsNull() bool { return s.isNull }

func (s *String) Value() interface{} {
	if s.isNull {
		return nil
	}
	return s.value
}

// String returns the quoted literal.
func (s *String) String() string {
	if s.isNull {
		return "null"
	}
	return Quote(s.value)
}

func (s *String) MarshalJSON() ([]byte, error) {
	if s.isNull {
		return jsonNull, nil
	}
	return json.Marshal(s.value)
}

func (s *String) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*s = String{isNull: true}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("cannot decode %s as Edm.String: %w", data, err)
	}
	*s = String{value: v}
	return nil
}

// Quote wraps s in single quotes, doubling any embedded quote as OData requires.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
