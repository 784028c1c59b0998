package edm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Integer is an Edm.Int64 attribute value such as orbitNumber.
type Integer struct {
	value  int64
	isNull bool
}

// NewInteger accepts any Go integer type. Floats are rejected even when integral.
func NewInteger(value interface{}) (Type, error) {
	if value == nil {
		return &Integer{isNull: true}, nil
	}
	n, err := toInt64(value)
	if err != nil {
		return nil, err
	}
	return &Integer{value: n}, nil
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		return unsignedToInt64(uint64(v))
	case uint64:
		return unsignedToInt64(v)
	}
	return 0, fmt.Errorf("cannot convert %T to Edm.Int64", value)
}

func unsignedToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of range for Edm.Int64", v)
	}
	return int64(v), nil
}

func (i *Integer) Kind() Kind   { return KindInteger }
func (i *Integer) IsNull() bool { return i.isNull }

func (i *Integer) Value() interface{} {
	if i.isNull {
		return nil
	}
	return i.value
}

func (i *Integer) String() string {
	if i.isNull {
		return "null"
	}
	return strconv.FormatInt(i.value, 10)
}

func (i *Integer) MarshalJSON() ([]byte, error) {
	if i.isNull {
		return jsonNull, nil
	}
	return []byte(strconv.FormatInt(i.value, 10)), nil
}

func (i *Integer) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*i = Integer{isNull: true}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cannot decode %s as Edm.Int64: %w", data, err)
	}
	*i = Integer{value: n}
	return nil
}

// Double is an Edm.Double attribute value such as cloudCover.
type Double struct {
	value  float64
	isNull bool
}

// NewDouble accepts float32 and float64. Integers are rejected, so a cloud cover of
// 10 has to be passed as 10.0.
func NewDouble(value interface{}) (Type, error) {
	switch v := value.(type) {
	case nil:
		return &Double{isNull: true}, nil
	case float64:
		return &Double{value: v}, nil
	case float32:
		return &Double{value: float64(v)}, nil
	}
	return nil, fmt.Errorf("cannot convert %T to Edm.Double", value)
}

func (d *Double) Kind() Kind   { return KindDouble }
func (d *Double) IsNull() bool { return d.isNull }

func (d *Double) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}

func (d *Double) String() string {
	if d.isNull {
		return "null"
	}
	return FormatDouble(d.value)
}

// MarshalJSON writes finite values as numbers and INF, -INF and NaN as strings.
func (d *Double) MarshalJSON() ([]byte, error) {
	switch {
	case d.isNull:
		return jsonNull, nil
	case math.IsInf(d.value, 0) || math.IsNaN(d.value):
		return json.Marshal(FormatDouble(d.value))
	}
	return json.Marshal(d.value)
}

// UnmarshalJSON reads a number, or one of the strings "INF", "-INF" and "NaN".
func (d *Double) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*d = Double{isNull: true}
		return nil
	}

	var special string
	if err := json.Unmarshal(data, &special); err == nil {
		switch special {
		case "INF":
			*d = Double{value: math.Inf(1)}
		case "-INF":
			*d = Double{value: math.Inf(-1)}
		case "NaN":
			*d = Double{value: math.NaN()}
		default:
			return fmt.Errorf("cannot decode %s as Edm.Double", data)
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("cannot decode %s as Edm.Double: %w", data, err)
	}
	*d = Double{value: f}
	return nil
}

// FormatDouble writes v in its shortest round-trip form. Finite values always carry a
// fractional part or an exponent (10 -> "10.0", 1e16 -> "1e+16"), so the literal is
// never mistaken for an integer.
func FormatDouble(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case math.IsNaN(v):
		return "NaN"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
