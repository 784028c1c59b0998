package edm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateTimeLayout is the timestamp form the catalogue accepts in $filter: exactly three
// fractional digits and a literal Z. Go truncates fractional seconds when formatting,
// so microseconds are dropped rather than rounded.
const DateTimeLayout = "2006-01-02T15:04:05.000Z"

// FormatDateTime renders t (converted to UTC) in DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, t.Location())
}

// DateTimeOffset represents an Edm.DateTimeOffset value. It also decodes the catalogue's
// JSON timestamps, where an empty string stands for "no value".
type DateTimeOffset struct {
	value  time.Time
	isNull bool
}

// NewDateTimeOffset accepts a non-zero time.Time only. The zero time is how a null
// timestamp reads back, so it cannot stand for a real instant.
func NewDateTimeOffset(value interface{}) (Type, error) {
	switch v := value.(type) {
	case nil:
		return &DateTimeOffset{isNull: true}, nil
	case time.Time:
		if v.IsZero() {
			return nil, fmt.Errorf("zero time is not a valid Edm.DateTimeOffset")
		}
		return &DateTimeOffset{value: v}, nil
	}
	return nil, fmt.Errorf("cannot convert %T to Edm.DateTimeOffset", value)
}

func (d *DateTimeOffset) Kind() Kind { return KindDateTimeOffset }

// IsNull reports an explicit null, an empty string in the payload or the zero time.
func (d *DateTimeOffset) IsNull() bool { return d.isNull || d.value.IsZero() }

func (d *DateTimeOffset) Value() interface{} {
	if d.IsNull() {
		return nil
	}
	return d.value
}

// Time returns the wrapped time; the zero time when null.
func (d DateTimeOffset) Time() time.Time {
	if d.isNull {
		return time.Time{}
	}
	return d.value
}

func (d *DateTimeOffset) String() string {
	if d.IsNull() {
		return "null"
	}
	return FormatDateTime(d.value)
}

func (d DateTimeOffset) MarshalJSON() ([]byte, error) {
	if d.isNull || d.value.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(FormatDateTime(d.value))
}

func (d *DateTimeOffset) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) || bytes.Equal(data, []byte(`""`)) {
		*d = DateTimeOffset{isNull: true}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("cannot decode %s as Edm.DateTimeOffset: %w", data, err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Errorf("cannot parse %q as Edm.DateTimeOffset: %w", raw, err)
	}
	*d = DateTimeOffset{value: t}
	return nil
}
