package edm

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind     Kind
		name     string
		typeName string
		ordered  bool
	}{
		{KindString, "String", "Edm.String", false},
		{KindDouble, "Double", "Edm.Double", true},
		{KindInteger, "Integer", "Edm.Int64", true},
		{KindDateTimeOffset, "DateTimeOffset", "Edm.DateTimeOffset", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.kind.TypeName(); got != tt.typeName {
				t.Errorf("TypeName() = %q, want %q", got, tt.typeName)
			}
			if got := tt.kind.Ordered(); got != tt.ordered {
				t.Errorf("Ordered() = %v, want %v", got, tt.ordered)
			}
			parsed, ok := ParseKind(tt.name)
			if !ok || parsed != tt.kind {
				t.Errorf("ParseKind(%q) = %v, %v", tt.name, parsed, ok)
			}
		})
	}

	if Kind(42).Valid() {
		t.Error("expected Kind(42) to be invalid")
	}
	if Kind(42).TypeName() != "" {
		t.Error("expected empty type name for invalid kind")
	}
	if _, ok := ParseKind("Boolean"); ok {
		t.Error("expected Boolean to be unknown")
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		value    interface{}
		expected string
		wantErr  string
	}{
		{name: "string", kind: KindString, value: "S2MSI2A", expected: "'S2MSI2A'"},
		{name: "string with comma", kind: KindString, value: "61, 69", expected: "'61, 69'"},
		{name: "string with quote", kind: KindString, value: "it's", expected: "'it''s'"},
		{name: "integer int", kind: KindInteger, value: 999, expected: "999"},
		{name: "integer int32", kind: KindInteger, value: int32(-7), expected: "-7"},
		{name: "integer uint16", kind: KindInteger, value: uint16(12), expected: "12"},
		{name: "double integral", kind: KindDouble, value: 10.0, expected: "10.0"},
		{name: "double fraction", kind: KindDouble, value: 10.25, expected: "10.25"},
		{name: "double float32", kind: KindDouble, value: float32(0.5), expected: "0.5"},
		{name: "datetime", kind: KindDateTimeOffset, value: time.Date(2019, 1, 1, 1, 0, 0, 0, time.UTC), expected: "2019-01-01T01:00:00.000Z"},
		{name: "string rejects int", kind: KindString, value: 1, wantErr: "cannot convert int to Edm.String"},
		{name: "double rejects int", kind: KindDouble, value: 10, wantErr: "cannot convert int to Edm.Double"},
		{name: "integer rejects float", kind: KindInteger, value: 1.0, wantErr: "cannot convert float64 to Edm.Int64"},
		{name: "integer rejects huge uint64", kind: KindInteger, value: uint64(math.MaxUint64), wantErr: "out of range"},
		{name: "datetime rejects string", kind: KindDateTimeOffset, value: "2019-01-01", wantErr: "cannot convert string to Edm.DateTimeOffset"},
		{name: "datetime rejects zero time", kind: KindDateTimeOffset, value: time.Time{}, wantErr: "zero time"},
		{name: "string rejects nil pointer", kind: KindString, value: (*string)(nil), wantErr: "cannot convert *string to Edm.String"},
		{name: "string rejects pointer", kind: KindString, value: new(string), wantErr: "cannot convert *string to Edm.String"},
		{name: "integer rejects nil pointer", kind: KindInteger, value: (*int64)(nil), wantErr: "cannot convert *int64 to Edm.Int64"},
		{name: "double rejects nil pointer", kind: KindDouble, value: (*float64)(nil), wantErr: "cannot convert *float64 to Edm.Double"},
		{name: "datetime rejects nil pointer", kind: KindDateTimeOffset, value: (*time.Time)(nil), wantErr: "cannot convert *time.Time to Edm.DateTimeOffset"},
		{name: "unknown kind", kind: Kind(9), value: "x", wantErr: "unknown EDM kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Literal(tt.kind, tt.value)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got literal %q", tt.wantErr, got)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Literal() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNullValues(t *testing.T) {
	for _, kind := range []Kind{KindString, KindDouble, KindInteger, KindDateTimeOffset} {
		v, err := New(kind, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if !v.IsNull() {
			t.Errorf("%s: expected null", kind)
		}
		if v.String() != "null" {
			t.Errorf("%s: expected null literal, got %q", kind, v.String())
		}
		if v.Value() != nil {
			t.Errorf("%s: expected nil value, got %v", kind, v.Value())
		}
		if v.Kind() != kind {
			t.Errorf("Kind() = %v, want %v", v.Kind(), kind)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		data  string
		value interface{}
	}{
		{"string", KindString, `"S2MSI1C"`, "S2MSI1C"},
		{"integer", KindInteger, `11403`, int64(11403)},
		{"double", KindDouble, `12.5`, 12.5},
		{"double infinity", KindDouble, `"INF"`, math.Inf(1)},
		{"datetime", KindDateTimeOffset, `"2023-07-02T06:26:31.024Z"`, time.Date(2023, 7, 2, 6, 26, 31, 24000000, time.UTC)},
		{"null", KindInteger, `null`, nil},
		{"empty input", KindString, ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(tt.kind, []byte(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
			if tt.value == nil {
				if !v.IsNull() || v.Value() != nil {
					t.Errorf("expected null, got %v", v.Value())
				}
				return
			}
			if v.IsNull() {
				t.Fatal("unexpected null")
			}
			if want, ok := tt.value.(time.Time); ok {
				if got, _ := v.Value().(time.Time); !got.Equal(want) {
					t.Errorf("Value() = %v, want %v", v.Value(), want)
				}
				return
			}
			if v.Value() != tt.value {
				t.Errorf("Value() = %v, want %v", v.Value(), tt.value)
			}
		})
	}

	if _, err := Decode(KindInteger, []byte(`"many"`)); err == nil {
		t.Error("expected error for a string decoded as Integer")
	}
	if _, err := Decode(KindDouble, []byte(`"Infinity"`)); err == nil {
		t.Error("expected error for an unknown special double")
	}
	if _, err := Decode(Kind(9), []byte(`1`)); err == nil {
		t.Error("expected error for an unknown kind")
	}
}

func TestFormatDouble(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{10, "10.0"},
		{-3.5, "-3.5"},
		{1000000, "1000000.0"},
		{0.1, "0.1"},
		{1e16, "1e+16"},
		{1.5e-05, "1.5e-05"},
		{math.Inf(1), "INF"},
		{math.Inf(-1), "-INF"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := FormatDouble(tt.in); got != tt.want {
			t.Errorf("FormatDouble(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
