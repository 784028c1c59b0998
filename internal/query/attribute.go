package query

import (
	"fmt"
	"sort"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/edm"
)

// Attribute is a typed product attribute of the catalogue. Its comparison methods
// render a predicate over the product's Attributes collection:
//
//	Attributes/OData.CSC.<Kind>Attribute/any(att:att/Name eq '<name>' and att/OData.CSC.<Kind>Attribute/Value <op> <value>)
//
// An Attribute is an immutable value; comparing it has no side effects.
type Attribute struct {
	name string
	kind edm.Kind
}

// NewAttribute binds name to kind. Use it for attributes the built-in catalogue does
// not list yet.
func NewAttribute(name string, kind edm.Kind) (Attribute, error) {
	if name == "" {
		return Attribute{}, fmt.Errorf("attribute name is required: %w", ErrInvalidArgument)
	}
	if !kind.Valid() {
		return Attribute{}, fmt.Errorf("attribute %q has unknown kind %d: %w", name, int(kind), ErrInvalidArgument)
	}
	return Attribute{name: name, kind: kind}, nil
}

// Name returns the catalogue attribute name (e.g., "cloudCover").
func (a Attribute) Name() string { return a.name }

// Kind returns the value kind bound to the attribute.
func (a Attribute) Kind() edm.Kind { return a.kind }

// Equals renders "Value eq <value>".
func (a Attribute) Equals(value interface{}) (string, error) {
	return a.Compare(OpEqual, value)
}

// LessThan renders "Value lt <value>".
func (a Attribute) LessThan(value interface{}) (string, error) {
	return a.Compare(OpLessThan, value)
}

// LessOrEqual renders "Value le <value>".
func (a Attribute) LessOrEqual(value interface{}) (string, error) {
	return a.Compare(OpLessThanOrEqual, value)
}

// GreaterOrEqual renders "Value ge <value>".
func (a Attribute) GreaterOrEqual(value interface{}) (string, error) {
	return a.Compare(OpGreaterThanOrEqual, value)
}

// GreaterThan renders "Value gt <value>".
func (a Attribute) GreaterThan(value interface{}) (string, error) {
	return a.Compare(OpGreaterThan, value)
}

// Compare renders the predicate for op and value.
func (a Attribute) Compare(op FilterOperator, value interface{}) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("operator %q: %w", op, ErrInvalidArgument)
	}
	if op.Relational() && !a.kind.Ordered() {
		return "", fmt.Errorf("%s attribute %q supports only %s, not %s: %w",
			a.kind, a.name, OpEqual, op, ErrUnsupportedOperator)
	}
	if value == nil {
		return "", fmt.Errorf("attribute %q: nil value: %w", a.name, ErrTypeMismatch)
	}

	literal, err := edm.Literal(a.kind, value)
	if err != nil {
		return "", fmt.Errorf("attribute %q: %v: %w", a.name, err, ErrTypeMismatch)
	}

	return fmt.Sprintf("Attributes/OData.CSC.%[1]sAttribute/any(att:att/Name eq '%[2]s' and att/OData.CSC.%[1]sAttribute/Value %[3]s %[4]s)",
		a.kind, a.name, op, literal), nil
}

// Built-in catalogue attributes. The set was collected from catalogue responses; some
// collections expose more names, which NewAttribute covers.
var (
	Authority                = Attribute{name: "authority", kind: edm.KindString}
	Timeliness               = Attribute{name: "timeliness", kind: edm.KindString}
	Coordinates              = Attribute{name: "coordinates", kind: edm.KindString}
	OrbitNumber              = Attribute{name: "orbitNumber", kind: edm.KindInteger}
	ProductType              = Attribute{name: "productType", kind: edm.KindString}
	EndingDateTime           = Attribute{name: "endingDateTime", kind: edm.KindDateTimeOffset}
	OrbitDirection           = Attribute{name: "orbitDirection", kind: edm.KindString}
	OperationalMode          = Attribute{name: "operationalMode", kind: edm.KindString}
	ProcessingLevel          = Attribute{name: "processingLevel", kind: edm.KindString}
	BeginningDateTime        = Attribute{name: "beginningDateTime", kind: edm.KindDateTimeOffset}
	PlatformShortName        = Attribute{name: "platformShortName", kind: edm.KindString}
	BaselineCollection       = Attribute{name: "baselineCollection", kind: edm.KindString}
	InstrumentShortName      = Attribute{name: "instrumentShortName", kind: edm.KindString}
	RelativeOrbitNumber      = Attribute{name: "relativeOrbitNumber", kind: edm.KindInteger}
	PlatformSerialIdentifier = Attribute{name: "platformSerialIdentifier", kind: edm.KindString}
	CloudCover               = Attribute{name: "cloudCover", kind: edm.KindDouble}
)

var catalogue = func() map[string]Attribute {
	m := make(map[string]Attribute)
	for _, a := range []Attribute{
		Authority, Timeliness, Coordinates, OrbitNumber, ProductType, EndingDateTime,
		OrbitDirection, OperationalMode, ProcessingLevel, BeginningDateTime,
		PlatformShortName, BaselineCollection, InstrumentShortName, RelativeOrbitNumber,
		PlatformSerialIdentifier, CloudCover,
	} {
		m[a.name] = a
	}
	return m
}()

// LookupAttribute returns the built-in attribute with the given name.
func LookupAttribute(name string) (Attribute, bool) {
	a, ok := catalogue[name]
	return a, ok
}

// Attributes lists the built-in catalogue sorted by name.
func Attributes() []Attribute {
	out := make([]Attribute, 0, len(catalogue))
	for _, a := range catalogue {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
