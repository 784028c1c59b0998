package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/edm"
)

// FilterExpression accumulates $filter fragments in call order. Fragments are opaque
// text: the builder guarantees spacing, not grammar, so callers place connectives
// between predicates themselves.
//
// The zero value is an empty filter ready for use. A FilterExpression must not be
// mutated concurrently.
type FilterExpression struct {
	body    string
	present bool
}

// NewFilter returns an empty filter.
func NewFilter() *FilterExpression {
	return &FilterExpression{}
}

// Body returns the accumulated text and whether any fragment has been appended.
// A filter can be present and empty after ByAttributes is called with no predicates.
func (f *FilterExpression) Body() (string, bool) {
	if f == nil {
		return "", false
	}
	return f.body, f.present
}

// String returns the accumulated text.
func (f *FilterExpression) String() string {
	body, _ := f.Body()
	return body
}

// Clear drops every fragment; the filter becomes absent again.
func (f *FilterExpression) Clear() {
	f.body = ""
	f.present = false
}

// appendRaw joins fragment to the body with exactly one space.
func (f *FilterExpression) appendRaw(fragment string) {
	switch {
	case f.body == "":
		f.body = fragment
	case strings.HasSuffix(f.body, " "):
		f.body += fragment
	default:
		f.body += " " + fragment
	}
	f.present = true
}

// And appends the "and" connective.
func (f *FilterExpression) And() *FilterExpression {
	f.appendRaw(string(LogicalAnd))
	return f
}

// Or appends the "or" connective.
func (f *FilterExpression) Or() *FilterExpression {
	f.appendRaw(string(LogicalOr))
	return f
}

// Not appends the "not" operator.
func (f *FilterExpression) Not() *FilterExpression {
	f.appendRaw(string(LogicalNot))
	return f
}

// Raw appends a caller-built fragment verbatim.
func (f *FilterExpression) Raw(fragment string) *FilterExpression {
	f.appendRaw(fragment)
	return f
}

// SubstringSearch appends "<mode>(Name,'<text>')".
func (f *FilterExpression) SubstringSearch(text string, mode SubstringMode) error {
	if !mode.Valid() {
		return fmt.Errorf("substring mode %q, expected one of %s, %s, %s: %w",
			mode, ModeContains, ModeEndsWith, ModeStartsWith, ErrInvalidArgument)
	}
	f.substring(mode, text)
	return nil
}

// substring appends the name search for an already validated mode.
func (f *FilterExpression) substring(mode SubstringMode, text string) *FilterExpression {
	f.appendRaw(fmt.Sprintf("%s(Name,%s)", mode, edm.Quote(text)))
	return f
}

// Contains matches product names containing text.
func (f *FilterExpression) Contains(text string) *FilterExpression {
	return f.substring(ModeContains, text)
}

// EndsWith matches product names ending with text.
func (f *FilterExpression) EndsWith(text string) *FilterExpression {
	return f.substring(ModeEndsWith, text)
}

// StartsWith matches product names starting with text.
func (f *FilterExpression) StartsWith(text string) *FilterExpression {
	return f.substring(ModeStartsWith, text)
}

// ByName matches a product by its exact name.
func (f *FilterExpression) ByName(name string) *FilterExpression {
	f.appendRaw("Name eq " + edm.Quote(name))
	return f
}

// ByCollection restricts the search to one collection (e.g., "SENTINEL-2").
func (f *FilterExpression) ByCollection(collection string) *FilterExpression {
	f.appendRaw("Collection/Name eq " + edm.Quote(collection))
	return f
}

// ContentDateField selects a side of a product's acquisition interval.
type ContentDateField string

const (
	ContentDateStart ContentDateField = "Start"
	ContentDateEnd   ContentDateField = "End"
)

// Valid reports whether c names a side of ContentDate.
func (c ContentDateField) Valid() bool {
	return c == ContentDateStart || c == ContentDateEnd
}

// DateRange configures a two-sided date predicate.
type DateRange struct {
	// Inclusive selects ge/le instead of gt/lt.
	Inclusive bool

	// FullDay widens start to 00:00:00.000 of its day and end to 23:59:59.999 of its day.
	FullDay bool

	// StartField and EndField pick the ContentDate side each bound is compared with.
	// Only BySensingDate reads them; empty means ContentDateStart.
	StartField ContentDateField
	EndField   ContentDateField
}

func (r DateRange) operators() (FilterOperator, FilterOperator) {
	if r.Inclusive {
		return OpGreaterThanOrEqual, OpLessThanOrEqual
	}
	return OpGreaterThan, OpLessThan
}

func (r DateRange) bounds(start, end time.Time) (string, string) {
	if r.FullDay {
		// Clamp to the UTC calendar day the timestamp is rendered in.
		start, end = start.UTC(), end.UTC()
		start = edm.StartOfDay(start)
		end = edm.EndOfDay(end)
	}
	return edm.FormatDateTime(start), edm.FormatDateTime(end)
}

// ByPublicationDate matches products published between start and end.
func (f *FilterExpression) ByPublicationDate(start, end time.Time, r DateRange) *FilterExpression {
	lower, upper := r.operators()
	from, to := r.bounds(start, end)
	f.appendRaw(fmt.Sprintf("PublicationDate %s %s and PublicationDate %s %s", lower, from, upper, to))
	return f
}

// BySensingDate matches products acquired between start and end.
func (f *FilterExpression) BySensingDate(start, end time.Time, r DateRange) error {
	startField, err := contentDateField(r.StartField)
	if err != nil {
		return err
	}
	endField, err := contentDateField(r.EndField)
	if err != nil {
		return err
	}

	lower, upper := r.operators()
	from, to := r.bounds(start, end)
	f.appendRaw(fmt.Sprintf("ContentDate/%s %s %s and ContentDate/%s %s %s",
		startField, lower, from, endField, upper, to))
	return nil
}

func contentDateField(c ContentDateField) (ContentDateField, error) {
	if c == "" {
		return ContentDateStart, nil
	}
	if !c.Valid() {
		return "", fmt.Errorf("content date field %q, expected %s or %s: %w",
			c, ContentDateStart, ContentDateEnd, ErrInvalidArgument)
	}
	return c, nil
}

// ByGeometry matches products whose footprint intersects a WKT geometry given in
// EPSG:4326. Polygons must be closed; MULTIPOLYGON is rejected because the catalogue
// does not support it.
func (f *FilterExpression) ByGeometry(wkt string) error {
	if strings.Contains(wkt, "MULTIPOLYGON") {
		return fmt.Errorf("MULTIPOLYGON is not supported by the catalogue: %w", ErrUnsupportedGeometry)
	}
	f.appendRaw(fmt.Sprintf("OData.CSC.Intersects(area=geography'SRID=4326;%s')", wkt))
	return nil
}

// ByAttributes joins predicates (usually rendered by Attribute) with " and " and
// appends them as one fragment.
func (f *FilterExpression) ByAttributes(predicates ...string) *FilterExpression {
	return f.ByAttributesJoined(" and ", predicates...)
}

// ByAttributesJoined joins predicates with joiner. No predicates still appends an
// empty fragment, which makes an absent filter present.
func (f *FilterExpression) ByAttributesJoined(joiner string, predicates ...string) *FilterExpression {
	f.appendRaw(strings.Join(predicates, joiner))
	return f
}
