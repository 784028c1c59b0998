package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds the catalogue enforces on paging options.
const (
	MaxTop  = 1000
	MaxSkip = 10000
)

// OrderByField is a product property the catalogue can sort on.
type OrderByField string

const (
	OrderByContentDateStart OrderByField = "ContentDate/Start"
	OrderByContentDateEnd   OrderByField = "ContentDate/End"
	OrderByPublicationDate  OrderByField = "PublicationDate"
	OrderByModificationDate OrderByField = "ModificationDate"
)

// Valid reports whether f is sortable.
func (f OrderByField) Valid() bool {
	switch f {
	case OrderByContentDateStart, OrderByContentDateEnd, OrderByPublicationDate, OrderByModificationDate:
		return true
	}
	return false
}

// Direction is the optional sort direction of $orderby. DirectionNone leaves the
// choice to the service, which sorts ascending.
type Direction int

const (
	DirectionNone Direction = iota
	Ascending
	Descending
)

// Expand selects which navigation collections $expand includes.
type Expand int

const (
	ExpandNone Expand = iota
	ExpandAttributes
	ExpandAssets
	ExpandBoth
)

// String returns the $expand value.
func (e Expand) String() string {
	switch e {
	case ExpandAttributes:
		return "Attributes"
	case ExpandAssets:
		return "Assets"
	case ExpandBoth:
		return "Assets,Attributes"
	default:
		return ""
	}
}

// QueryOptions holds the six query options of a Products request. Each slot is
// independently present or absent; absent slots are left out of the URL.
// The zero value has every slot absent.
type QueryOptions struct {
	filter  *FilterExpression
	orderBy string
	top     *int
	skip    *int
	count   bool
	expand  Expand
}

// NewQueryOptions returns options with every slot absent.
func NewQueryOptions() *QueryOptions {
	return &QueryOptions{}
}

// SetFilter attaches f. The filter is read at render time, so later changes to f are
// reflected in the URL.
func (o *QueryOptions) SetFilter(f *FilterExpression) error {
	if f == nil {
		return fmt.Errorf("filter is nil: %w", ErrInvalidArgument)
	}
	o.filter = f
	return nil
}

// SetOrderBy sorts results by field.
func (o *QueryOptions) SetOrderBy(field OrderByField, dir Direction) error {
	if !field.Valid() {
		return fmt.Errorf("orderby field %q, expected one of %s, %s, %s, %s: %w", field,
			OrderByContentDateStart, OrderByContentDateEnd, OrderByPublicationDate, OrderByModificationDate,
			ErrInvalidArgument)
	}
	switch dir {
	case DirectionNone:
		o.orderBy = string(field)
	case Ascending:
		o.orderBy = string(field) + " asc"
	case Descending:
		o.orderBy = string(field) + " desc"
	default:
		return fmt.Errorf("orderby direction %d: %w", int(dir), ErrInvalidArgument)
	}
	return nil
}

// SetTop limits the number of returned products to [0, MaxTop]. A nil top keeps the
// current value.
func (o *QueryOptions) SetTop(top *int) error {
	if top == nil {
		return nil
	}
	if err := checkRange("$top", *top, MaxTop); err != nil {
		return err
	}
	v := *top
	o.top = &v
	return nil
}

// SetSkip skips [0, MaxSkip] products. A nil skip keeps the current value.
func (o *QueryOptions) SetSkip(skip *int) error {
	if skip == nil {
		return nil
	}
	if err := checkRange("$skip", *skip, MaxSkip); err != nil {
		return err
	}
	v := *skip
	o.skip = &v
	return nil
}

func checkRange(name string, v, max int) error {
	if v < 0 || v > max {
		return fmt.Errorf("%s must be between 0 and %d, got %d: %w", name, max, v, ErrOutOfRange)
	}
	return nil
}

// SetCount asks the service for the exact number of matches. Only true changes
// anything; counting stays off otherwise.
func (o *QueryOptions) SetCount(enable bool) {
	if enable {
		o.count = true
	}
}

// SetExpand includes full attribute metadata and/or the asset list of every product.
// When both flags are false the current value is kept.
func (o *QueryOptions) SetExpand(attributes, assets bool) {
	switch {
	case attributes && assets:
		o.expand = ExpandBoth
	case attributes:
		o.expand = ExpandAttributes
	case assets:
		o.expand = ExpandAssets
	}
}

// Clear resets every slot to absent.
func (o *QueryOptions) Clear() {
	*o = QueryOptions{}
}

// Filter returns the attached filter, or nil.
func (o *QueryOptions) Filter() *FilterExpression { return o.filter }

// OrderBy returns the rendered $orderby value and whether it is set.
func (o *QueryOptions) OrderBy() (string, bool) { return o.orderBy, o.orderBy != "" }

// Top returns $top, or nil when unset.
func (o *QueryOptions) Top() *int { return o.top }

// Skip returns $skip, or nil when unset.
func (o *QueryOptions) Skip() *int { return o.skip }

// Count reports whether $count is requested.
func (o *QueryOptions) Count() bool { return o.count }

// Expand returns the $expand selection.
func (o *QueryOptions) Expand() Expand { return o.expand }

// Option is one rendered name/value pair.
type Option struct {
	Name  string
	Value string
}

// optionSlots lists the options in wire order. The order is part of the contract with
// the catalogue and must not change.
var optionSlots = [...]struct {
	name  string
	value func(*QueryOptions) (string, bool)
}{
	{"filter", func(o *QueryOptions) (string, bool) { return o.filter.Body() }},
	{"orderby", (*QueryOptions).OrderBy},
	{"top", func(o *QueryOptions) (string, bool) { return intOption(o.top) }},
	{"skip", func(o *QueryOptions) (string, bool) { return intOption(o.skip) }},
	{"count", func(o *QueryOptions) (string, bool) { return "True", o.count }},
	{"expand", func(o *QueryOptions) (string, bool) { return o.expand.String(), o.expand != ExpandNone }},
}

func intOption(v *int) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.Itoa(*v), true
}

// Options returns the present options in wire order.
func (o *QueryOptions) Options() []Option {
	out := make([]Option, 0, len(optionSlots))
	for _, slot := range optionSlots {
		if value, ok := slot.value(o); ok {
			out = append(out, Option{Name: slot.name, Value: value})
		}
	}
	return out
}

// Encode renders "$name=value" pairs joined by "&". Values are not escaped; see
// RequoteURL for the form that goes on the wire.
func (o *QueryOptions) Encode() string {
	var sb strings.Builder
	for i, opt := range o.Options() {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteByte('$')
		sb.WriteString(opt.Name)
		sb.WriteByte('=')
		sb.WriteString(opt.Value)
	}
	return sb.String()
}

// URL renders "<endpoint>?<options>".
func (o *QueryOptions) URL(endpoint string) string {
	return endpoint + "?" + o.Encode()
}
