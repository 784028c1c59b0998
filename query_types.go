package copernicus

import (
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/edm"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/query"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/response"
)

// QueryOptions holds the query options of a Products request: $filter, $orderby,
// $top, $skip, $count and $expand. Options render in that order.
//
// Example:
//
//	filter := copernicus.NewFilter().ByCollection("SENTINEL-2")
//	opts := copernicus.NewQueryOptions()
//	_ = opts.SetFilter(filter)
//	_ = opts.SetOrderBy(copernicus.OrderByPublicationDate, copernicus.Descending)
//	page, err := client.Send(ctx, opts)
type QueryOptions = query.QueryOptions

// FilterExpression accumulates $filter fragments.
type FilterExpression = query.FilterExpression

// Attribute is a catalogue attribute usable in typed predicates.
type Attribute = query.Attribute

// DateRange configures ByPublicationDate and BySensingDate.
type DateRange = query.DateRange

// ContentDateField selects a side of a product's acquisition interval.
type ContentDateField = query.ContentDateField

// FilterOperator re-exports the comparison operators.
type FilterOperator = query.FilterOperator

// SubstringMode selects contains, startswith or endswith for name searches.
type SubstringMode = query.SubstringMode

// OrderByField is a sortable product property.
type OrderByField = query.OrderByField

// Direction is the $orderby direction.
type Direction = query.Direction

// Expand is the $expand selection.
type Expand = query.Expand

// Kind is an attribute value type.
type Kind = edm.Kind

// Response types.
type (
	ProductPage      = response.ProductPage
	Product          = response.Product
	ProductAttribute = response.ProductAttribute
	Asset            = response.Asset
	Checksum         = response.Checksum
	ContentDate      = response.ContentDate
	NodeListing      = response.NodeListing
	Node             = response.Node
)

// Comparison operators.
const (
	OpEqual              = query.OpEqual
	OpLessThan           = query.OpLessThan
	OpLessThanOrEqual    = query.OpLessThanOrEqual
	OpGreaterThanOrEqual = query.OpGreaterThanOrEqual
	OpGreaterThan        = query.OpGreaterThan
)

// Substring functions.
const (
	ModeContains   = query.ModeContains
	ModeEndsWith   = query.ModeEndsWith
	ModeStartsWith = query.ModeStartsWith
)

const (
	ContentDateStart = query.ContentDateStart
	ContentDateEnd   = query.ContentDateEnd
)

// Sortable fields.
const (
	OrderByContentDateStart = query.OrderByContentDateStart
	OrderByContentDateEnd   = query.OrderByContentDateEnd
	OrderByPublicationDate  = query.OrderByPublicationDate
	OrderByModificationDate = query.OrderByModificationDate
)

const (
	DirectionNone = query.DirectionNone
	Ascending     = query.Ascending
	Descending    = query.Descending
)

// Attribute value kinds.
const (
	KindString         = edm.KindString
	KindDouble         = edm.KindDouble
	KindInteger        = edm.KindInteger
	KindDateTimeOffset = edm.KindDateTimeOffset
)

const (
	MaxTop  = query.MaxTop
	MaxSkip = query.MaxSkip
)

// The attribute catalogue.
var (
	Authority                = query.Authority
	Timeliness               = query.Timeliness
	Coordinates              = query.Coordinates
	OrbitNumber              = query.OrbitNumber
	ProductType              = query.ProductType
	EndingDateTime           = query.EndingDateTime
	OrbitDirection           = query.OrbitDirection
	OperationalMode          = query.OperationalMode
	ProcessingLevel          = query.ProcessingLevel
	BeginningDateTime        = query.BeginningDateTime
	PlatformShortName        = query.PlatformShortName
	BaselineCollection       = query.BaselineCollection
	InstrumentShortName      = query.InstrumentShortName
	RelativeOrbitNumber      = query.RelativeOrbitNumber
	PlatformSerialIdentifier = query.PlatformSerialIdentifier
	CloudCover               = query.CloudCover
)

// NewFilter returns an empty filter expression.
func NewFilter() *FilterExpression {
	return query.NewFilter()
}

// NewQueryOptions returns options with every slot absent.
func NewQueryOptions() *QueryOptions {
	return query.NewQueryOptions()
}

// LookupAttribute finds a catalogue attribute by its exact name.
func LookupAttribute(name string) (Attribute, bool) {
	return query.LookupAttribute(name)
}

// NewAttribute binds an attribute name missing from the catalogue to its kind.
func NewAttribute(name string, kind Kind) (Attribute, error) {
	return query.NewAttribute(name, kind)
}

// Attributes lists the attribute catalogue.
func Attributes() []Attribute {
	return query.Attributes()
}
