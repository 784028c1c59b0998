package query

import "errors"

// Builder errors. Every failure returned by this package wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// ErrInvalidArgument reports an input outside an enumerated set (orderby field,
	// content-date side, substring mode) or a missing required value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTypeMismatch reports an attribute value whose Go type does not match the
	// attribute's kind.
	ErrTypeMismatch = errors.New("attribute value type mismatch")

	// ErrUnsupportedOperator reports a relational operator applied to a String attribute.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrUnsupportedGeometry reports a geometry the catalogue cannot intersect with.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")

	// ErrOutOfRange reports a $top or $skip value outside the catalogue's bounds.
	ErrOutOfRange = errors.New("value out of range")
)
