package query

// FilterOperator represents filter comparison operators
type FilterOperator string

const (
	OpEqual              FilterOperator = "eq"
	OpLessThan           FilterOperator = "lt"
	OpLessThanOrEqual    FilterOperator = "le"
	OpGreaterThanOrEqual FilterOperator = "ge"
	OpGreaterThan        FilterOperator = "gt"
)

// Valid reports whether op is one of the comparison operators the catalogue accepts.
func (op FilterOperator) Valid() bool {
	switch op {
	case OpEqual, OpLessThan, OpLessThanOrEqual, OpGreaterThanOrEqual, OpGreaterThan:
		return true
	}
	return false
}

// Relational reports whether op orders values rather than testing equality.
func (op FilterOperator) Relational() bool {
	return op.Valid() && op != OpEqual
}

// LogicalOperator represents the connectives appended between fragments
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
	LogicalNot LogicalOperator = "not"
)

// SubstringMode selects the OData string function used for name searches.
type SubstringMode string

const (
	ModeContains   SubstringMode = "contains"
	ModeEndsWith   SubstringMode = "endswith"
	ModeStartsWith SubstringMode = "startswith"
)

// Valid reports whether m is a known substring function.
func (m SubstringMode) Valid() bool {
	switch m {
	case ModeContains, ModeEndsWith, ModeStartsWith:
		return true
	}
	return false
}
