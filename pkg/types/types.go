package types

import "fmt"

// Type identifies the declared type of a data store column.
// The set is closed: rows are validated and normalized by an
// exhaustive switch over these tags.
type Type int

const (
	BoolType Type = iota
	DateType
	StringType
	NumberType
)

// String returns the textual name of the type as it appears in
// column definitions and error messages.
func (t Type) String() string {
	switch t {
	case BoolType:
		return "boolean"
	case DateType:
		return "date"
	case StringType:
		return "string"
	case NumberType:
		return "number"
	default:
		return "unknown"
	}
}

// IsValidType reports whether t is one of the declared column types.
func IsValidType(t Type) bool {
	return t >= BoolType && t <= NumberType
}

// ParseType converts a textual type name into its Type tag.
//
// Returns an error for any name outside the closed set.
func ParseType(s string) (Type, error) {
	switch s {
	case "boolean":
		return BoolType, nil
	case "date":
		return DateType, nil
	case "string":
		return StringType, nil
	case "number":
		return NumberType, nil
	default:
		return 0, fmt.Errorf("unsupported column type: %q", s)
	}
}
