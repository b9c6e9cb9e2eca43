package types

import (
	"fmt"
	"strconv"
	"time"
)

// ISOLayout is the canonical wire form for date cells: ISO-8601 with
// millisecond precision, always in UTC. Dates are rewritten to this
// form before they reach storage and parsed back from it on reads.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// dateLayouts are the textual forms accepted when coercing a stored
// value back into a date, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts an arbitrary raw value into the canonical in-memory
// representation for the given column type.
//
// The rules are lenient by design: they never fail, they only produce a
// best-effort typed value or nil. This is the read-path counterpart to
// the strict write-path validation in the rows package; the asymmetry
// is intentional.
func Coerce(t Type, raw any) any {
	switch t {
	case BoolType:
		return CoerceBool(raw)
	case DateType:
		return CoerceDate(raw)
	case StringType:
		return CoerceString(raw)
	case NumberType:
		return CoerceNumber(raw)
	default:
		return raw
	}
}

// CoerceBool converts a raw value into a bool.
//
// A native bool passes through. The literal values 1 and "1" map to
// true, 0 and "0" map to false. Anything else yields nil.
func CoerceBool(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		switch v {
		case "1":
			return true
		case "0":
			return false
		}
		return nil
	default:
		if f, ok := numericValue(raw); ok {
			switch f {
			case 1:
				return true
			case 0:
				return false
			}
		}
		return nil
	}
}

// CoerceDate converts a raw value into a time.Time.
//
// A native time.Time passes through. Strings are parsed against the
// accepted layouts; numerics are interpreted as milliseconds since the
// Unix epoch. An unparseable value yields nil.
func CoerceDate(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		return v
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		return nil
	default:
		if f, ok := numericValue(raw); ok {
			return time.UnixMilli(int64(f)).UTC()
		}
		return nil
	}
}

// CoerceString converts a raw value into a string.
//
// A native string passes through unchanged, nil stays nil, and any
// other value is stringified via its default textual representation.
func CoerceString(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", raw)
	}
}

// CoerceNumber converts a raw value into a float64.
//
// Any native numeric kind passes through as float64, nil stays nil,
// and strings are parsed; a parse failure yields nil.
func CoerceNumber(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return f
	default:
		if f, ok := numericValue(raw); ok {
			return f
		}
		return nil
	}
}

// numericValue reports whether raw holds one of Go's numeric kinds and
// returns it widened to float64. Drivers hand back int64 for SQLite
// INTEGER columns and float64 for REAL, but callers may also pass
// plain ints.
func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether raw holds a native numeric kind. The
// write-path validator uses this for strict number-column checks.
func IsNumeric(raw any) bool {
	_, ok := numericValue(raw)
	return ok
}
