package rows

import (
	"time"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/types"
)

// Validate enforces that every row in the batch matches the schema
// exactly, failing fast on the first violation.
//
// Per row:
//  1. An empty schema rejects the whole batch: a deleted or unknown
//     data store and a store with zero user columns are both invalid
//     targets for writes.
//  2. The row's key count must equal the schema's column count. This
//     catches both missing and extra keys in one comparison.
//  3. Every key must name a declared column.
//  4. A nil cell is accepted for any column type.
//  5. Otherwise the cell's runtime type must strictly match the
//     declared type; no read-path coercion happens here. Date cells
//     are rewritten in place to the canonical ISO-8601 wire form
//     before they reach storage.
//
// A batch either passes in full or the caller must treat it as wholly
// rejected; there is no partial application.
func Validate(s *schema.Schema, batch []Row) error {
	if s.NumColumns() == 0 {
		return apperr.Invalid(apperr.CodeEmptySchema, "no columns found for this data store")
	}

	for _, row := range batch {
		if err := validateRow(s, row); err != nil {
			return err
		}
	}

	return nil
}

func validateRow(s *schema.Schema, row Row) error {
	if len(row) != s.NumColumns() {
		return apperr.Invalid(apperr.CodeKeyCountMismatch,
			"mismatched key count: row has %d keys, schema has %d columns",
			len(row), s.NumColumns())
	}

	for key, value := range row {
		typ, ok := s.TypeOf(key)
		if !ok {
			return apperr.Invalid(apperr.CodeUnknownColumnKey, "unknown column name %q", key)
		}

		// Every column is nullable.
		if value == nil {
			continue
		}

		if err := validateCell(row, key, value, typ); err != nil {
			return err
		}
	}

	return nil
}

func validateCell(row Row, key string, value any, typ types.Type) error {
	switch typ {
	case types.BoolType:
		if _, ok := value.(bool); !ok {
			return typeMismatch(value, typ)
		}

	case types.DateType:
		t, ok := value.(time.Time)
		if !ok {
			return typeMismatch(value, typ)
		}
		row[key] = t.UTC().Format(types.ISOLayout)

	case types.StringType:
		if _, ok := value.(string); !ok {
			return typeMismatch(value, typ)
		}

	case types.NumberType:
		if !types.IsNumeric(value) {
			return typeMismatch(value, typ)
		}
	}

	return nil
}

func typeMismatch(value any, typ types.Type) error {
	return apperr.Invalid(apperr.CodeTypeMismatch,
		"value %v is not of type %s", value, typ)
}
