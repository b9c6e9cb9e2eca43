package rows

import (
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/types"
)

// Normalize converts every cell of every row to the canonical
// in-memory type implied by its column, regardless of how the backing
// store represented it.
//
// A key with no matching column passes through unchanged: the schema
// may have drifted between a read request's issuance and its
// execution, and reads tolerate that. Normalization never fails and is
// idempotent on already-canonical rows.
func Normalize(s *schema.Schema, batch []Row) []Row {
	normalized := make([]Row, len(batch))

	for i, row := range batch {
		out := make(Row, len(row))
		for key, value := range row {
			typ, ok := s.TypeOf(key)
			if !ok {
				out[key] = value
				continue
			}
			out[key] = types.Coerce(typ, value)
		}
		normalized[i] = out
	}

	return normalized
}
