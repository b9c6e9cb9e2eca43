// Package rows implements the schema-governed row engine: strict
// validation of candidate rows on the write path and lenient
// normalization of stored rows on the read path.
//
// The two halves are deliberately asymmetric. Writes must already carry
// correctly typed cells and fail fast on the first violation; reads
// coerce whatever the backing store returned into canonical in-memory
// types and never fail. Do not "fix" this into symmetry.
package rows

// Row is one record of cell values keyed by column name. Rows are
// transient: they are always produced and consumed as a batch against a
// specific schema snapshot, never stored by this package.
//
// After normalization a cell holds one of the canonical types:
// bool, time.Time, string, float64, or nil.
type Row map[string]any

// Copy returns a shallow copy of the row.
func (r Row) Copy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
