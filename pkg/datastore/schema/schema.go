package schema

import (
	"slices"

	"gridstore/pkg/types"
)

// Schema is an ordered column list with fast name lookups. It is a
// point-in-time snapshot: callers fetch a fresh one immediately before
// every row operation because the column set may have changed since the
// request was issued.
type Schema struct {
	Columns []Column

	nameToIndex map[string]int
}

// New builds a Schema from a column list, ordering columns by Position.
func New(columns []Column) *Schema {
	sorted := slices.Clone(columns)
	slices.SortFunc(sorted, func(a, b Column) int {
		return a.Position - b.Position
	})

	nameToIndex := make(map[string]int, len(sorted))
	for i, col := range sorted {
		nameToIndex[col.Name] = i
	}

	return &Schema{
		Columns:     sorted,
		nameToIndex: nameToIndex,
	}
}

// NumColumns returns the number of columns in the schema.
func (s *Schema) NumColumns() int {
	return len(s.Columns)
}

// HasColumn reports whether the schema contains a column with the
// given name.
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.nameToIndex[name]
	return ok
}

// ColumnByName returns the column with the given name, or nil if no
// such column exists.
func (s *Schema) ColumnByName(name string) *Column {
	idx, ok := s.nameToIndex[name]
	if !ok {
		return nil
	}
	return &s.Columns[idx]
}

// TypeOf returns the declared type of the named column. The second
// return value reports whether the column exists.
func (s *Schema) TypeOf(name string) (types.Type, bool) {
	idx, ok := s.nameToIndex[name]
	if !ok {
		return 0, false
	}
	return s.Columns[idx].Type, true
}

// Names returns all column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}
