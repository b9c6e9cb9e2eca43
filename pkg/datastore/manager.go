// Package datastore coordinates user-defined tabular data stores:
// named collections of typed columns whose rows live in a backing
// relational engine but whose schema is defined at runtime.
//
// The Manager is a thin, stateless orchestration layer. Every row
// operation fetches the current schema from the column collaborator
// immediately before use - there is no schema cache, so concurrent
// schema edits from other requests are observed eventually-
// consistently. A race between a column edit and a row write is an
// accepted, documented risk, not one this layer resolves.
package datastore

// Manager exposes all data store operations and delegates persistence
// to its storage collaborators.
//
// The Manager is organized across multiple files:
//   - manager.go: Core struct and constructor
//   - types.go: Entities, options and collaborator interfaces
//   - lifecycle.go: Create, Rename, Delete, List data stores
//   - columns.go: Add, Move, Delete, List columns
//   - row_ops.go: Insert, Upsert, List rows
//   - physical.go: Logical id to physical table translation
type Manager struct {
	meta    MetadataStore
	cols    ColumnStore
	rowRepo RowStore
}

// NewManager creates a Manager over the given storage collaborators.
func NewManager(meta MetadataStore, cols ColumnStore, rowRepo RowStore) *Manager {
	return &Manager{
		meta:    meta,
		cols:    cols,
		rowRepo: rowRepo,
	}
}
