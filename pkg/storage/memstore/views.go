package memstore

import (
	"context"

	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"

	"github.com/google/uuid"
)

// The single engine backs all three collaborator interfaces, whose
// method sets collide on Delete and ListAndCount. Each view embeds the
// engine and pins the colliding methods to the right signature.

// Metadata is the datastore.MetadataStore view of the engine.
type Metadata struct{ *Store }

// Columns is the datastore.ColumnStore view of the engine.
type Columns struct{ *Store }

// Rows is the datastore.RowStore view of the engine.
type Rows struct{ *Store }

var (
	_ datastore.MetadataStore = (*Metadata)(nil)
	_ datastore.ColumnStore   = (*Columns)(nil)
	_ datastore.RowStore      = (*Rows)(nil)
)

// Metadata returns the metadata collaborator view.
func (s *Store) Metadata() *Metadata { return &Metadata{s} }

// Columns returns the column collaborator view.
func (s *Store) Columns() *Columns { return &Columns{s} }

// Rows returns the row storage collaborator view.
func (s *Store) Rows() *Rows { return &Rows{s} }

func (m *Metadata) Delete(_ context.Context, id uuid.UUID) error {
	return m.deleteStore(id)
}

func (m *Metadata) ListAndCount(_ context.Context, opts datastore.ListStoresOptions) ([]datastore.DataStore, int64, error) {
	return m.listStores(opts)
}

func (c *Columns) Delete(_ context.Context, storeID uuid.UUID, col schema.Column) error {
	return c.deleteColumn(storeID, col)
}

func (r *Rows) ListAndCount(_ context.Context, table string, opts datastore.ListRowsOptions) ([]rows.Row, int64, error) {
	return r.listRows(table, opts)
}
