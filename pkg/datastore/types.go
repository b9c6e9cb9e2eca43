package datastore

import (
	"context"
	"time"

	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"

	"github.com/google/uuid"
)

// DataStore is the metadata entity for one named, project-scoped
// logical table. Its rows live in a physical table owned by the row
// storage collaborator; only the metadata is represented here.
type DataStore struct {
	ID        uuid.UUID
	Project   string
	Name      string
	CreatedAt time.Time

	// Columns is populated by metadata queries that load the ordered
	// column list alongside the store.
	Columns []schema.Column
}

// ListStoresOptions controls data store listing.
type ListStoresOptions struct {
	Project string // Empty lists across all projects
	Limit   int    // 0 means no limit
	Offset  int
}

// ListRowsOptions controls row listing. Pagination and ordering
// semantics are owned by the row storage collaborator; the engine only
// renormalizes the returned page.
type ListRowsOptions struct {
	Limit      int // 0 means no limit
	Offset     int
	OrderBy    string // Empty means storage order
	Descending bool
}

// RowPage is one page of rows together with the total row count for
// the store.
type RowPage struct {
	Count int64
	Rows  []rows.Row
}

// UpsertRequest carries a row batch plus match instructions that are
// opaque to the validator and interpreted by the row storage
// collaborator.
type UpsertRequest struct {
	Rows []rows.Row

	// MatchColumns name the columns whose values identify an existing
	// row to merge into. A row with no match is inserted.
	MatchColumns []string
}

// MetadataStore persists data store metadata: name, owning project and
// column list. Find methods return (nil, nil) when no store matches.
type MetadataStore interface {
	CreateWithColumns(ctx context.Context, project, name string, cols []schema.ColumnDef) (*DataStore, error)
	FindByID(ctx context.Context, id uuid.UUID) (*DataStore, error)
	FindByNameAndProject(ctx context.Context, project, name string) (*DataStore, error)
	ExistsByNameAndProject(ctx context.Context, project, name string) (bool, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, project string) error
	DeleteAll(ctx context.Context) error
	ListAndCount(ctx context.Context, opts ListStoresOptions) ([]DataStore, int64, error)
}

// ColumnStore persists the ordered column schema of a data store.
// FindOne returns (nil, nil) when no column matches.
type ColumnStore interface {
	ListColumns(ctx context.Context, storeID uuid.UUID) ([]schema.Column, error)
	Add(ctx context.Context, storeID uuid.UUID, def schema.ColumnDef) (*schema.Column, error)
	Move(ctx context.Context, storeID, columnID uuid.UUID, targetIndex int) error
	Delete(ctx context.Context, storeID uuid.UUID, col schema.Column) error
	FindOne(ctx context.Context, storeID, columnID uuid.UUID) (*schema.Column, error)
}

// RowStore executes row queries against a physical table in the
// backing relational engine. It receives already-validated batches;
// transactional guarantees for a single call are its responsibility.
type RowStore interface {
	ListAndCount(ctx context.Context, table string, opts ListRowsOptions) ([]rows.Row, int64, error)
	Insert(ctx context.Context, table string, batch []rows.Row, cols []schema.Column) error
	Upsert(ctx context.Context, table string, req UpsertRequest, cols []schema.Column) error
}
