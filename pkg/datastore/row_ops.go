package datastore

import (
	"context"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/logging"

	"github.com/google/uuid"
)

// ListRows returns one normalized page of rows plus the total count.
//
// Pagination, filtering and ordering happen in the row storage
// collaborator; this layer fetches the current schema and retypes
// every cell of the returned page into its canonical form.
func (m *Manager) ListRows(ctx context.Context, storeID uuid.UUID, opts ListRowsOptions) (*RowPage, error) {
	colList, err := m.cols.ListColumns(ctx, storeID)
	if err != nil {
		return nil, err
	}

	raw, count, err := m.rowRepo.ListAndCount(ctx, PhysicalTableName(storeID), opts)
	if err != nil {
		return nil, err
	}

	return &RowPage{
		Count: count,
		Rows:  rows.Normalize(schema.New(colList), raw),
	}, nil
}

// InsertRows validates a row batch against a freshly fetched schema
// and delegates persistence. The batch either passes validation in
// full or nothing is persisted; date cells are rewritten to their
// canonical wire form on the way in.
func (m *Manager) InsertRows(ctx context.Context, storeID uuid.UUID, batch []rows.Row) error {
	colList, err := m.cols.ListColumns(ctx, storeID)
	if err != nil {
		return err
	}

	if err := rows.Validate(schema.New(colList), batch); err != nil {
		logging.WithStore(storeID).Debug("rejected row batch", "error", err.Error())
		return err
	}

	if err := m.rowRepo.Insert(ctx, PhysicalTableName(storeID), batch, colList); err != nil {
		return err
	}

	logging.WithStore(storeID).Info("inserted rows", "count", len(batch))
	return nil
}

// UpsertRows validates the request's rows exactly like InsertRows and
// delegates the merge. Match columns must name declared columns; their
// interpretation is left to the row storage collaborator.
func (m *Manager) UpsertRows(ctx context.Context, storeID uuid.UUID, req UpsertRequest) error {
	colList, err := m.cols.ListColumns(ctx, storeID)
	if err != nil {
		return err
	}

	sch := schema.New(colList)
	for _, name := range req.MatchColumns {
		if !sch.HasColumn(name) {
			return apperr.Invalid(apperr.CodeUnknownColumnKey, "unknown match column %q", name)
		}
	}

	if err := rows.Validate(sch, req.Rows); err != nil {
		logging.WithStore(storeID).Debug("rejected row batch", "error", err.Error())
		return err
	}

	if err := m.rowRepo.Upsert(ctx, PhysicalTableName(storeID), req, colList); err != nil {
		return err
	}

	logging.WithStore(storeID).Info("upserted rows", "count", len(req.Rows))
	return nil
}
