package datastore

import (
	"context"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/logging"

	"github.com/google/uuid"
)

// AddColumn adds a column to an existing data store. The store must
// exist; the add mechanics, including altering the physical table, are
// delegated to the column collaborator.
func (m *Manager) AddColumn(ctx context.Context, storeID uuid.UUID, def schema.ColumnDef) (*schema.Column, error) {
	if _, err := m.requireStore(ctx, storeID); err != nil {
		return nil, err
	}

	col, err := m.cols.Add(ctx, storeID, def)
	if err != nil {
		return nil, err
	}

	logging.WithStore(storeID).Info("added column", "column", col.Name, "type", col.Type.String())
	return col, nil
}

// MoveColumn repositions a column within the store's ordering. The
// store must exist; the move mechanics are delegated.
func (m *Manager) MoveColumn(ctx context.Context, storeID, columnID uuid.UUID, targetIndex int) error {
	if _, err := m.requireStore(ctx, storeID); err != nil {
		return err
	}

	return m.cols.Move(ctx, storeID, columnID, targetIndex)
}

// DeleteColumn removes a column from a data store. Both the store and
// the column must exist.
func (m *Manager) DeleteColumn(ctx context.Context, storeID, columnID uuid.UUID) error {
	if _, err := m.requireStore(ctx, storeID); err != nil {
		return err
	}

	col, err := m.cols.FindOne(ctx, storeID, columnID)
	if err != nil {
		return err
	}
	if col == nil {
		return apperr.Invalid(apperr.CodeUnknownColumn,
			"column %s not found on data store %s", columnID, storeID)
	}

	if err := m.cols.Delete(ctx, storeID, *col); err != nil {
		return err
	}

	logging.WithStore(storeID).Info("deleted column", "column", col.Name)
	return nil
}

// ListColumns returns the store's ordered column list. Passthrough to
// the column collaborator.
func (m *Manager) ListColumns(ctx context.Context, storeID uuid.UUID) ([]schema.Column, error) {
	return m.cols.ListColumns(ctx, storeID)
}
