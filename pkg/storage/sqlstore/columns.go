package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/types"

	"github.com/google/uuid"
)

func (s *Store) ListColumns(ctx context.Context, storeID uuid.UUID) ([]schema.Column, error) {
	rs, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, position FROM _datastore_columns WHERE store_id = ? ORDER BY position`,
		storeID.String())
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var cols []schema.Column
	for rs.Next() {
		col, err := scanColumn(rs)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *col)
	}
	return cols, rs.Err()
}

func scanColumn(r rowScanner) (*schema.Column, error) {
	var (
		col          schema.Column
		rawID, rawTy string
	)
	if err := r.Scan(&rawID, &col.Name, &rawTy, &col.Position); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, corruptMetadata("corrupt column id %q", rawID).WithCause(err)
	}
	col.ID = id

	ty, err := types.ParseType(rawTy)
	if err != nil {
		return nil, err
	}
	col.Type = ty
	return &col, nil
}

// Add appends a column at the end of the store's ordering and alters
// the physical table to match.
func (s *Store) Add(ctx context.Context, storeID uuid.UUID, def schema.ColumnDef) (*schema.Column, error) {
	var added *schema.Column

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM _datastore_columns WHERE store_id = ?`,
			storeID.String()).Scan(&next)
		if err != nil {
			return err
		}

		col, err := schema.NewColumn(def, next)
		if err != nil {
			return err
		}

		var one int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM _datastore_columns WHERE store_id = ? AND name = ?`,
			storeID.String(), col.Name).Scan(&one)
		if err == nil {
			return apperr.Invalid(apperr.CodeDuplicateName,
				"column %q already exists on data store %s", col.Name, storeID)
		}
		if err != sql.ErrNoRows {
			return err
		}

		if err := insertColumn(ctx, tx, storeID, *col); err != nil {
			return err
		}

		table := datastore.PhysicalTableName(storeID)
		_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			qident(table), qident(col.Name), columnSQLType(col.Type)))
		if err != nil {
			return err
		}

		added = col
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// Move repositions a column. Only the metadata ordering changes; the
// physical table's column order is irrelevant to queries.
func (s *Store) Move(ctx context.Context, storeID, columnID uuid.UUID, targetIndex int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ids, err := columnOrder(ctx, tx, storeID)
		if err != nil {
			return err
		}

		from := -1
		for i, id := range ids {
			if id == columnID {
				from = i
				break
			}
		}
		if from < 0 {
			return apperr.Invalid(apperr.CodeUnknownColumn,
				"column %s not found on data store %s", columnID, storeID)
		}

		if targetIndex < 0 {
			targetIndex = 0
		}
		if targetIndex >= len(ids) {
			targetIndex = len(ids) - 1
		}

		moved := ids[from]
		ids = append(ids[:from], ids[from+1:]...)
		ids = append(ids[:targetIndex], append([]uuid.UUID{moved}, ids[targetIndex:]...)...)

		return renumberColumns(ctx, tx, ids)
	})
}

func columnOrder(ctx context.Context, tx *sql.Tx, storeID uuid.UUID) ([]uuid.UUID, error) {
	rs, err := tx.QueryContext(ctx,
		`SELECT id FROM _datastore_columns WHERE store_id = ? ORDER BY position`,
		storeID.String())
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var ids []uuid.UUID
	for rs.Next() {
		var raw string
		if err := rs.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, corruptMetadata("corrupt column id %q", raw).WithCause(err)
		}
		ids = append(ids, id)
	}
	return ids, rs.Err()
}

func renumberColumns(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE _datastore_columns SET position = ? WHERE id = ?`, i, id.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteColumn(ctx context.Context, storeID uuid.UUID, col schema.Column) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM _datastore_columns WHERE id = ? AND store_id = ?`,
			col.ID.String(), storeID.String())
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Invalid(apperr.CodeUnknownColumn,
				"column %s not found on data store %s", col.ID, storeID)
		}

		ids, err := columnOrder(ctx, tx, storeID)
		if err != nil {
			return err
		}
		if err := renumberColumns(ctx, tx, ids); err != nil {
			return err
		}

		table := datastore.PhysicalTableName(storeID)
		_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
			qident(table), qident(col.Name)))
		return err
	})
}

func (s *Store) FindOne(ctx context.Context, storeID, columnID uuid.UUID) (*schema.Column, error) {
	col, err := scanColumn(s.db.QueryRowContext(ctx,
		`SELECT id, name, type, position FROM _datastore_columns WHERE id = ? AND store_id = ?`,
		columnID.String(), storeID.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return col, nil
}
