package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/schema"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CreateWithColumns creates the metadata rows, the column rows and the
// physical table in one transaction.
func (s *Store) CreateWithColumns(ctx context.Context, project, name string, defs []schema.ColumnDef) (*datastore.DataStore, error) {
	ds := &datastore.DataStore{
		ID:        uuid.New(),
		Project:   project,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	cols := make([]schema.Column, 0, len(defs))
	for i, def := range defs {
		col, err := schema.NewColumn(def, i)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *col)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO _datastores (id, project, name, created_at) VALUES (?, ?, ?, ?)`,
			ds.ID.String(), project, name, ds.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return err
		}

		for _, col := range cols {
			if err := insertColumn(ctx, tx, ds.ID, col); err != nil {
				return err
			}
		}

		return createPhysicalTable(ctx, tx, datastore.PhysicalTableName(ds.ID), cols)
	})
	if err != nil {
		return nil, err
	}

	ds.Columns = cols
	return ds, nil
}

func insertColumn(ctx context.Context, tx *sql.Tx, storeID uuid.UUID, col schema.Column) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO _datastore_columns (id, store_id, name, type, position) VALUES (?, ?, ?, ?, ?)`,
		col.ID.String(), storeID.String(), col.Name, col.Type.String(), col.Position)
	return err
}

func createPhysicalTable(ctx context.Context, tx *sql.Tx, table string, cols []schema.Column) error {
	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, qident(internalKeyColumn)+" INTEGER PRIMARY KEY")
	for _, col := range cols {
		defs = append(defs, qident(col.Name)+" "+columnSQLType(col.Type))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", qident(table), strings.Join(defs, ", "))
	_, err := tx.ExecContext(ctx, ddl)
	return err
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*datastore.DataStore, error) {
	return s.findStore(ctx,
		`SELECT id, project, name, created_at FROM _datastores WHERE id = ?`, id.String())
}

func (s *Store) FindByNameAndProject(ctx context.Context, project, name string) (*datastore.DataStore, error) {
	return s.findStore(ctx,
		`SELECT id, project, name, created_at FROM _datastores WHERE project = ? AND name = ?`,
		project, name)
}

func (s *Store) findStore(ctx context.Context, query string, args ...any) (*datastore.DataStore, error) {
	ds, err := scanStore(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cols, err := s.ListColumns(ctx, ds.ID)
	if err != nil {
		return nil, err
	}
	ds.Columns = cols
	return ds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(r rowScanner) (*datastore.DataStore, error) {
	var (
		ds        datastore.DataStore
		id, stamp string
	)
	if err := r.Scan(&id, &ds.Project, &ds.Name, &stamp); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, corruptMetadata("corrupt store id %q", id).WithCause(err)
	}
	ds.ID = parsed

	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, corruptMetadata("corrupt created_at %q for store %s", stamp, ds.ID).WithCause(err)
	}
	ds.CreatedAt = t
	return &ds, nil
}

func corruptMetadata(format string, args ...any) *apperr.Error {
	return apperr.New(apperr.CategorySystem, apperr.CodeCorruptMetadata, fmt.Sprintf(format, args...))
}

func (s *Store) ExistsByNameAndProject(ctx context.Context, project, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM _datastores WHERE project = ? AND name = ?`, project, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE _datastores SET name = ? WHERE id = ?`, name, id.String())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("store %s does not exist", id)
	}
	return nil
}

func (s *Store) deleteStore(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM _datastores WHERE id = ?`, id.String())
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("store %s does not exist", id)
		}

		_, err = tx.ExecContext(ctx,
			"DROP TABLE IF EXISTS "+qident(datastore.PhysicalTableName(id)))
		return err
	})
}

// DeleteByProject removes every store owned by the project, dropping
// the physical tables concurrently.
func (s *Store) DeleteByProject(ctx context.Context, project string) error {
	ids, err := s.storeIDs(ctx, `SELECT id FROM _datastores WHERE project = ?`, project)
	if err != nil {
		return err
	}
	return s.deleteStores(ctx, ids)
}

// DeleteAll removes every store across all projects.
func (s *Store) DeleteAll(ctx context.Context) error {
	ids, err := s.storeIDs(ctx, `SELECT id FROM _datastores`)
	if err != nil {
		return err
	}
	return s.deleteStores(ctx, ids)
}

func (s *Store) storeIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rs, err := s.db.QueryContext(ctx, query, args...)
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
			return nil, corruptMetadata("corrupt store id %q", raw).WithCause(err)
		}
		ids = append(ids, id)
	}
	return ids, rs.Err()
}

func (s *Store) deleteStores(ctx context.Context, ids []uuid.UUID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			return s.deleteStore(ctx, id)
		})
	}
	return g.Wait()
}

func (s *Store) listStores(ctx context.Context, opts datastore.ListStoresOptions) ([]datastore.DataStore, int64, error) {
	where, args := "", []any{}
	if opts.Project != "" {
		where = " WHERE project = ?"
		args = append(args, opts.Project)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM _datastores"+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, project, name, created_at FROM _datastores" + where + " ORDER BY project, name"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, opts.Offset)
	} else if opts.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", opts.Offset)
	}

	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rs.Close()

	var stores []datastore.DataStore
	for rs.Next() {
		ds, err := scanStore(rs)
		if err != nil {
			return nil, 0, err
		}
		stores = append(stores, *ds)
	}
	if err := rs.Err(); err != nil {
		return nil, 0, err
	}

	for i := range stores {
		cols, err := s.ListColumns(ctx, stores[i].ID)
		if err != nil {
			return nil, 0, err
		}
		stores[i].Columns = cols
	}
	return stores, count, nil
}
