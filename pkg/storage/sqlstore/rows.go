package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"
)

func (s *Store) listRows(ctx context.Context, table string, opts datastore.ListRowsOptions) ([]rows.Row, int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+qident(table)).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM " + qident(table)
	if opts.OrderBy != "" {
		query += " ORDER BY " + qident(opts.OrderBy)
		if opts.Descending {
			query += " DESC"
		}
	}
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, opts.Offset)
	} else if opts.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", opts.Offset)
	}

	rs, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rs.Close()

	names, err := rs.Columns()
	if err != nil {
		return nil, 0, err
	}

	var page []rows.Row
	for rs.Next() {
		cells := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, 0, err
		}

		row := make(rows.Row, len(names))
		for i, name := range names {
			if name == internalKeyColumn {
				continue
			}
			row[name] = driverValue(cells[i])
		}
		page = append(page, row)
	}
	return page, count, rs.Err()
}

// driverValue unifies the driver's raw representations: BLOB/TEXT may
// surface as []byte depending on how the cell was bound.
func driverValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Insert persists an already-validated batch in one transaction.
func (s *Store) Insert(ctx context.Context, table string, batch []rows.Row, cols []schema.Column) error {
	if len(batch) == 0 {
		return nil
	}

	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		names[i] = qident(col.Name)
		marks[i] = "?"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qident(table), strings.Join(names, ", "), strings.Join(marks, ", "))

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range batch {
			args := make([]any, len(cols))
			for i, col := range cols {
				args[i] = row[col.Name]
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert merges an already-validated batch: each row is matched
// against existing rows on the request's match columns, updated in
// place on a hit and inserted otherwise. The whole batch runs in one
// transaction.
func (s *Store) Upsert(ctx context.Context, table string, req datastore.UpsertRequest, cols []schema.Column) error {
	if len(req.Rows) == 0 {
		return nil
	}

	if len(req.MatchColumns) == 0 {
		return s.Insert(ctx, table, req.Rows, cols)
	}

	match := make(map[string]bool, len(req.MatchColumns))
	for _, name := range req.MatchColumns {
		match[name] = true
	}

	var setCols, whereCols []schema.Column
	for _, col := range cols {
		if match[col.Name] {
			whereCols = append(whereCols, col)
		} else {
			setCols = append(setCols, col)
		}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, row := range req.Rows {
			updated, err := updateMatch(ctx, tx, table, row, setCols, whereCols)
			if err != nil {
				return err
			}
			if updated {
				continue
			}
			if err := insertRow(ctx, tx, table, row, cols); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateMatch(ctx context.Context, tx *sql.Tx, table string, row rows.Row, setCols, whereCols []schema.Column) (bool, error) {
	if len(setCols) == 0 {
		// Nothing to merge; a matching row only needs to exist.
		var one int
		query, args := matchQuery("SELECT 1 FROM "+qident(table), row, whereCols)
		err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
		if err == sql.ErrNoRows {
			return false, nil
		}
		return err == nil, err
	}

	sets := make([]string, len(setCols))
	args := make([]any, 0, len(setCols)+len(whereCols))
	for i, col := range setCols {
		sets[i] = qident(col.Name) + " = ?"
		args = append(args, row[col.Name])
	}

	query, whereArgs := matchQuery(
		fmt.Sprintf("UPDATE %s SET %s", qident(table), strings.Join(sets, ", ")),
		row, whereCols)

	res, err := tx.ExecContext(ctx, query, append(args, whereArgs...)...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func matchQuery(prefix string, row rows.Row, whereCols []schema.Column) (string, []any) {
	conds := make([]string, 0, len(whereCols))
	args := make([]any, 0, len(whereCols))
	for _, col := range whereCols {
		if row[col.Name] == nil {
			conds = append(conds, qident(col.Name)+" IS NULL")
			continue
		}
		conds = append(conds, qident(col.Name)+" = ?")
		args = append(args, row[col.Name])
	}
	return prefix + " WHERE " + strings.Join(conds, " AND "), args
}

func insertRow(ctx context.Context, tx *sql.Tx, table string, row rows.Row, cols []schema.Column) error {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		names[i] = qident(col.Name)
		marks[i] = "?"
		args[i] = row[col.Name]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qident(table), strings.Join(names, ", "), strings.Join(marks, ", "))
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
