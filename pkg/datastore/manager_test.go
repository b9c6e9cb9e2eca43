package datastore_test

import (
	"context"
	"testing"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/storage/memstore"
	"gridstore/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func setupTest(t *testing.T) *datastore.Manager {
	t.Helper()
	s := memstore.New()
	return datastore.NewManager(s.Metadata(), s.Columns(), s.Rows())
}

func orderDefs() []schema.ColumnDef {
	return []schema.ColumnDef{
		{Name: "paid", Type: types.BoolType},
		{Name: "total", Type: types.NumberType},
	}
}

func createOrders(t *testing.T, m *datastore.Manager, project string) *datastore.DataStore {
	t.Helper()
	ds, err := m.CreateDataStore(ctx, project, "orders", orderDefs())
	require.NoError(t, err)
	return ds
}

func TestCreateDataStore(t *testing.T) {
	m := setupTest(t)

	ds := createOrders(t, m, "p1")
	assert.Equal(t, "orders", ds.Name)
	require.Len(t, ds.Columns, 2)

	t.Run("duplicate name in same project fails", func(t *testing.T) {
		_, err := m.CreateDataStore(ctx, "p1", "orders", orderDefs())
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateName))
	})

	t.Run("same name in another project succeeds", func(t *testing.T) {
		_, err := m.CreateDataStore(ctx, "p2", "orders", orderDefs())
		require.NoError(t, err)
	})

	t.Run("empty name fails", func(t *testing.T) {
		_, err := m.CreateDataStore(ctx, "p1", "   ", nil)
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeEmptyName))
	})

	t.Run("name is trimmed", func(t *testing.T) {
		ds, err := m.CreateDataStore(ctx, "p1", "  padded  ", nil)
		require.NoError(t, err)
		assert.Equal(t, "padded", ds.Name)
	})

	t.Run("bad column definitions fail", func(t *testing.T) {
		_, err := m.CreateDataStore(ctx, "p1", "bad", []schema.ColumnDef{{Name: "", Type: types.BoolType}})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidColumn))

		_, err = m.CreateDataStore(ctx, "p1", "bad", []schema.ColumnDef{
			{Name: "x", Type: types.BoolType},
			{Name: "x", Type: types.StringType},
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateName))
	})
}

func TestRenameDataStore(t *testing.T) {
	m := setupTest(t)
	ds := createOrders(t, m, "p1")

	t.Run("empty name fails", func(t *testing.T) {
		err := m.RenameDataStore(ctx, ds.ID, " ")
		assert.True(t, apperr.HasCode(err, apperr.CodeEmptyName))
	})

	t.Run("unknown id fails", func(t *testing.T) {
		err := m.RenameDataStore(ctx, uuid.New(), "x")
		assert.True(t, apperr.HasCode(err, apperr.CodeUnknownDataStore))
	})

	t.Run("clash within project fails", func(t *testing.T) {
		_, err := m.CreateDataStore(ctx, "p1", "invoices", nil)
		require.NoError(t, err)

		err = m.RenameDataStore(ctx, ds.ID, "invoices")
		assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateName))
	})

	t.Run("rename to own name is a no-op", func(t *testing.T) {
		require.NoError(t, m.RenameDataStore(ctx, ds.ID, "orders"))
	})

	t.Run("rename succeeds", func(t *testing.T) {
		require.NoError(t, m.RenameDataStore(ctx, ds.ID, "receipts"))

		stores, _, err := m.ListDataStores(ctx, datastore.ListStoresOptions{Project: "p1"})
		require.NoError(t, err)

		names := make([]string, len(stores))
		for i, st := range stores {
			names[i] = st.Name
		}
		assert.Contains(t, names, "receipts")
		assert.NotContains(t, names, "orders")
	})
}

func TestDeleteDataStore(t *testing.T) {
	m := setupTest(t)
	ds := createOrders(t, m, "p1")

	err := m.DeleteDataStore(ctx, uuid.New())
	assert.True(t, apperr.HasCode(err, apperr.CodeUnknownDataStore))

	require.NoError(t, m.DeleteDataStore(ctx, ds.ID))
	err = m.DeleteDataStore(ctx, ds.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnknownDataStore))
}

func TestBulkDeletes(t *testing.T) {
	m := setupTest(t)
	createOrders(t, m, "p1")
	createOrders(t, m, "p2")

	// Bulk forms are unconditional: an empty project succeeds too.
	require.NoError(t, m.DeleteByProject(ctx, "ghost"))
	require.NoError(t, m.DeleteByProject(ctx, "p1"))

	stores, count, err := m.ListDataStores(ctx, datastore.ListStoresOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "p2", stores[0].Project)

	require.NoError(t, m.DeleteAll(ctx))
	_, count, err = m.ListDataStores(ctx, datastore.ListStoresOptions{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestColumnOperations(t *testing.T) {
	m := setupTest(t)
	ds := createOrders(t, m, "p1")

	t.Run("add requires an existing store", func(t *testing.T) {
		_, err := m.AddColumn(ctx, uuid.New(), schema.ColumnDef{Name: "x", Type: types.StringType})
		assert.True(t, apperr.HasCode(err, apperr.CodeUnknownDataStore))
	})

	col, err := m.AddColumn(ctx, ds.ID, schema.ColumnDef{Name: "note", Type: types.StringType})
	require.NoError(t, err)
	assert.Equal(t, 2, col.Position)

	t.Run("move repositions", func(t *testing.T) {
		require.NoError(t, m.MoveColumn(ctx, ds.ID, col.ID, 0))
		cols, err := m.ListColumns(ctx, ds.ID)
		require.NoError(t, err)
		assert.Equal(t, "note", cols[0].Name)
	})

	t.Run("delete requires an existing column", func(t *testing.T) {
		err := m.DeleteColumn(ctx, ds.ID, uuid.New())
		assert.True(t, apperr.HasCode(err, apperr.CodeUnknownColumn))
	})

	t.Run("delete removes the column", func(t *testing.T) {
		require.NoError(t, m.DeleteColumn(ctx, ds.ID, col.ID))
		cols, err := m.ListColumns(ctx, ds.ID)
		require.NoError(t, err)
		assert.Len(t, cols, 2)
	})
}

func TestInsertRows(t *testing.T) {
	m := setupTest(t)
	ds := createOrders(t, m, "p1")

	t.Run("typed row succeeds", func(t *testing.T) {
		err := m.InsertRows(ctx, ds.ID, []rows.Row{{"paid": true, "total": 10}})
		require.NoError(t, err)
	})

	t.Run("boolean mismatch names the value", func(t *testing.T) {
		err := m.InsertRows(ctx, ds.ID, []rows.Row{{"paid": "yes", "total": 10}})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeTypeMismatch))
		assert.Contains(t, err.Error(), "yes")
		assert.Contains(t, err.Error(), "boolean")
	})

	t.Run("empty schema rejects writes", func(t *testing.T) {
		bare, err := m.CreateDataStore(ctx, "p1", "bare", nil)
		require.NoError(t, err)

		err = m.InsertRows(ctx, bare.ID, []rows.Row{{"x": 1}})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeEmptySchema))
	})

	t.Run("schema is fetched fresh after a column delete", func(t *testing.T) {
		cols, err := m.ListColumns(ctx, ds.ID)
		require.NoError(t, err)

		// Drop "paid"; a stale client still sends it.
		require.NoError(t, m.DeleteColumn(ctx, ds.ID, cols[0].ID))

		err = m.InsertRows(ctx, ds.ID, []rows.Row{{"paid": true}})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnknownColumnKey))
		assert.Contains(t, err.Error(), `"paid"`)
	})
}

func TestUpsertRows(t *testing.T) {
	m := setupTest(t)
	ds := createOrders(t, m, "p1")

	require.NoError(t, m.InsertRows(ctx, ds.ID, []rows.Row{{"paid": false, "total": 10.0}}))

	t.Run("validates like insert", func(t *testing.T) {
		err := m.UpsertRows(ctx, ds.ID, datastore.UpsertRequest{
			Rows: []rows.Row{{"paid": 1, "total": 10.0}},
		})
		assert.True(t, apperr.HasCode(err, apperr.CodeTypeMismatch))
	})

	t.Run("unknown match column is rejected", func(t *testing.T) {
		err := m.UpsertRows(ctx, ds.ID, datastore.UpsertRequest{
			Rows:         []rows.Row{{"paid": true, "total": 10.0}},
			MatchColumns: []string{"ghost"},
		})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnknownColumnKey))
		assert.Contains(t, err.Error(), `"ghost"`)
	})

	t.Run("merges on match columns", func(t *testing.T) {
		err := m.UpsertRows(ctx, ds.ID, datastore.UpsertRequest{
			Rows:         []rows.Row{{"paid": true, "total": 10.0}},
			MatchColumns: []string{"total"},
		})
		require.NoError(t, err)

		page, err := m.ListRows(ctx, ds.ID, datastore.ListRowsOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Count)
		assert.Equal(t, true, page.Rows[0]["paid"])
	})
}

func TestListRows_NormalizesPage(t *testing.T) {
	m := setupTest(t)
	ds := createOrders(t, m, "p1")

	require.NoError(t, m.InsertRows(ctx, ds.ID, []rows.Row{
		{"paid": true, "total": 3},
		{"paid": false, "total": 1},
		{"paid": true, "total": 2},
	}))

	page, err := m.ListRows(ctx, ds.ID, datastore.ListRowsOptions{OrderBy: "total", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, 1.0, page.Rows[0]["total"], "cells are renormalized to canonical types")
	assert.Equal(t, false, page.Rows[0]["paid"])
}

func TestPhysicalTableName(t *testing.T) {
	id := uuid.New()

	name := datastore.PhysicalTableName(id)
	assert.Len(t, name, len("ds_")+32)
	assert.Equal(t, name, datastore.PhysicalTableName(id), "deterministic")
	assert.NotEqual(t, name, datastore.PhysicalTableName(uuid.New()), "injective")
}
