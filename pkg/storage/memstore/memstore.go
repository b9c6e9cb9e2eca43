// Package memstore provides in-memory implementations of the data
// store collaborators. It backs tests and the demo mode; durability is
// explicitly out of scope.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"

	"github.com/google/uuid"
)

type storeEntry struct {
	meta datastore.DataStore
	cols []schema.Column
}

// Store is an in-memory engine implementing all three storage
// collaborators: metadata, columns and rows. A single RWMutex guards
// every map; per-call atomicity mirrors what a transactional backend
// would give the orchestration layer.
type Store struct {
	mu     sync.RWMutex
	stores map[uuid.UUID]*storeEntry
	byKey  map[string]uuid.UUID // project/name -> store id
	tables map[string][]rows.Row
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		stores: make(map[uuid.UUID]*storeEntry),
		byKey:  make(map[string]uuid.UUID),
		tables: make(map[string][]rows.Row),
	}
}

func key(project, name string) string {
	return project + "\x00" + name
}

// --- datastore.MetadataStore ---

// CreateWithColumns creates the store metadata, its column list and an
// empty physical table in one step.
func (s *Store) CreateWithColumns(_ context.Context, project, name string, defs []schema.ColumnDef) (*datastore.DataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[key(project, name)]; exists {
		return nil, apperr.Invalid(apperr.CodeDuplicateName,
			"data store %q already exists in project %q", name, project)
	}

	cols := make([]schema.Column, 0, len(defs))
	for i, def := range defs {
		col, err := schema.NewColumn(def, i)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *col)
	}

	entry := &storeEntry{
		meta: datastore.DataStore{
			ID:        uuid.New(),
			Project:   project,
			Name:      name,
			CreatedAt: time.Now(),
		},
		cols: cols,
	}

	s.stores[entry.meta.ID] = entry
	s.byKey[key(project, name)] = entry.meta.ID
	s.tables[datastore.PhysicalTableName(entry.meta.ID)] = nil

	ds := entry.meta
	ds.Columns = slices.Clone(cols)
	return &ds, nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*datastore.DataStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.stores[id]
	if !ok {
		return nil, nil
	}

	ds := entry.meta
	ds.Columns = slices.Clone(entry.cols)
	return &ds, nil
}

func (s *Store) FindByNameAndProject(_ context.Context, project, name string) (*datastore.DataStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[key(project, name)]
	if !ok {
		return nil, nil
	}

	ds := s.stores[id].meta
	ds.Columns = slices.Clone(s.stores[id].cols)
	return &ds, nil
}

func (s *Store) ExistsByNameAndProject(_ context.Context, project, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byKey[key(project, name)]
	return ok, nil
}

func (s *Store) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.stores[id]
	if !ok {
		return fmt.Errorf("store %s does not exist", id)
	}

	delete(s.byKey, key(entry.meta.Project, entry.meta.Name))
	entry.meta.Name = name
	s.byKey[key(entry.meta.Project, name)] = id
	return nil
}

func (s *Store) deleteStore(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) deleteLocked(id uuid.UUID) error {
	entry, ok := s.stores[id]
	if !ok {
		return fmt.Errorf("store %s does not exist", id)
	}

	delete(s.byKey, key(entry.meta.Project, entry.meta.Name))
	delete(s.stores, id)
	delete(s.tables, datastore.PhysicalTableName(id))
	return nil
}

func (s *Store) DeleteByProject(_ context.Context, project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.stores {
		if entry.meta.Project == project {
			if err := s.deleteLocked(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) DeleteAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stores = make(map[uuid.UUID]*storeEntry)
	s.byKey = make(map[string]uuid.UUID)
	s.tables = make(map[string][]rows.Row)
	return nil
}

func (s *Store) listStores(opts datastore.ListStoresOptions) ([]datastore.DataStore, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []datastore.DataStore
	for _, entry := range s.stores {
		if opts.Project != "" && entry.meta.Project != opts.Project {
			continue
		}
		ds := entry.meta
		ds.Columns = slices.Clone(entry.cols)
		all = append(all, ds)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Project != all[j].Project {
			return all[i].Project < all[j].Project
		}
		return all[i].Name < all[j].Name
	})

	count := int64(len(all))
	return page(all, opts.Offset, opts.Limit), count, nil
}

// page applies offset/limit slicing to any slice.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// --- datastore.ColumnStore ---

func (s *Store) ListColumns(_ context.Context, storeID uuid.UUID) ([]schema.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.stores[storeID]
	if !ok {
		return nil, nil
	}
	return slices.Clone(entry.cols), nil
}

func (s *Store) Add(_ context.Context, storeID uuid.UUID, def schema.ColumnDef) (*schema.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.stores[storeID]
	if !ok {
		return nil, fmt.Errorf("store %s does not exist", storeID)
	}

	col, err := schema.NewColumn(def, len(entry.cols))
	if err != nil {
		return nil, err
	}

	for _, existing := range entry.cols {
		if existing.Name == col.Name {
			return nil, apperr.Invalid(apperr.CodeDuplicateName,
				"column %q already exists on data store %s", col.Name, storeID)
		}
	}

	entry.cols = append(entry.cols, *col)
	return col, nil
}

func (s *Store) Move(_ context.Context, storeID, columnID uuid.UUID, targetIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.stores[storeID]
	if !ok {
		return fmt.Errorf("store %s does not exist", storeID)
	}

	from := slices.IndexFunc(entry.cols, func(c schema.Column) bool { return c.ID == columnID })
	if from < 0 {
		return apperr.Invalid(apperr.CodeUnknownColumn,
			"column %s not found on data store %s", columnID, storeID)
	}

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex >= len(entry.cols) {
		targetIndex = len(entry.cols) - 1
	}

	col := entry.cols[from]
	entry.cols = slices.Delete(entry.cols, from, from+1)
	entry.cols = slices.Insert(entry.cols, targetIndex, col)
	for i := range entry.cols {
		entry.cols[i].Position = i
	}
	return nil
}

func (s *Store) deleteColumn(storeID uuid.UUID, col schema.Column) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.stores[storeID]
	if !ok {
		return fmt.Errorf("store %s does not exist", storeID)
	}

	idx := slices.IndexFunc(entry.cols, func(c schema.Column) bool { return c.ID == col.ID })
	if idx < 0 {
		return apperr.Invalid(apperr.CodeUnknownColumn,
			"column %s not found on data store %s", col.ID, storeID)
	}

	entry.cols = slices.Delete(entry.cols, idx, idx+1)
	for i := range entry.cols {
		entry.cols[i].Position = i
	}

	// Drop the cell from stored rows, mirroring a physical column drop.
	table := datastore.PhysicalTableName(storeID)
	for _, row := range s.tables[table] {
		delete(row, col.Name)
	}
	return nil
}

func (s *Store) FindOne(_ context.Context, storeID, columnID uuid.UUID) (*schema.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.stores[storeID]
	if !ok {
		return nil, nil
	}

	for _, col := range entry.cols {
		if col.ID == columnID {
			c := col
			return &c, nil
		}
	}
	return nil, nil
}

// --- datastore.RowStore ---

func (s *Store) listRows(table string, opts datastore.ListRowsOptions) ([]rows.Row, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.tables[table]
	if !ok {
		return nil, 0, fmt.Errorf("no such table: %s", table)
	}

	out := make([]rows.Row, len(stored))
	for i, row := range stored {
		out[i] = row.Copy()
	}

	if opts.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := cellLess(out[i][opts.OrderBy], out[j][opts.OrderBy])
			if opts.Descending {
				return !less
			}
			return less
		})
	}

	count := int64(len(out))
	return page(out, opts.Offset, opts.Limit), count, nil
}

func (s *Store) Insert(_ context.Context, table string, batch []rows.Row, _ []schema.Column) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("no such table: %s", table)
	}

	for _, row := range batch {
		stored = append(stored, row.Copy())
	}
	s.tables[table] = stored
	return nil
}

func (s *Store) Upsert(_ context.Context, table string, req datastore.UpsertRequest, _ []schema.Column) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("no such table: %s", table)
	}

	for _, row := range req.Rows {
		idx := matchRow(stored, row, req.MatchColumns)
		if idx < 0 {
			stored = append(stored, row.Copy())
			continue
		}
		for k, v := range row {
			stored[idx][k] = v
		}
	}
	s.tables[table] = stored
	return nil
}

// matchRow returns the index of the first stored row whose match
// column values equal the candidate's, or -1. With no match columns
// every row is treated as new.
func matchRow(stored []rows.Row, row rows.Row, matchCols []string) int {
	if len(matchCols) == 0 {
		return -1
	}

	for i, existing := range stored {
		matched := true
		for _, col := range matchCols {
			if fmt.Sprint(existing[col]) != fmt.Sprint(row[col]) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

// cellLess orders two cells of unknown type: numerics numerically,
// everything else by textual form. Nil sorts first.
func cellLess(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}

	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
