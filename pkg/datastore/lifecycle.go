package datastore

import (
	"context"
	"strings"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/logging"

	"github.com/google/uuid"
)

// CreateDataStore creates a new data store with the given columns.
//
// The name is trimmed and must be non-empty and unique within the
// project. Column definitions are checked for empty names, unsupported
// types and duplicates before anything is delegated; creation of the
// metadata and the physical table is the metadata collaborator's job.
func (m *Manager) CreateDataStore(ctx context.Context, project, name string, cols []schema.ColumnDef) (*DataStore, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid(apperr.CodeEmptyName, "data store name cannot be empty")
	}

	if err := checkColumnDefs(cols); err != nil {
		return nil, err
	}

	exists, err := m.meta.ExistsByNameAndProject(ctx, project, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Invalid(apperr.CodeDuplicateName,
			"data store %q already exists in project %q", name, project)
	}

	ds, err := m.meta.CreateWithColumns(ctx, project, name, cols)
	if err != nil {
		return nil, err
	}

	logging.WithProject(project).Info("created data store",
		"name", name, "store_id", ds.ID.String(), "columns", len(cols))
	return ds, nil
}

// RenameDataStore renames an existing data store.
//
// The new name is trimmed; it must be non-empty and must not clash
// with a different store in the same project. Renaming a store to its
// current name is a no-op rather than a clash.
func (m *Manager) RenameDataStore(ctx context.Context, id uuid.UUID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperr.Invalid(apperr.CodeEmptyName, "data store name cannot be empty")
	}

	ds, err := m.requireStore(ctx, id)
	if err != nil {
		return err
	}

	clash, err := m.meta.FindByNameAndProject(ctx, ds.Project, newName)
	if err != nil {
		return err
	}
	if clash != nil && clash.ID != id {
		return apperr.Invalid(apperr.CodeDuplicateName,
			"data store %q already exists in project %q", newName, ds.Project)
	}

	if err := m.meta.UpdateName(ctx, id, newName); err != nil {
		return err
	}

	logging.WithStore(id).Info("renamed data store", "from", ds.Name, "to", newName)
	return nil
}

// DeleteDataStore deletes a single data store by id, failing if no
// such store exists. Dropping the physical table is delegated to the
// metadata collaborator along with the metadata removal.
func (m *Manager) DeleteDataStore(ctx context.Context, id uuid.UUID) error {
	ds, err := m.requireStore(ctx, id)
	if err != nil {
		return err
	}

	if err := m.meta.Delete(ctx, id); err != nil {
		return err
	}

	logging.WithStore(id).Info("deleted data store", "name", ds.Name)
	return nil
}

// DeleteByProject deletes every data store owned by the project.
// Unlike the single-id form this is unconditional: a project with no
// stores deletes nothing and succeeds.
func (m *Manager) DeleteByProject(ctx context.Context, project string) error {
	if err := m.meta.DeleteByProject(ctx, project); err != nil {
		return err
	}

	logging.WithProject(project).Info("deleted all data stores in project")
	return nil
}

// DeleteAll deletes every data store across all projects.
func (m *Manager) DeleteAll(ctx context.Context) error {
	if err := m.meta.DeleteAll(ctx); err != nil {
		return err
	}

	logging.Info("deleted all data stores")
	return nil
}

// ListDataStores returns a page of data stores and the total count,
// optionally scoped to a project.
func (m *Manager) ListDataStores(ctx context.Context, opts ListStoresOptions) ([]DataStore, int64, error) {
	return m.meta.ListAndCount(ctx, opts)
}

// requireStore fetches a store by id, translating a missing store into
// an invalid-request error.
func (m *Manager) requireStore(ctx context.Context, id uuid.UUID) (*DataStore, error) {
	ds, err := m.meta.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, apperr.Invalid(apperr.CodeUnknownDataStore, "data store %s not found", id)
	}
	return ds, nil
}

// checkColumnDefs rejects definitions with empty names, unsupported
// types, or duplicate names within the batch.
func checkColumnDefs(cols []schema.ColumnDef) error {
	seen := make(map[string]struct{}, len(cols))

	for i, def := range cols {
		col, err := schema.NewColumn(def, i)
		if err != nil {
			return err
		}

		if _, dup := seen[col.Name]; dup {
			return apperr.Invalid(apperr.CodeDuplicateName, "duplicate column name %q", col.Name)
		}
		seen[col.Name] = struct{}{}
	}

	return nil
}
