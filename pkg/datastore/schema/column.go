package schema

import (
	"strings"

	"gridstore/pkg/apperr"
	"gridstore/pkg/types"

	"github.com/google/uuid"
)

// ColumnDef is the caller-supplied definition of a new column.
type ColumnDef struct {
	Name string
	Type types.Type
}

// Column represents one typed column of a data store schema.
//
// Ordering among columns (Position) is meaningful for default row shape
// reporting and move operations, but is not enforced by the row
// validator.
type Column struct {
	ID       uuid.UUID  // Unique column identifier
	Name     string     // Column name, unique within a data store
	Type     types.Type // Declared column type
	Position int        // Column position within the store (0-indexed)
}

// NewColumn creates a Column from a definition, assigning it a fresh
// identifier and the given position.
//
// Returns an invalid-request error if the name is empty (after
// trimming) or the type is outside the closed set.
func NewColumn(def ColumnDef, position int) (*Column, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, apperr.Invalid(apperr.CodeInvalidColumn, "column name cannot be empty")
	}

	if !types.IsValidType(def.Type) {
		return nil, apperr.Invalid(apperr.CodeInvalidColumn, "column %q has an unsupported type", name)
	}

	return &Column{
		ID:       uuid.New(),
		Name:     name,
		Type:     def.Type,
		Position: position,
	}, nil
}
