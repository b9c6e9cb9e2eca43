package datastore

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// PhysicalTableName translates a logical data store identifier into
// the identifier of its physical table in the backing relational
// engine. The mapping is deterministic and injective, and the result
// is always a legal SQL identifier.
func PhysicalTableName(id uuid.UUID) string {
	return "ds_" + hex.EncodeToString(id[:])
}
