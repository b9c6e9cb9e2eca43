package logging

import (
	"log/slog"

	"github.com/google/uuid"
)

// WithStore creates a logger with data store context.
//
// Example:
//
//	log := logging.WithStore(storeID)
//	log.Info("inserting rows", "count", len(batch))
func WithStore(storeID uuid.UUID) *slog.Logger {
	return GetLogger().With("store_id", storeID.String())
}

// WithProject creates a logger with project context.
func WithProject(project string) *slog.Logger {
	return GetLogger().With("project", project)
}

// WithComponent creates a logger with component/subsystem context.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}
