// Package logging provides a process-wide structured logger for gridstore.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. All subsystems
// should obtain a logger through this package rather than constructing their
// own slog.Logger values, so that log level and output destination are
// controlled from a single place.
//
// # Initialisation
//
// Call Init (or InitDefault for sensible defaults) once at program startup,
// before any goroutines that might call GetLogger are spawned:
//
//	if err := logging.Init(logging.Config{
//	    Level:      logging.LevelDebug,
//	    OutputPath: "logs/gridstore.log",
//	    Format:     "json",
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
// If GetLogger is called before Init, a default stdout logger is created
// lazily so that packages that log during init are safe.
//
// # Context helpers
//
// Helpers return child loggers pre-populated with structured fields:
//
//	log := logging.WithStore(storeID) // adds store_id field
//	log := logging.WithProject(project)
package logging
