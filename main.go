package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"gridstore/pkg/datastore"
	"gridstore/pkg/datastore/rows"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/logging"
	"gridstore/pkg/storage/memstore"
	"gridstore/pkg/storage/sqlstore"
	"gridstore/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

type Configuration struct {
	DatabasePath string
	LogPath      string
	LogLevel     string
	DemoMode     bool
}

func main() {
	config := parseArguments()
	showSplashScreen()

	if err := logging.Init(logging.Config{
		Level:      logging.LogLevel(config.LogLevel),
		OutputPath: config.LogPath,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	manager, cleanup, err := initializeManager(config)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	if config.DemoMode {
		if err := runDemoMode(manager); err != nil {
			log.Fatalf("Demo mode failed: %v", err)
		}
	}
}

// parseArguments processes command-line flags
func parseArguments() Configuration {
	var config Configuration

	flag.StringVar(&config.DatabasePath, "db", "", "SQLite database path (empty for in-memory storage)")
	flag.StringVar(&config.LogPath, "log", "", "Log file path (empty for stdout)")
	flag.StringVar(&config.LogLevel, "level", "INFO", "Log level: DEBUG, INFO, WARN, ERROR")
	flag.BoolVar(&config.DemoMode, "demo", false, "Run a scripted demo against the store")

	flag.Parse()

	return config
}

// showSplashScreen displays the welcome banner
func showSplashScreen() {
	splash := `
╔═══════════════════════════════════════════════╗
║   ██████╗ ██████╗ ██╗██████╗                  ║
║  ██╔════╝ ██╔══██╗██║██╔══██╗                 ║
║  ██║  ███╗██████╔╝██║██║  ██║                 ║
║  ██║   ██║██╔══██╗██║██║  ██║                 ║
║  ╚██████╔╝██║  ██║██║██████╔╝                 ║
║   ╚═════╝ ╚═╝  ╚═╝╚═╝╚═════╝  store           ║
║                                               ║
║   Schema-governed data stores for projects    ║
╚═══════════════════════════════════════════════╝
`

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	fmt.Println(style.Render(splash))
}

// initializeManager wires the manager over SQLite when a path is given,
// falling back to the in-memory engine otherwise.
func initializeManager(config Configuration) (*datastore.Manager, func(), error) {
	if config.DatabasePath == "" {
		fmt.Println("🔧 Using in-memory storage")
		s := memstore.New()
		return datastore.NewManager(s.Metadata(), s.Columns(), s.Rows()), func() {}, nil
	}

	fmt.Printf("🔧 Opening database at '%s'...\n", config.DatabasePath)
	s, err := sqlstore.Open(config.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	fmt.Println("✅ Database ready!")
	return datastore.NewManager(s.Metadata(), s.Columns(), s.Rows()), func() { s.Close() }, nil
}

// runDemoMode walks one data store through its whole lifecycle.
func runDemoMode(manager *datastore.Manager) error {
	ctx := context.Background()
	headline := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	fmt.Println(headline.Render("\n— Demo: orders data store —"))

	ds, err := manager.CreateDataStore(ctx, "demo-project", "orders", []schema.ColumnDef{
		{Name: "customer", Type: types.StringType},
		{Name: "paid", Type: types.BoolType},
		{Name: "total", Type: types.NumberType},
		{Name: "placed_at", Type: types.DateType},
	})
	if err != nil {
		return err
	}
	fmt.Printf("📦 Created data store %q (%s)\n", ds.Name, ds.ID)

	batch := []rows.Row{
		{"customer": "ada", "paid": true, "total": 42.5, "placed_at": time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
		{"customer": "brendan", "paid": false, "total": 13.0, "placed_at": time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
		{"customer": "grace", "paid": nil, "total": nil, "placed_at": nil},
	}
	if err := manager.InsertRows(ctx, ds.ID, batch); err != nil {
		return err
	}
	fmt.Printf("📝 Inserted %d rows\n", len(batch))

	// A mistyped cell is rejected before anything reaches storage.
	err = manager.InsertRows(ctx, ds.ID, []rows.Row{
		{"customer": "mallory", "paid": "yes", "total": 1.0, "placed_at": nil},
	})
	fmt.Printf("🚫 Rejected bad row: %v\n", err)

	page, err := manager.ListRows(ctx, ds.ID, datastore.ListRowsOptions{OrderBy: "total"})
	if err != nil {
		return err
	}

	fmt.Printf("📊 %d rows total:\n", page.Count)
	for _, row := range page.Rows {
		fmt.Printf("   %v\n", row)
	}

	if err := manager.DeleteDataStore(ctx, ds.ID); err != nil {
		return err
	}
	fmt.Println("🧹 Demo store removed")
	return nil
}
