package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/IdrisInc/smartbz/internal/domain/finance"
	"github.com/IdrisInc/smartbz/internal/domain/inventory"
	"github.com/IdrisInc/smartbz/internal/domain/returns"
	"github.com/IdrisInc/smartbz/internal/infrastructure/config"
	"github.com/IdrisInc/smartbz/internal/infrastructure/logger"
	"github.com/IdrisInc/smartbz/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		if err := migrateUp(db); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema is up to date")
	default:
		printUsage()
		os.Exit(1)
	}
}

// migrateUp creates or updates the engine's tables
func migrateUp(db *persistence.Database) error {
	return db.DB.AutoMigrate(
		&returns.Origin{},
		&returns.OriginLine{},
		&returns.Return{},
		&returns.ReturnLine{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&finance.FinancialNote{},
	)
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up    Apply the schema to the configured database")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
