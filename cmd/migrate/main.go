// Command migrate runs schema operations against the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"tally/internal/config"
	"tally/internal/database"
	"tally/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status|rebuild-totals>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Schema changes happen only when asked for.
	cfg.DBAutoMigrate = false

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		tables, err := database.SchemaStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		for _, t := range tables {
			if t.Exists {
				log.Printf("%-16s present rows=%d", t.Table, t.Rows)
			} else {
				log.Printf("%-16s missing", t.Table)
			}
		}
	case "rebuild-totals":
		n, err := repository.NewActivityRepository(db).RebuildTotals(ctx)
		if err != nil {
			return fmt.Errorf("rebuild totals failed: %w", err)
		}
		log.Printf("rebuilt totals for %d users", n)
	default:
		return usage()
	}
	return nil
}
