// Command importbilling loads historical billing rows from an .xlsx workbook
// straight into the billing ledger. Used for one-time backfill of legacy
// spreadsheets.
// Usage: go run ./cmd/importbilling <workbook.xlsx>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"medibill/internal/config"
	"medibill/internal/domain"
	"medibill/internal/repository/postgres"
	"medibill/internal/xlsx"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println("Usage: importbilling <workbook.xlsx>")
		os.Exit(1)
	}
	path := os.Args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := xlsx.ParseBillingSheet(f)
	if err != nil {
		return fmt.Errorf("parse workbook: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("workbook %s contains no billing rows", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	billingRepo := postgres.NewBillingRepo(db)
	ctx := context.Background()

	imported := 0
	for i := range rows {
		rec := &domain.BillingRecord{
			IsImported: true,
			Imported:   rows[i],
			IsActive:   true,
		}
		if err := billingRepo.Create(ctx, rec); err != nil {
			return fmt.Errorf("insert row %d (%s): %w", i+1, rows[i].CompanyName, err)
		}
		imported++
	}

	log.Printf("imported %d billing rows from %s", imported, path)
	return nil
}
