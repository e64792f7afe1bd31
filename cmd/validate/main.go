// Command validate loads an invoice CSV through the full ingestion
// pipeline and reports what the dashboard would accept or reject. It is
// the fast preflight for new data drops: run it before pointing the web
// server at a file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"invoicelens/internal/config"
	"invoicelens/internal/dataset"
	"invoicelens/internal/infrastructure"
	"invoicelens/internal/ingest"
)

func main() {
	csvPath := flag.String("csv", "", "invoice CSV file to validate (defaults to the configured data.csv_path)")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Output = "console"

	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	path := *csvPath
	if path == "" {
		path = cfg.Data.CSVPath
	}

	ctx := context.Background()
	result, err := ingest.NewLoader(path, logger).Load(ctx)
	if err != nil {
		reportFailure(path, err)
		os.Exit(1)
	}

	ds := dataset.New(result.Invoices, result.Columns).WithLogger(logger)
	kpis := ds.KPIs()

	fmt.Printf("OK: %s\n", path)
	fmt.Printf("  rows:             %d\n", ds.Len())
	fmt.Printf("  columns:          %d\n", len(ds.Columns()))
	fmt.Printf("  years:            %v\n", ds.AvailableYears())
	fmt.Printf("  products:         %d\n", kpis.UniqueProducts)
	fmt.Printf("  customers:        %d\n", kpis.UniqueCustomers)
	fmt.Printf("  total revenue:    %.2f\n", kpis.TotalRevenue)
	fmt.Printf("  total quantity:   %d\n", kpis.TotalQuantity)
}

func reportFailure(path string, err error) {
	var valErr *ingest.ValidationError
	switch {
	case errors.Is(err, ingest.ErrNotFound):
		fmt.Fprintf(os.Stderr, "REJECTED: %s does not exist\n", path)
	case errors.Is(err, ingest.ErrEmpty):
		fmt.Fprintf(os.Stderr, "REJECTED: %s has no data rows\n", path)
	case errors.Is(err, ingest.ErrParse):
		fmt.Fprintf(os.Stderr, "REJECTED: %s is not parseable CSV: %v\n", path, err)
	case errors.As(err, &valErr):
		fmt.Fprintf(os.Stderr, "REJECTED: %s failed %s validation\n", path, valErr.Phase)
		for _, v := range valErr.Violations {
			fmt.Fprintf(os.Stderr, "  %-14s %s", v.Column, v.Message)
			if v.Count > 0 {
				fmt.Fprintf(os.Stderr, " (%d rows", v.Count)
				if v.Percent > 0 {
					fmt.Fprintf(os.Stderr, ", %.1f%%", v.Percent)
				}
				fmt.Fprint(os.Stderr, ")")
			}
			if len(v.Examples) > 0 {
				fmt.Fprintf(os.Stderr, " examples: %v", v.Examples)
			}
			fmt.Fprintln(os.Stderr)
		}
	default:
		fmt.Fprintf(os.Stderr, "REJECTED: %s: %v\n", path, err)
	}
}
