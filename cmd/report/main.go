// Command report renders the dashboard views for an invoice CSV into
// offline artifacts: one CSV per view plus a combined Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"invoicelens/internal/config"
	"invoicelens/internal/dataset"
	"invoicelens/internal/exporter"
	"invoicelens/internal/infrastructure"
	"invoicelens/internal/ingest"
	"invoicelens/pkg/contracts/domain"
)

func main() {
	csvPath := flag.String("csv", "", "invoice CSV file (defaults to the configured data.csv_path)")
	outDir := flag.String("out", "", "output directory (defaults to the configured data.export_dir)")
	years := flag.String("years", "", "comma-separated invoice years to include (default all)")
	freq := flag.String("freq", "D", "volume resample frequency: D, W or M")
	topN := flag.Int("top", 0, "top products limit (defaults to the configured dashboard.top_products)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.Logging.Output = "console"
	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	if *csvPath == "" {
		*csvPath = cfg.Data.CSVPath
	}
	if *outDir == "" {
		*outDir = cfg.Data.ExportDir
	}
	if *topN <= 0 {
		*topN = cfg.Dashboard.TopProducts
	}

	frequency := domain.Frequency(strings.ToUpper(*freq))
	if !frequency.Valid() {
		slog.Error("Invalid frequency", "freq", *freq)
		os.Exit(1)
	}

	criteria, err := parseCriteria(*years)
	if err != nil {
		slog.Error("Invalid years flag", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := ingest.NewLoader(*csvPath, logger).Load(ctx)
	if err != nil {
		slog.Error("Failed to load invoice data", "path", *csvPath, "error", err)
		os.Exit(1)
	}

	ds, err := dataset.New(result.Invoices, result.Columns).WithLogger(logger).ApplyFilters(criteria)
	if err != nil {
		slog.Error("Failed to apply filters", "error", err)
		os.Exit(1)
	}

	volume, err := ds.TransactionVolume(frequency)
	if err != nil {
		slog.Error("Failed to resample volume", "error", err)
		os.Exit(1)
	}

	report := exporter.Report{
		KPIs:           ds.KPIs(),
		YearlyRevenue:  ds.YearlyRevenue(),
		YearlyQuantity: ds.YearlyQuantity(),
		TopProducts:    ds.TopProducts(*topN),
		Heatmap:        ds.ProductYearHeatmap(),
		Volume:         volume,
	}

	writer := exporter.NewCSVWriter(*outDir)
	exports := []struct {
		name string
		fn   func() error
	}{
		{"kpis.csv", func() error { return writer.ExportKPIs("kpis.csv", report.KPIs) }},
		{"yearly_revenue.csv", func() error { return writer.ExportYearlyRevenue("yearly_revenue.csv", report.YearlyRevenue) }},
		{"yearly_quantity.csv", func() error { return writer.ExportYearlyQuantity("yearly_quantity.csv", report.YearlyQuantity) }},
		{"top_products.csv", func() error { return writer.ExportTopProducts("top_products.csv", report.TopProducts) }},
		{"heatmap.csv", func() error { return writer.ExportHeatmap("heatmap.csv", report.Heatmap) }},
		{"volume.csv", func() error { return writer.ExportVolume("volume.csv", report.Volume) }},
	}

	// Each view writes to its own file, so they can run in parallel.
	var g errgroup.Group
	for _, export := range exports {
		g.Go(func() error {
			if err := export.fn(); err != nil {
				return fmt.Errorf("export %s: %w", export.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Export failed", "error", err)
		os.Exit(1)
	}

	if err := exporter.NewWorkbookWriter(*outDir).Write("dashboard.xlsx", report); err != nil {
		slog.Error("Workbook export failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Report written to %s (%d rows, %d views + workbook)\n", *outDir, ds.Len(), len(exports))
}

func parseCriteria(years string) (dataset.Criteria, error) {
	var c dataset.Criteria
	if years == "" {
		return c, nil
	}
	for _, part := range strings.Split(years, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var year int
		if _, err := fmt.Sscanf(part, "%d", &year); err != nil {
			return c, fmt.Errorf("%q is not a year", part)
		}
		c.Years = append(c.Years, year)
	}
	return c, nil
}
