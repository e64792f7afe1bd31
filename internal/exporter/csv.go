package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"invoicelens/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality for the dashboard views.
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a new CSV writer rooted at the given export
// directory.
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// ExportKPIs writes the six-metric snapshot as a two-column table.
func (w *CSVWriter) ExportKPIs(filePath string, kpis domain.KPISnapshot) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: []string{"metric", "value"},
		Records: [][]string{
			{"total_revenue", formatFloat(kpis.TotalRevenue)},
			{"total_quantity", formatInt(kpis.TotalQuantity)},
			{"num_transactions", formatInt(kpis.NumTransactions)},
			{"avg_transaction_value", formatFloat(kpis.AvgTransactionValue)},
			{"unique_customers", formatInt(kpis.UniqueCustomers)},
			{"unique_products", formatInt(kpis.UniqueProducts)},
		},
		BOMPrefix: true,
	})
}

// ExportYearlyRevenue writes the per-year revenue series.
func (w *CSVWriter) ExportYearlyRevenue(filePath string, rows []domain.YearlyRevenue) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{formatInt(row.InvoiceYear), formatFloat(row.TotalRevenue)}
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"invoice_year", "total_revenue"},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportYearlyQuantity writes the per-year quantity series.
func (w *CSVWriter) ExportYearlyQuantity(filePath string, rows []domain.YearlyQuantity) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{formatInt(row.InvoiceYear), formatInt(row.TotalQuantity)}
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"invoice_year", "total_quantity"},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportTopProducts writes the revenue ranking.
func (w *CSVWriter) ExportTopProducts(filePath string, rows []domain.ProductRevenue) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{formatInt(row.ProductID), formatFloat(row.TotalRevenue)}
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"product_id", "total_revenue"},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportHeatmap writes the product x year matrix with one row per product
// and one column per year.
func (w *CSVWriter) ExportHeatmap(filePath string, heatmap domain.Heatmap) error {
	headers := make([]string, 1, len(heatmap.Years)+1)
	headers[0] = "product_id"
	for _, year := range heatmap.Years {
		headers = append(headers, formatInt(year))
	}

	records := make([][]string, len(heatmap.Products))
	for i, id := range heatmap.Products {
		record := make([]string, 1, len(heatmap.Years)+1)
		record[0] = formatInt(id)
		for j := range heatmap.Years {
			record = append(record, formatFloat(heatmap.Revenue[i][j]))
		}
		records[i] = record
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportVolume writes the resampled transaction timeline.
func (w *CSVWriter) ExportVolume(filePath string, points []domain.VolumePoint) error {
	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{p.Date.Format("2006-01-02"), formatInt(p.Volume)}
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"date", "volume"},
		Records:   records,
		BOMPrefix: true,
	})
}

// resolvePath resolves a path against the export directory.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
