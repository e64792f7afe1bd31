package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"invoicelens/pkg/contracts/domain"
)

// Report bundles the views rendered into a workbook.
type Report struct {
	KPIs           domain.KPISnapshot
	YearlyRevenue  []domain.YearlyRevenue
	YearlyQuantity []domain.YearlyQuantity
	TopProducts    []domain.ProductRevenue
	Heatmap        domain.Heatmap
	Volume         []domain.VolumePoint
}

// WorkbookWriter renders dashboard views into a single Excel workbook,
// one sheet per view.
type WorkbookWriter struct {
	baseDir string
}

// NewWorkbookWriter creates a workbook writer rooted at the given export
// directory.
func NewWorkbookWriter(baseDir string) *WorkbookWriter {
	return &WorkbookWriter{baseDir: baseDir}
}

// Write renders the report and saves the workbook at filePath.
func (w *WorkbookWriter) Write(filePath string, report Report) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.baseDir, fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "KPIs")
	if err := w.writeKPISheet(f, report.KPIs); err != nil {
		return err
	}
	if err := w.writeYearlySheet(f, report.YearlyRevenue, report.YearlyQuantity); err != nil {
		return err
	}
	if err := w.writeTopProductsSheet(f, report.TopProducts); err != nil {
		return err
	}
	if err := w.writeHeatmapSheet(f, report.Heatmap); err != nil {
		return err
	}
	if err := w.writeVolumeSheet(f, report.Volume); err != nil {
		return err
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Info("Workbook written",
		slog.String("full_path", fullPath),
		slog.Int("yearly_rows", len(report.YearlyRevenue)),
		slog.Int("top_products", len(report.TopProducts)))

	return nil
}

func (w *WorkbookWriter) writeKPISheet(f *excelize.File, kpis domain.KPISnapshot) error {
	rows := [][]interface{}{
		{"metric", "value"},
		{"total_revenue", kpis.TotalRevenue},
		{"total_quantity", kpis.TotalQuantity},
		{"num_transactions", kpis.NumTransactions},
		{"avg_transaction_value", kpis.AvgTransactionValue},
		{"unique_customers", kpis.UniqueCustomers},
		{"unique_products", kpis.UniqueProducts},
	}
	return writeRows(f, "KPIs", rows)
}

func (w *WorkbookWriter) writeYearlySheet(f *excelize.File, revenue []domain.YearlyRevenue, quantity []domain.YearlyQuantity) error {
	if _, err := f.NewSheet("Yearly"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	quantities := make(map[int]int, len(quantity))
	for _, q := range quantity {
		quantities[q.InvoiceYear] = q.TotalQuantity
	}

	rows := [][]interface{}{{"invoice_year", "total_revenue", "total_quantity"}}
	for _, r := range revenue {
		rows = append(rows, []interface{}{r.InvoiceYear, r.TotalRevenue, quantities[r.InvoiceYear]})
	}
	return writeRows(f, "Yearly", rows)
}

func (w *WorkbookWriter) writeTopProductsSheet(f *excelize.File, products []domain.ProductRevenue) error {
	if _, err := f.NewSheet("Top Products"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]interface{}{{"product_id", "total_revenue"}}
	for _, p := range products {
		rows = append(rows, []interface{}{p.ProductID, p.TotalRevenue})
	}
	return writeRows(f, "Top Products", rows)
}

func (w *WorkbookWriter) writeHeatmapSheet(f *excelize.File, heatmap domain.Heatmap) error {
	if _, err := f.NewSheet("Heatmap"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := []interface{}{"product_id"}
	for _, year := range heatmap.Years {
		header = append(header, year)
	}
	rows := [][]interface{}{header}
	for i, id := range heatmap.Products {
		row := []interface{}{id}
		for j := range heatmap.Years {
			row = append(row, heatmap.Revenue[i][j])
		}
		rows = append(rows, row)
	}
	return writeRows(f, "Heatmap", rows)
}

func (w *WorkbookWriter) writeVolumeSheet(f *excelize.File, points []domain.VolumePoint) error {
	if _, err := f.NewSheet("Volume"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]interface{}{{"date", "volume"}}
	for _, p := range points {
		rows = append(rows, []interface{}{p.Date.Format("2006-01-02"), p.Volume})
	}
	return writeRows(f, "Volume", rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
