package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicelens/pkg/contracts/domain"
)

func TestWorkbookWriter_Write(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewWorkbookWriter(tempDir)

	report := Report{
		KPIs: domain.KPISnapshot{
			TotalRevenue:        125.0,
			TotalQuantity:       9,
			NumTransactions:     5,
			AvgTransactionValue: 25.0,
			UniqueCustomers:     3,
			UniqueProducts:      2,
		},
		YearlyRevenue: []domain.YearlyRevenue{
			{InvoiceYear: 2023, TotalRevenue: 110.0},
			{InvoiceYear: 2024, TotalRevenue: 15.0},
		},
		YearlyQuantity: []domain.YearlyQuantity{
			{InvoiceYear: 2023, TotalQuantity: 7},
			{InvoiceYear: 2024, TotalQuantity: 2},
		},
		TopProducts: []domain.ProductRevenue{
			{ProductID: 10, TotalRevenue: 90.0},
			{ProductID: 20, TotalRevenue: 35.0},
		},
		Heatmap: domain.Heatmap{
			Products: []int{10, 20},
			Years:    []int{2023, 2024},
			Revenue:  [][]float64{{90.0, 0.0}, {20.0, 15.0}},
		},
		Volume: []domain.VolumePoint{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Volume: 3},
		},
	}

	path := filepath.Join(tempDir, "report.xlsx")
	require.NoError(t, writer.Write("report.xlsx", report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"KPIs", "Yearly", "Top Products", "Heatmap", "Volume"},
		f.GetSheetList())

	value, err := f.GetCellValue("KPIs", "B2")
	require.NoError(t, err)
	assert.Equal(t, "125", value)

	year, err := f.GetCellValue("Yearly", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2023", year)

	quantity, err := f.GetCellValue("Yearly", "C3")
	require.NoError(t, err)
	assert.Equal(t, "2", quantity)

	product, err := f.GetCellValue("Top Products", "A2")
	require.NoError(t, err)
	assert.Equal(t, "10", product)

	date, err := f.GetCellValue("Volume", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", date)
}
