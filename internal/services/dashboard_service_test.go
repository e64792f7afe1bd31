package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicelens/internal/config"
	"invoicelens/internal/dataset"
	"invoicelens/pkg/contracts/domain"
)

const testCSV = `first_name,last_name,email,product_id,qty,amount,invoice_date
Alice,Smith,alice@example.com,10,2,10.0,15/03/2023
Bob,Jones,bob@example.com,10,1,30.0,20/06/2023
Carol,White,carol@example.com,20,3,10.0,10/09/2023
Alice,Smith,alice@example.com,20,1,15.0,05/02/2024
Bob,Jones,bob@example.com,10,2,15.0,25/11/2024
`

func writeTestCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoices.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func newTestService(t *testing.T) *DashboardService {
	t.Helper()

	cfg := config.Default()
	cfg.Data.CSVPath = writeTestCSV(t, testCSV)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := NewDashboardService(cfg, logger)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestDashboardService_LoadMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Data.CSVPath = filepath.Join(t.TempDir(), "absent.csv")

	svc := NewDashboardService(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	err := svc.Load(context.Background())
	require.Error(t, err)

	loaded, _ := svc.Loaded()
	assert.False(t, loaded)
}

func TestDashboardService_QueriesBeforeLoad(t *testing.T) {
	cfg := config.Default()
	svc := NewDashboardService(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	_, err := svc.KPIs(context.Background(), dataset.Criteria{})
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)

	_, err = svc.AvailableYears(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
}

func TestDashboardService_KPIs(t *testing.T) {
	svc := newTestService(t)

	kpis, err := svc.KPIs(context.Background(), dataset.Criteria{})
	require.NoError(t, err)

	assert.InDelta(t, 125.0, kpis.TotalRevenue, 1e-9)
	assert.Equal(t, 9, kpis.TotalQuantity)
	assert.Equal(t, 5, kpis.NumTransactions)
	assert.InDelta(t, 25.0, kpis.AvgTransactionValue, 1e-9)
	assert.Equal(t, 3, kpis.UniqueCustomers)
	assert.Equal(t, 2, kpis.UniqueProducts)
}

func TestDashboardService_KPIsFiltered(t *testing.T) {
	svc := newTestService(t)

	kpis, err := svc.KPIs(context.Background(), dataset.Criteria{Years: []int{2023}})
	require.NoError(t, err)

	assert.InDelta(t, 80.0, kpis.TotalRevenue, 1e-9)
	assert.Equal(t, 3, kpis.NumTransactions)
}

func TestDashboardService_TopProductsDefaultLimit(t *testing.T) {
	svc := newTestService(t)

	products, err := svc.TopProducts(context.Background(), dataset.Criteria{}, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)

	// 10: 20+30+30 = 80, 20: 30+15 = 45
	assert.Equal(t, 10, products[0].ProductID)
	assert.InDelta(t, 80.0, products[0].TotalRevenue, 1e-9)
	assert.Equal(t, 20, products[1].ProductID)
}

func TestDashboardService_Volume(t *testing.T) {
	svc := newTestService(t)

	points, err := svc.Volume(context.Background(), dataset.Criteria{Years: []int{2023}}, domain.FrequencyMonthly)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	total := 0
	for _, p := range points {
		total += p.Volume
	}
	assert.Equal(t, 3, total)
}

func TestDashboardService_VolumeInvalidFrequency(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Volume(context.Background(), dataset.Criteria{}, domain.Frequency("Q"))
	assert.ErrorIs(t, err, dataset.ErrInvalidArgument)
}

func TestDashboardService_YoYComparison(t *testing.T) {
	svc := newTestService(t)

	yoy, err := svc.YoYComparison(context.Background(), 2024)
	require.NoError(t, err)

	require.NotNil(t, yoy.Previous)
	require.NotNil(t, yoy.Comparison)
	assert.InDelta(t, 45.0, yoy.Current.TotalRevenue, 1e-9)
	assert.InDelta(t, 80.0, yoy.Previous.TotalRevenue, 1e-9)

	require.NotNil(t, yoy.Comparison.TotalRevenueChange)
	assert.InDelta(t, -43.75, *yoy.Comparison.TotalRevenueChange, 1e-9)
}

func TestDashboardService_Forecast(t *testing.T) {
	svc := newTestService(t)

	forecast, err := svc.Forecast(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "seasonal_naive", forecast.Model)
	assert.Len(t, forecast.Points, config.Default().Data.ForecastHorizon)
}

func TestDashboardService_Metadata(t *testing.T) {
	svc := newTestService(t)

	meta, err := svc.Metadata(context.Background())
	require.NoError(t, err)

	assert.Equal(t, config.Default().Dashboard.Title, meta.Title)
	assert.Equal(t, 5, meta.Rows)
	assert.Contains(t, meta.Columns, "invoice_year")
	assert.False(t, meta.LoadedAt.IsZero())
}

func TestHealthService_Check(t *testing.T) {
	svc := newTestService(t)
	health := NewHealthService(svc, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	status := health.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)

	dataset, ok := status.Services["dataset"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", dataset["status"])
}

func TestHealthService_CheckDegraded(t *testing.T) {
	cfg := config.Default()
	svc := NewDashboardService(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	health := NewHealthService(svc, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	status := health.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
}
