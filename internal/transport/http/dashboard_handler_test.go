package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicelens/internal/config"
	apierrors "invoicelens/internal/errors"
	"invoicelens/internal/services"
)

const fixtureCSV = `first_name,last_name,email,product_id,qty,amount,invoice_date
Alice,Smith,alice@example.com,10,2,10.0,15/03/2023
Bob,Jones,bob@example.com,10,1,30.0,20/06/2023
Carol,White,carol@example.com,20,3,10.0,10/09/2023
Alice,Smith,alice@example.com,20,1,15.0,05/02/2024
Bob,Jones,bob@example.com,10,2,15.0,25/11/2024
`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	path := filepath.Join(t.TempDir(), "invoices.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0644))

	cfg := config.Default()
	cfg.Data.CSVPath = path

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := services.NewDashboardService(cfg, logger)
	require.NoError(t, svc.Load(context.Background()))

	handler := NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	return handler.Routes()
}

func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestDashboardHandler_GetKPIs(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/kpis")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 125.0, data["total_revenue"].(float64), 1e-9)
	assert.EqualValues(t, 5, data["num_transactions"])
	assert.InDelta(t, 25.0, data["avg_transaction_value"].(float64), 1e-9)
}

func TestDashboardHandler_GetKPIs_FilteredByYear(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/kpis?years=2023")

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 80.0, data["total_revenue"].(float64), 1e-9)
	assert.EqualValues(t, 3, data["num_transactions"])
}

func TestDashboardHandler_GetKPIs_BadYearsParameter(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/kpis?years=abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.TypeInvalidParameter, body["type"])
}

func TestDashboardHandler_GetKPIs_YearOutOfRange(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doRequest(t, router, "/kpis?years=1850")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_GetYearlyRevenue(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/revenue/yearly")

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["count"])

	rows := body["data"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.EqualValues(t, 2023, first["invoice_year"])
	assert.InDelta(t, 80.0, first["total_revenue"].(float64), 1e-9)
}

func TestDashboardHandler_GetTopProducts(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/products/top?limit=1")

	require.Equal(t, http.StatusOK, w.Code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	top := rows[0].(map[string]interface{})
	assert.EqualValues(t, 10, top["product_id"])
	assert.InDelta(t, 80.0, top["total_revenue"].(float64), 1e-9)
}

func TestDashboardHandler_GetTopProducts_BadLimit(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doRequest(t, router, "/products/top?limit=-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_GetHeatmap(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/products/heatmap")

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["products"], 2)
	assert.Len(t, data["years"], 2)
}

func TestDashboardHandler_GetVolume_InvalidFrequency(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/volume?freq=Q")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.TypeInvalidParameter, body["type"])
}

func TestDashboardHandler_GetVolume_Monthly(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/volume?freq=M&years=2023")

	require.Equal(t, http.StatusOK, w.Code)
	rows := body["data"].([]interface{})
	require.NotEmpty(t, rows)

	total := 0.0
	for _, row := range rows {
		total += row.(map[string]interface{})["volume"].(float64)
	}
	assert.EqualValues(t, 3, total)
}

func TestDashboardHandler_GetYoYComparison(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/kpis/yoy/2024")

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2024, data["year"])
	require.NotNil(t, data["previous"])
	require.NotNil(t, data["comparison"])
}

func TestDashboardHandler_GetYoYComparison_NoPriorYear(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/kpis/yoy/2023")

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Nil(t, data["previous"])
	assert.Nil(t, data["comparison"])
}

func TestDashboardHandler_GetMultiProductPerformance_RequiresProducts(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doRequest(t, router, "/products/performance")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_GetProductPerformance(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/products/10/performance")

	require.Equal(t, http.StatusOK, w.Code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 2)
}

func TestDashboardHandler_GetAvailable(t *testing.T) {
	router := newTestRouter(t)

	w, body := doRequest(t, router, "/years")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{float64(2023), float64(2024)}, body["data"])

	w, body = doRequest(t, router, "/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{float64(10), float64(20)}, body["data"])
}

func TestDashboardHandler_NotLoaded(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := services.NewDashboardService(config.Default(), logger)
	handler := NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	router := handler.Routes()

	w, body := doRequest(t, router, "/kpis")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierrors.TypeNotFound, body["type"])
}
