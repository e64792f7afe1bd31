package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"invoicelens/internal/dataset"
	apierrors "invoicelens/internal/errors"
	"invoicelens/internal/services"
	"invoicelens/pkg/contracts/domain"
)

// filterDateFormat is the wire format for the from/to query parameters.
const filterDateFormat = "2006-01-02"

// DashboardHandler handles dashboard view requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error
// handling
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes with proper Chi patterns
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/meta", h.GetMetadata)
	r.Get("/kpis", h.GetKPIs)
	r.Get("/kpis/yoy/{year}", h.GetYoYComparison)
	r.Get("/revenue/yearly", h.GetYearlyRevenue)
	r.Get("/quantity/yearly", h.GetYearlyQuantity)
	r.Get("/products/top", h.GetTopProducts)
	r.Get("/products/heatmap", h.GetHeatmap)
	r.Get("/products/performance", h.GetMultiProductPerformance)
	r.Get("/products/{id}/performance", h.GetProductPerformance)
	r.Get("/volume", h.GetVolume)
	r.Get("/forecast", h.GetForecast)
	r.Get("/years", h.GetAvailableYears)
	r.Get("/products", h.GetAvailableProducts)

	return r
}

// criteriaFromQuery parses the shared filter query parameters.
func criteriaFromQuery(r *http.Request) (dataset.Criteria, error) {
	var c dataset.Criteria

	years, err := parseIntList(r.URL.Query().Get("years"))
	if err != nil {
		return c, apierrors.InvalidParameterError("years", err)
	}
	c.Years = years

	products, err := parseIntList(r.URL.Query().Get("products"))
	if err != nil {
		return c, apierrors.InvalidParameterError("products", err)
	}
	c.Products = products

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(filterDateFormat, from)
		if err != nil {
			return c, apierrors.InvalidParameterError("from", fmt.Errorf("expected YYYY-MM-DD: %v", err))
		}
		c.Start = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(filterDateFormat, to)
		if err != nil {
			return c, apierrors.InvalidParameterError("to", fmt.Errorf("expected YYYY-MM-DD: %v", err))
		}
		c.End = t
	}

	return c, nil
}

// parseIntList parses a comma-separated list of integers. An empty string
// is no filter at all and yields nil.
func parseIntList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", part)
		}
		values = append(values, v)
	}
	return values, nil
}

// handleServiceError maps well-known service errors before delegating to
// the shared error handler.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrDatasetNotLoaded) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

// GetMetadata handles GET /api/dashboard/meta
func (h *DashboardHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.Metadata(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, meta)
}

// GetKPIs handles GET /api/dashboard/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	kpis, err := h.service.KPIs(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   kpis,
	})
}

// GetYoYComparison handles GET /api/dashboard/kpis/yoy/{year}
func (h *DashboardHandler) GetYoYComparison(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("year", err))
		return
	}

	yoy, err := h.service.YoYComparison(r.Context(), year)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   yoy,
	})
}

// GetYearlyRevenue handles GET /api/dashboard/revenue/yearly
func (h *DashboardHandler) GetYearlyRevenue(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.YearlyRevenue(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetYearlyQuantity handles GET /api/dashboard/quantity/yearly
func (h *DashboardHandler) GetYearlyQuantity(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.YearlyQuantity(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetTopProducts handles GET /api/dashboard/products/top
func (h *DashboardHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("limit",
				fmt.Errorf("%q is not a positive integer", raw)))
			return
		}
	}

	products, err := h.service.TopProducts(r.Context(), criteria, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   products,
		"count":  len(products),
	})
}

// GetHeatmap handles GET /api/dashboard/products/heatmap
func (h *DashboardHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	heatmap, err := h.service.Heatmap(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   heatmap,
	})
}

// GetProductPerformance handles GET /api/dashboard/products/{id}/performance
func (h *DashboardHandler) GetProductPerformance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("id",
			fmt.Errorf("product id must be a positive integer")))
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.ProductPerformance(r.Context(), criteria, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetMultiProductPerformance handles GET /api/dashboard/products/performance.
// The products parameter is required here: comparing zero products is an
// empty chart, not a default.
func (h *DashboardHandler) GetMultiProductPerformance(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIntList(r.URL.Query().Get("products"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("products", err))
		return
	}
	if ids == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("products", "at least one product id is required"))
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	criteria.Products = nil

	points, err := h.service.MultiProductPerformance(r.Context(), criteria, ids)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
	})
}

// GetVolume handles GET /api/dashboard/volume
func (h *DashboardHandler) GetVolume(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	freq := domain.Frequency(strings.ToUpper(r.URL.Query().Get("freq")))
	if freq == "" {
		freq = domain.FrequencyDaily
	}

	points, err := h.service.Volume(r.Context(), criteria, freq)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
	})
}

// GetForecast handles GET /api/dashboard/forecast
func (h *DashboardHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.service.Forecast(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "forecast failed",
			slog.String("error", err.Error()),
		)
		if errors.Is(err, services.ErrForecastUnavailable) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusConflict,
				"FORECAST_UNAVAILABLE",
				"Not enough history to produce a forecast",
			))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   forecast,
	})
}

// GetAvailableYears handles GET /api/dashboard/years
func (h *DashboardHandler) GetAvailableYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.AvailableYears(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   years,
		"count":  len(years),
	})
}

// GetAvailableProducts handles GET /api/dashboard/products
func (h *DashboardHandler) GetAvailableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.AvailableProducts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   products,
		"count":  len(products),
	})
}
