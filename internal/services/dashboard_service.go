package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"invoicelens/internal/config"
	"invoicelens/internal/dataset"
	"invoicelens/internal/forecast"
	"invoicelens/internal/ingest"
	"invoicelens/pkg/contracts/domain"
)

// DashboardService answers all dashboard view queries against the loaded
// invoice dataset. The dataset is loaded once at startup and can be
// reloaded on demand; reads take a shared lock so queries stay cheap.
type DashboardService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.RWMutex
	base     *dataset.Dataset
	loadedAt time.Time

	forecaster forecast.Forecaster
}

// NewDashboardService creates a dashboard service. Call Load before
// serving queries.
func NewDashboardService(cfg *config.Config, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	svc := &DashboardService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}

	svc.forecaster = svc.selectForecaster()

	return svc
}

// selectForecaster prefers a replay artifact when one is configured and
// readable, falling back to the seasonal naive model.
func (s *DashboardService) selectForecaster() forecast.Forecaster {
	if path := s.cfg.Data.ForecastArtifact; path != "" {
		replay, err := forecast.LoadArtifact(path, s.logger)
		if err == nil {
			return replay
		}
		s.logger.Warn("forecast artifact unusable, falling back to naive model",
			slog.String("artifact", path),
			slog.String("error", err.Error()))
	}
	return forecast.NaiveForecaster{}
}

// Load ingests the configured CSV and replaces the current dataset.
func (s *DashboardService) Load(ctx context.Context) error {
	loader := ingest.NewLoader(s.cfg.Data.CSVPath, s.logger)

	result, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load invoices from %s: %w", s.cfg.Data.CSVPath, err)
	}

	ds := dataset.New(result.Invoices, result.Columns).WithLogger(s.logger)

	s.mu.Lock()
	s.base = ds
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("csv_path", s.cfg.Data.CSVPath),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns())))

	return nil
}

// current returns the loaded dataset or ErrDatasetNotLoaded.
func (s *DashboardService) current() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.base == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.base, nil
}

// filtered resolves the dataset through the given filter criteria.
func (s *DashboardService) filtered(c dataset.Criteria) (*dataset.Dataset, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return ds.ApplyFilters(c)
}

// KPIs computes the six-metric snapshot over the filtered dataset.
func (s *DashboardService) KPIs(ctx context.Context, c dataset.Criteria) (domain.KPISnapshot, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return domain.KPISnapshot{}, err
	}
	return ds.KPIs(), nil
}

// YearlyRevenue returns per-year revenue totals, ascending by year.
func (s *DashboardService) YearlyRevenue(ctx context.Context, c dataset.Criteria) ([]domain.YearlyRevenue, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return nil, err
	}
	return ds.YearlyRevenue(), nil
}

// YearlyQuantity returns per-year quantity totals, ascending by year.
func (s *DashboardService) YearlyQuantity(ctx context.Context, c dataset.Criteria) ([]domain.YearlyQuantity, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return nil, err
	}
	return ds.YearlyQuantity(), nil
}

// TopProducts returns the top n products by revenue. A non-positive n
// falls back to the configured dashboard default.
func (s *DashboardService) TopProducts(ctx context.Context, c dataset.Criteria, n int) ([]domain.ProductRevenue, error) {
	if n <= 0 {
		n = s.cfg.Dashboard.TopProducts
	}
	ds, err := s.filtered(c)
	if err != nil {
		return nil, err
	}
	return ds.TopProducts(n), nil
}

// Heatmap returns the product-by-year revenue matrix.
func (s *DashboardService) Heatmap(ctx context.Context, c dataset.Criteria) (domain.Heatmap, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return domain.Heatmap{}, err
	}
	return ds.ProductYearHeatmap(), nil
}

// Volume resamples transaction counts at the requested frequency.
func (s *DashboardService) Volume(ctx context.Context, c dataset.Criteria, freq domain.Frequency) ([]domain.VolumePoint, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return nil, err
	}
	return ds.TransactionVolume(freq)
}

// ProductPerformance returns the yearly trajectory of a single product.
func (s *DashboardService) ProductPerformance(ctx context.Context, c dataset.Criteria, productID int) ([]domain.ProductYearPerformance, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return nil, err
	}
	return ds.ProductPerformance(productID), nil
}

// MultiProductPerformance returns yearly trajectories for several products.
func (s *DashboardService) MultiProductPerformance(ctx context.Context, c dataset.Criteria, ids []int) ([]domain.MultiProductPoint, error) {
	ds, err := s.filtered(c)
	if err != nil {
		return nil, err
	}
	return ds.MultiProductPerformance(ids)
}

// AvailableYears lists the distinct invoice years, ascending.
func (s *DashboardService) AvailableYears(ctx context.Context) ([]int, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return ds.AvailableYears(), nil
}

// AvailableProducts lists the distinct product IDs, ascending.
func (s *DashboardService) AvailableProducts(ctx context.Context) ([]int, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return ds.AvailableProducts(), nil
}

// YoYComparison computes KPIs for a year alongside its prior year.
func (s *DashboardService) YoYComparison(ctx context.Context, year int) (domain.YoYComparison, error) {
	ds, err := s.current()
	if err != nil {
		return domain.YoYComparison{}, err
	}
	return dataset.KPIsWithYoYComparison(ds, year), nil
}

// Forecast projects daily revenue beyond the observed history.
func (s *DashboardService) Forecast(ctx context.Context) (domain.Forecast, error) {
	ds, err := s.current()
	if err != nil {
		return domain.Forecast{}, err
	}

	history := forecast.DailyRevenueSeries(ds)
	result, err := s.forecaster.Forecast(ctx, history, s.cfg.Data.ForecastHorizon)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: %s", ErrForecastUnavailable, err)
	}
	return result, nil
}

// Meta describes the dataset and presentation settings for the UI shell.
type Meta struct {
	Title       string    `json:"title"`
	Icon        string    `json:"icon,omitempty"`
	Palette     []string  `json:"palette"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	LoadedAt    time.Time `json:"loaded_at"`
	TopProducts int       `json:"top_products"`
}

// Metadata returns dataset shape and dashboard presentation settings.
func (s *DashboardService) Metadata(ctx context.Context) (Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.base == nil {
		return Meta{}, ErrDatasetNotLoaded
	}

	return Meta{
		Title:       s.cfg.Dashboard.Title,
		Icon:        s.cfg.Dashboard.Icon,
		Palette:     s.cfg.Dashboard.Palette,
		Rows:        s.base.Len(),
		Columns:     s.base.Columns(),
		LoadedAt:    s.loadedAt,
		TopProducts: s.cfg.Dashboard.TopProducts,
	}, nil
}

// Loaded reports whether a dataset is available and when it was ingested.
func (s *DashboardService) Loaded() (bool, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base != nil, s.loadedAt
}
