package http

import (
	"context"

	"invoicelens/internal/dataset"
	"invoicelens/internal/services"
	"invoicelens/pkg/contracts/domain"
)

// DashboardServiceInterface defines the interface for dashboard queries
type DashboardServiceInterface interface {
	KPIs(ctx context.Context, c dataset.Criteria) (domain.KPISnapshot, error)
	YearlyRevenue(ctx context.Context, c dataset.Criteria) ([]domain.YearlyRevenue, error)
	YearlyQuantity(ctx context.Context, c dataset.Criteria) ([]domain.YearlyQuantity, error)
	TopProducts(ctx context.Context, c dataset.Criteria, n int) ([]domain.ProductRevenue, error)
	Heatmap(ctx context.Context, c dataset.Criteria) (domain.Heatmap, error)
	Volume(ctx context.Context, c dataset.Criteria, freq domain.Frequency) ([]domain.VolumePoint, error)
	ProductPerformance(ctx context.Context, c dataset.Criteria, productID int) ([]domain.ProductYearPerformance, error)
	MultiProductPerformance(ctx context.Context, c dataset.Criteria, ids []int) ([]domain.MultiProductPoint, error)
	AvailableYears(ctx context.Context) ([]int, error)
	AvailableProducts(ctx context.Context) ([]int, error)
	YoYComparison(ctx context.Context, year int) (domain.YoYComparison, error)
	Forecast(ctx context.Context) (domain.Forecast, error)
	Metadata(ctx context.Context) (services.Meta, error)
}
