// Package services implements the business logic layer between the HTTP
// transport and the dataset core.
//
// DashboardService owns the loaded invoice dataset and answers all view
// queries (KPIs, yearly series, product rankings, heatmap, transaction
// volume, year-over-year comparisons, forecast). HealthService reports
// process and dataset health.
//
// Services receive a *slog.Logger at construction and log with a
// component attribute so log lines can be filtered per service.
package services
