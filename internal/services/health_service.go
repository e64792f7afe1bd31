package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"invoicelens/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	dashboard *DashboardService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(dashboard *DashboardService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		dashboard: dashboard,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check reports process health and dataset availability. The overall
// status degrades when no dataset is loaded.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	loaded, loadedAt := s.dashboard.Loaded()

	status := "healthy"
	datasetStatus := map[string]interface{}{
		"status": "ok",
	}
	if loaded {
		datasetStatus["loaded_at"] = loadedAt
	} else {
		status = "degraded"
		datasetStatus["status"] = "unavailable"
		datasetStatus["message"] = ErrDatasetNotLoaded.Error()
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"alloc_mb":       mem.Alloc / 1024 / 1024,
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]interface{}{
			"dataset": datasetStatus,
		},
	}
}
