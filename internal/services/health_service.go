package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"coqboard/internal/config"
	"coqboard/pkg/contracts"
	"coqboard/pkg/contracts/domain"
)

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusDegraded = "degraded"
	StatusAlive    = "alive"
)

// HealthService provides health check functionality
type HealthService struct {
	cfg       *config.Config
	dashboard *DashboardService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. dashboard may be nil.
func NewHealthService(cfg *config.Config, dashboard *DashboardService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		cfg:       cfg,
		dashboard: dashboard,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now().UTC(),
		Version:   contracts.Version,
	}
	hs.logger.DebugContext(ctx, "health check", slog.String("status", status.Status))
	return status
}

// ReadinessCheck reports not_ready only when configuration is missing.
// A failing workbook degrades the workbook entry without failing readiness,
// since the overview can still be served from fallback data.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now().UTC(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"config":   hs.checkConfig(),
			"workbook": hs.checkWorkbook(),
			"chat":     hs.checkChat(),
		},
	}
	if status.Services["config"].Status != StatusReady {
		status.Status = StatusNotReady
	}
	hs.logger.DebugContext(ctx, "readiness check", slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now().UTC(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) checkConfig() ServiceHealth {
	if hs.cfg == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "configuration not loaded"}
	}
	if err := hs.cfg.Validate(); err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	return ServiceHealth{Status: StatusReady}
}

func (hs *HealthService) checkWorkbook() ServiceHealth {
	if hs.dashboard == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "dashboard service not initialized"}
	}
	last := hs.dashboard.LastLoad()
	switch {
	case last == nil:
		return ServiceHealth{Status: StatusReady, Message: "not loaded yet"}
	case last.Source == domain.DataSourceLive:
		return ServiceHealth{Status: StatusReady, Message: "last load " + last.At.Format(time.RFC3339)}
	default:
		return ServiceHealth{Status: StatusDegraded, Message: last.Error}
	}
}

func (hs *HealthService) checkChat() ServiceHealth {
	if hs.cfg == nil || hs.cfg.Chat.Endpoint == "" {
		return ServiceHealth{Status: StatusDegraded, Message: "chat endpoint not configured"}
	}
	return ServiceHealth{Status: StatusReady}
}
