package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"cyberlens/internal/config"
	ws "cyberlens/internal/websocket"
)

// HealthService reports liveness and readiness for the web server.
type HealthService struct {
	version   string
	paths     *config.Paths
	hub       *ws.Hub
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Checks    map[string]string      `json:"checks,omitempty"`
}

func NewHealthService(version string, paths *config.Paths, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check reports overall health. Degraded means the server runs but the
// data directories are not usable.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
		Checks: make(map[string]string),
	}

	if _, err := os.Stat(s.paths.DataDir); err != nil {
		status.Status = "degraded"
		status.Checks["data_dir"] = err.Error()
	} else {
		status.Checks["data_dir"] = "ok"
	}
	if _, err := os.Stat(s.paths.ReportsDir); err != nil {
		status.Checks["reports_dir"] = "missing (pipeline has not run)"
	} else {
		status.Checks["reports_dir"] = "ok"
	}
	if s.hub != nil {
		status.Checks["websocket"] = "ok"
	}
	return status
}
