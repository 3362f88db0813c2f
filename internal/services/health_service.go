package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"floorcheck/internal/dataset"
	"floorcheck/pkg/contracts"
)

// VersionStatus is the build description plus process uptime.
type VersionStatus struct {
	contracts.VersionInfo
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`
}

func (v VersionStatus) withBuild(version, buildTime string) VersionStatus {
	if version != "" {
		v.Version = version
	}
	if buildTime != "" {
		v.BuildTime = buildTime
	}
	return v
}

// CacheInspector exposes the dataset cache state.
type CacheInspector interface {
	Path() string
	Stats() dataset.CacheStats
}

// ClientCounter reports connected websocket clients.
type ClientCounter interface {
	ClientCount() int
}

// SessionCounter reports active sessions.
type SessionCounter interface {
	Len() int
}

// HealthService provides health check functionality
type HealthService struct {
	version        string
	buildTime      string
	recipientsFile string
	cache          CacheInspector
	hub            ClientCounter
	sessions       SessionCounter
	startTime      time.Time
	logger         *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds    float64            `json:"uptime_seconds"`
	Dataset          dataset.CacheStats `json:"dataset"`
	WebSocketClients int                `json:"websocket_clients"`
	ActiveSessions   int                `json:"active_sessions"`
	GoVersion        string             `json:"go_version"`
	OS               string             `json:"os"`
	Arch             string             `json:"arch"`
}

// HealthDeps are the components the health service inspects. Nil members are reported as not ready.
type HealthDeps struct {
	Cache          CacheInspector
	Hub            ClientCounter
	Sessions       SessionCounter
	RecipientsFile string
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, deps HealthDeps, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:        version,
		buildTime:      buildTime,
		recipientsFile: deps.RecipientsFile,
		cache:          deps.Cache,
		hub:            deps.Hub,
		sessions:       deps.Sessions,
		startTime:      time.Now(),
		logger:         logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dataset"] = hs.checkDatasetHealth()
	status.Services["recipients"] = hs.checkRecipientsHealth()
	status.Services["websocket"] = hs.checkWebSocketHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version describes the running build.
func (hs *HealthService) Version() VersionStatus {
	return VersionStatus{
		VersionInfo:   contracts.GetVersionInfo(),
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		StartTime:     hs.startTime.Format(time.RFC3339),
	}.withBuild(hs.version, hs.buildTime)
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) SystemStats {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
	if hs.cache != nil {
		stats.Dataset = hs.cache.Stats()
	}
	if hs.hub != nil {
		stats.WebSocketClients = hs.hub.ClientCount()
	}
	if hs.sessions != nil {
		stats.ActiveSessions = hs.sessions.Len()
	}
	return stats
}

// checkDatasetHealth checks that the checklist file is readable
func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.cache == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset cache not initialized"}
	}
	info, err := os.Stat(hs.cache.Path())
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Checklist file unavailable: %v", err),
		}
	}
	if info.IsDir() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Checklist path is a directory: %s", hs.cache.Path()),
		}
	}
	return ServiceHealth{Status: "ready", Message: "Checklist file is readable"}
}

// checkRecipientsHealth checks that the recipients file can be written.
// A missing file is fine as long as its directory exists.
func (hs *HealthService) checkRecipientsHealth() ServiceHealth {
	if hs.recipientsFile == "" {
		return ServiceHealth{Status: "ready", Message: "Recipients file not configured"}
	}
	dir := filepath.Dir(hs.recipientsFile)
	if _, err := os.Stat(dir); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Recipients directory not found: %s", dir),
		}
	}
	return ServiceHealth{Status: "ready", Message: "Recipients store is healthy"}
}

// checkWebSocketHealth checks WebSocket service health
func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "not_ready", Message: "WebSocket hub not initialized"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "WebSocket service is healthy",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
		"stats":     hs.SystemStats(ctx),
	}
}
