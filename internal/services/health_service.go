package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// DatasetProbe reports whether the dataset is loaded and how many records
// it holds, without triggering a load.
type DatasetProbe interface {
	Loaded(source string) (records int, ok bool)
}

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dataset   DatasetHealth          `json:"dataset"`
}

// DatasetHealth describes the dataset's readiness.
type DatasetHealth struct {
	Status  string `json:"status"`
	Source  string `json:"source"`
	Records int    `json:"records,omitempty"`
}

// VersionInfo is the version endpoint response.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// HealthService reports liveness and build information.
type HealthService struct {
	version   string
	buildTime string
	source    string
	probe     DatasetProbe
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service. probe may be nil, in which
// case the dataset section reports unknown.
func NewHealthService(version, buildTime, source string, probe DatasetProbe, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		source:    source,
		probe:     probe,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Status assembles the health report. The service itself is always healthy
// when reachable; dataset readiness is reported separately so a cold cache
// does not flap the liveness probe.
func (s *HealthService) Status(ctx context.Context) HealthStatus {
	dataset := DatasetHealth{Status: "unknown", Source: s.source}
	if s.probe != nil {
		if records, ok := s.probe.Loaded(s.source); ok {
			dataset.Status = "loaded"
			dataset.Records = records
		} else {
			dataset.Status = "not_loaded"
		}
	}

	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
		Dataset: dataset,
	}
}

// Version assembles the version report.
func (s *HealthService) Version(ctx context.Context) VersionInfo {
	return VersionInfo{
		Version:   s.version,
		BuildTime: s.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
