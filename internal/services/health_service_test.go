package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	records int
	ok      bool
}

func (p stubProbe) Loaded(string) (int, bool) { return p.records, p.ok }

func TestHealthStatusDatasetLoaded(t *testing.T) {
	svc := NewHealthService("1.2.0", "", "test.csv", stubProbe{records: 42, ok: true}, nil)

	status := svc.Status(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.0", status.Version)
	assert.Equal(t, "loaded", status.Dataset.Status)
	assert.Equal(t, 42, status.Dataset.Records)
	assert.Equal(t, "test.csv", status.Dataset.Source)
}

func TestHealthStatusDatasetNotLoaded(t *testing.T) {
	svc := NewHealthService("1.2.0", "", "test.csv", stubProbe{}, nil)

	status := svc.Status(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "not_loaded", status.Dataset.Status)
	assert.Zero(t, status.Dataset.Records)
}

func TestHealthStatusNilProbe(t *testing.T) {
	svc := NewHealthService("1.2.0", "", "test.csv", nil, nil)

	status := svc.Status(context.Background())
	assert.Equal(t, "unknown", status.Dataset.Status)
}

func TestVersionInfo(t *testing.T) {
	svc := NewHealthService("1.2.0", "2026-01-01T00:00:00Z", "test.csv", nil, nil)

	info := svc.Version(context.Background())

	require.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "2026-01-01T00:00:00Z", info.BuildTime)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.OS)
}
