package http

import (
	"context"
	"io"

	"salarypulse/internal/services"
	"salarypulse/pkg/contracts/domain"
)

// DashboardServiceInterface is the service seam of the dashboard handler,
// kept narrow so tests can substitute a stub.
type DashboardServiceInterface interface {
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
	Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryResult, error)
	Export(ctx context.Context, criteria domain.FilterCriteria, format services.ExportFormat, w io.Writer) error
}
