package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"salarypulse/internal/dataprocessing"
	apperrors "salarypulse/internal/errors"
	"salarypulse/internal/exporter"
	"salarypulse/internal/infrastructure"
	"salarypulse/internal/insights"
	"salarypulse/pkg/contracts/domain"
)

// DatasetLoader loads and memoizes the normalized table for a source.
type DatasetLoader interface {
	Load(ctx context.Context, source string) (*domain.Table, error)
}

// ExportFormat selects the file format of an export.
type ExportFormat string

const (
	ExportExcel ExportFormat = "xlsx"
	ExportCSV   ExportFormat = "csv"
)

// Views bundles every aggregation over one filtered subset. Absent views
// (empty subset, missing precondition) marshal as null.
type Views struct {
	TopTitles             []dataprocessing.TitleMean      `json:"top_titles"`
	Histogram             []dataprocessing.HistogramBin   `json:"histogram"`
	WorkModeCounts        []dataprocessing.WorkModeCount  `json:"work_mode_counts"`
	CountryMeans          []dataprocessing.CountryMean    `json:"country_means"`
	SeniorityDistribution []dataprocessing.SeniorityStats `json:"seniority_distribution"`
	YearlyTrend           []dataprocessing.YearStats      `json:"yearly_trend"`
	WorkModePay           []dataprocessing.WorkModeMean   `json:"work_mode_pay"`
}

// QueryResult is the full dashboard payload for one criteria set.
type QueryResult struct {
	Records      []domain.SalaryRecord   `json:"records"`
	ExtraColumns []string                `json:"extra_columns,omitempty"`
	Snapshot     dataprocessing.Snapshot `json:"snapshot"`
	Insights     []insights.Insight      `json:"insights"`
	Views        Views                   `json:"views"`

	// NoRowsMatch distinguishes "nothing matched the criteria" from a
	// subset whose salaries happen to be zero.
	NoRowsMatch bool `json:"no_rows_match"`
}

// DashboardService orchestrates the analysis pipeline for one dataset
// source: load, filter, summarize, derive insights and views, export.
type DashboardService struct {
	loader  DatasetLoader
	source  string
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewDashboardService creates a dashboard service for the given source. A
// nil metrics bundle disables instrumentation.
func NewDashboardService(loader DatasetLoader, source string, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		loader:  loader,
		source:  source,
		logger:  logger.With(slog.String("component", "dashboard_service")),
		metrics: metrics,
	}
}

// Warm loads the dataset so the first request does not pay the fetch cost.
func (s *DashboardService) Warm(ctx context.Context) error {
	_, err := s.loader.Load(ctx, s.source)
	return err
}

// FilterOptions returns the observed domain of every filterable field, used
// by the UI to default each filter to the full domain.
func (s *DashboardService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	table, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	full := domain.AllOf(table)
	return &domain.FilterOptions{
		Years:           full.Years,
		Seniorities:     full.Seniorities,
		EmploymentTypes: full.EmploymentTypes,
		CompanySizes:    full.CompanySizes,
		JobTitles:       table.DistinctStrings(func(r domain.SalaryRecord) string { return r.JobTitle }),
	}, nil
}

// Query applies the criteria and assembles the complete dashboard payload.
// An empty match is a valid result, flagged via NoRowsMatch.
func (s *DashboardService) Query(ctx context.Context, criteria domain.FilterCriteria) (*QueryResult, error) {
	start := time.Now()

	table, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	filtered := dataprocessing.Filter(table, criteria)
	snapshot := dataprocessing.ComputeSnapshot(filtered)

	result := &QueryResult{
		Records:      filtered.Records,
		ExtraColumns: filtered.ExtraColumns,
		Snapshot:     snapshot,
		Insights:     insights.Generate(filtered, snapshot),
		Views: Views{
			TopTitles:             dataprocessing.TopTitles(filtered),
			Histogram:             dataprocessing.Histogram(filtered),
			WorkModeCounts:        dataprocessing.WorkModeCounts(filtered),
			CountryMeans:          dataprocessing.CountryMeans(filtered),
			SeniorityDistribution: dataprocessing.SeniorityDistribution(filtered),
			YearlyTrend:           dataprocessing.YearlyTrend(filtered),
			WorkModePay:           dataprocessing.WorkModePay(filtered),
		},
		NoRowsMatch: filtered.Empty(),
	}

	infrastructure.RecordDashboardQuery(ctx, s.metrics, time.Since(start), filtered.Len())
	s.logger.InfoContext(ctx, "dashboard query completed",
		slog.Int("matched", filtered.Len()),
		slog.Int("total", table.Len()),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// Export writes the filtered subset to w in the requested format. Excel
// exports include the metric panel and insights on a summary sheet.
func (s *DashboardService) Export(ctx context.Context, criteria domain.FilterCriteria, format ExportFormat, w io.Writer) error {
	start := time.Now()

	table, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	filtered := dataprocessing.Filter(table, criteria)
	snapshot := dataprocessing.ComputeSnapshot(filtered)

	switch format {
	case ExportExcel:
		findings := insights.Generate(filtered, snapshot)
		if err := exporter.WriteWorkbook(w, filtered, snapshot, findings); err != nil {
			return apperrors.NewExportError("workbook export failed", err).WithContext("format", string(format))
		}
	case ExportCSV:
		if err := exporter.WriteCSV(w, filtered, exporter.CSVOptions{BOMPrefix: true}); err != nil {
			return apperrors.NewExportError("csv export failed", err).WithContext("format", string(format))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	infrastructure.RecordExport(ctx, s.metrics, string(format), time.Since(start))
	s.logger.InfoContext(ctx, "export completed",
		slog.String("format", string(format)),
		slog.Int("records", filtered.Len()),
		slog.Duration("duration", time.Since(start)))

	return nil
}
