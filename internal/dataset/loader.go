package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"salarypulse/internal/config"
	"salarypulse/internal/infrastructure"
	"salarypulse/pkg/contracts/domain"
)

// ErrSourceUnavailable marks a fetch or parse failure at load time. It is
// fatal to the pipeline: callers must halt and surface the cause, never
// substitute a partial or stale table.
var ErrSourceUnavailable = errors.New("dataset source unavailable")

// Loader fetches the salary table from an http(s) URL or a local file path
// and memoizes the normalized result per source for the process lifetime.
// The cache is write-once with no eviction; the source is treated as
// immutable while the process runs.
type Loader struct {
	client       *http.Client
	fetchTimeout time.Duration
	logger       *slog.Logger
	metrics      *infrastructure.BusinessMetrics

	mu    sync.Mutex
	cache map[string]*domain.Table
}

// NewLoader creates a loader. metrics may be nil when observability is not
// wired (the report CLI).
func NewLoader(cfg config.DatasetConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Loader {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = config.DefaultFetchTimeout
	}

	return &Loader{
		client:       &http.Client{Timeout: timeout},
		fetchTimeout: timeout,
		logger:       logger.With(slog.String("component", "dataset_loader")),
		metrics:      metrics,
		cache:        make(map[string]*domain.Table),
	}
}

// Load returns the normalized table for source, fetching and normalizing it
// on the first call and serving the memoized table thereafter.
func (l *Loader) Load(ctx context.Context, source string) (*domain.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if table, ok := l.cache[source]; ok {
		return table, nil
	}

	start := time.Now()

	raw, err := l.fetch(ctx, source)
	if err != nil {
		infrastructure.RecordDatasetLoad(ctx, l.metrics, source, time.Since(start), 0, 0, err)
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	if missing := raw.MissingColumns(); len(missing) > 0 {
		err := fmt.Errorf("%w: source %s is missing columns %s", ErrSourceUnavailable, source, strings.Join(missing, ", "))
		infrastructure.RecordDatasetLoad(ctx, l.metrics, source, time.Since(start), 0, 0, err)
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	table := Normalize(raw)
	dropped := len(raw.Rows) - table.Len()

	l.cache[source] = table

	duration := time.Since(start)
	infrastructure.RecordDatasetLoad(ctx, l.metrics, source, duration, table.Len(), dropped, nil)
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", source),
		slog.Int("records", table.Len()),
		slog.Int("rows_dropped", dropped),
		slog.Duration("duration", duration))

	return table, nil
}

// Loaded reports whether source is already cached, and the cached record
// count. It never triggers a load.
func (l *Loader) Loaded(source string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	table, ok := l.cache[source]
	if !ok {
		return 0, false
	}
	return table.Len(), true
}

// fetch retrieves the raw table, dispatching on source scheme and file type.
func (l *Loader) fetch(ctx context.Context, source string) (*RawTable, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = l.fetchHTTP(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, source, err)
		}
	}
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(source), ".xlsx") {
		return parseExcel(data)
	}
	return parseCSV(data)
}

func (l *Loader) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", ErrSourceUnavailable, source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrSourceUnavailable, source, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %v", ErrSourceUnavailable, source, err)
	}
	return data, nil
}

// parseCSV parses CSV bytes into a raw table. Rows with a deviating field
// count are kept here; normalization drops them via the completeness check.
func parseCSV(data []byte) (*RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", ErrSourceUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: parse csv: no header row", ErrSourceUnavailable)
	}

	return &RawTable{Headers: rows[0], Rows: rows[1:]}, nil
}

// parseExcel reads the first sheet of an xlsx workbook; the first row is
// the header.
func parseExcel(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSourceUnavailable)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrSourceUnavailable, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s has no header row", ErrSourceUnavailable, sheets[0])
	}

	return &RawTable{Headers: rows[0], Rows: rows[1:]}, nil
}
