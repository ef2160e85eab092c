package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	custommw "salarypulse/internal/middleware"
	"salarypulse/internal/services"
	"salarypulse/pkg/contracts/domain"
)

// DashboardHandler exposes the dashboard API: filter options, queries and
// exports over the loaded salary dataset.
type DashboardHandler struct {
	service      DashboardServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/options", h.GetOptions)
	r.Post("/query", h.Query)
	r.With(custommw.TraceMiddleware("dashboard.export")).Post("/export", h.Export)

	return r
}

// GetOptions handles GET /api/dashboard/options.
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// Query handles POST /api/dashboard/query.
func (h *DashboardHandler) Query(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.decodeCriteria(w, r)
	if !ok {
		return
	}

	result, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if result.NoRowsMatch {
		h.logger.InfoContext(r.Context(), "query matched no rows")
	}
	render.JSON(w, r, result)
}

// Export handles POST /api/dashboard/export. The format query parameter
// selects xlsx (default) or csv; the body carries the filter criteria.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.decodeCriteria(w, r)
	if !ok {
		return
	}

	format := services.ExportExcel
	switch r.URL.Query().Get("format") {
	case "", "xlsx":
	case "csv":
		format = services.ExportCSV
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "Format must be xlsx or csv"))
		return
	}

	filename := fmt.Sprintf("salaries_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	if format == services.ExportExcel {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.service.Export(r.Context(), criteria, format, w); err != nil {
		// Headers may already be on the wire; log rather than render.
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) decodeCriteria(w http.ResponseWriter, r *http.Request) (domain.FilterCriteria, bool) {
	var criteria domain.FilterCriteria
	if err := render.DecodeJSON(r.Body, &criteria); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return criteria, false
	}

	if err := h.validate.Struct(criteria); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]apierrors.ValidationError, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, apierrors.ValidationError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("failed %s validation", fe.Tag()),
				})
			}
			h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors(details))
			return criteria, false
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidationFailed)
		return criteria, false
	}
	return criteria, true
}

func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dataset.ErrSourceUnavailable) {
		custommw.RecordSystemError(r.Context(), "dataset_unavailable", "dashboard")
		h.errorHandler.HandleError(w, r, apierrors.DatasetUnavailableError(err))
		return
	}
	custommw.RecordSystemError(r.Context(), "internal", "dashboard")
	h.errorHandler.HandleError(w, r, err)
}
