package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"salarypulse/internal/config"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
	"salarypulse/internal/infrastructure"
	custommw "salarypulse/internal/middleware"
	"salarypulse/internal/services"
	handlers "salarypulse/internal/transport/http"
)

// BuildTime is set at compile time via -ldflags.
var BuildTime = ""

// Application is the composition root: it owns every long-lived component
// and the HTTP server.
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Loader           *dataset.Loader
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
}

// NewApplication loads configuration and assembles the full dependency
// graph. It does not start the server.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("dataset_source", cfg.Dataset.Source))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize OpenTelemetry: %w", err)
	}

	otelMiddleware, err := custommw.NewOTelMiddleware(otelProviders)
	if err != nil {
		return nil, fmt.Errorf("initialize OTel middleware: %w", err)
	}
	businessMetrics := otelMiddleware.BusinessMetrics()

	loader := dataset.NewLoader(cfg.Dataset, logger, businessMetrics)
	dashboardService := services.NewDashboardService(loader, cfg.Dataset.Source, logger, businessMetrics)
	healthService := services.NewHealthService(config.AppVersion, BuildTime, cfg.Dataset.Source, loader, logger)

	app := &Application{
		Config:           cfg,
		Logger:           logger,
		OTelProviders:    otelProviders,
		Loader:           loader,
		DashboardService: dashboardService,
		HealthService:    healthService,
	}
	app.Router = app.setupRouter(otelMiddleware, businessMetrics)
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (a *Application) setupRouter(otelMiddleware *custommw.OTelMiddleware, businessMetrics *infrastructure.BusinessMetrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StripSlashes)
	r.Use(otelMiddleware.Handler)
	r.Use(custommw.BusinessMetricsMiddleware(businessMetrics))
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins:   a.Config.Security.AllowedOrigins,
			AllowCredentials: true,
			Logger:           a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))
		r.Use(apierrors.NewErrorMiddleware(errorHandler, a.Logger).Handler)

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Mount("/dashboard", dashboardHandler.Routes())
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	return r
}

// Run starts the server and blocks until an interrupt signal or a fatal
// server error, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if a.Config.Dataset.WarmOnStart {
		g.Go(func() error {
			warmCtx, cancel := context.WithTimeout(infrastructure.EnsureTraceID(ctx), a.Config.Dataset.FetchTimeout)
			defer cancel()

			if err := a.DashboardService.Warm(warmCtx); err != nil {
				// Not fatal: the first request retries the load.
				a.Logger.WarnContext(ctx, "dataset warm-up failed",
					slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		a.Logger.Info("server listening",
			slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop drains the server and flushes telemetry within the configured
// shutdown timeout.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown failed",
				slog.String("error", err.Error()))
		}
	}

	infrastructure.CloseLogFile()
	a.Logger.InfoContext(ctx, "application stopped")
	return nil
}

// WaitUntilReady polls the health endpoint until the server answers or the
// timeout elapses. Used by tests and the launcher.
func (a *Application) WaitUntilReady(timeout time.Duration) error {
	url := fmt.Sprintf("http://localhost:%d/api/health", a.Config.Server.Port)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %s", timeout)
}
