package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendcli/internal/batch"
	"trendcli/internal/config"
	"trendcli/internal/exporter"
	"trendcli/internal/infrastructure"
	"trendcli/internal/middleware"
	"trendcli/internal/services"
	handlers "trendcli/internal/transport/http"
	"trendcli/internal/trend"
	"trendcli/internal/validation"
)

// Version identifies the running build.
const Version = "1.0.0"

// Application is the assembled HTTP application: configuration, wired
// services, and the server itself.
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Logger  *slog.Logger
	Service *services.AnalysisService
	History *exporter.HistoryStore
}

// NewApplication loads configuration, initializes logging, and wires the
// analysis service, history store, and HTTP routes.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("version", Version),
		slog.String("mode", cfg.Analysis.Mode),
		slog.Int("port", cfg.Server.Port))

	return newApplication(cfg, logger), nil
}

// newApplication wires an application from already-loaded configuration.
func newApplication(cfg *config.Config, logger *slog.Logger) *Application {
	service := services.NewAnalysisService(batch.Config{
		Mode:           trend.Mode(cfg.Analysis.Mode),
		SlopeThreshold: cfg.Analysis.SlopeThreshold,
		CloseDays:      cfg.Analysis.CloseDays,
		HeaderRows:     cfg.Analysis.HeaderRows,
		SkipRows:       cfg.Analysis.SkipRows,
		ConceptColumn:  cfg.Analysis.ConceptColumn,
	}, logger)

	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir)
	history := exporter.NewHistoryStore(writer, cfg.Paths.HistoryFile)

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Service: service,
		History: history,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app
}

// setupRouter assembles the middleware chain and mounts the API routes.
func (app *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(app.Logger))
	r.Use(middleware.Recoverer(app.Logger))
	if app.Config.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(app.Config.Server.RateLimit.RPS, app.Config.Server.RateLimit.Burst))
	}

	validator := validation.NewFileValidator(app.Logger)
	trendHandler := handlers.NewTrendHandler(app.Service, app.History, validator, app.Config.Server.MaxUploadBytes)
	healthHandler := handlers.NewHealthHandler(Version)

	r.Mount("/api/v1/trend", trendHandler.Routes())
	r.Mount("/api/v1/health", healthHandler.Routes())
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled
// or the server fails, then shuts down gracefully within the configured
// timeout.
func (app *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	app.Logger.Info("Shutting down",
		slog.Duration("timeout", app.Config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	app.Logger.Info("Server stopped")
	return nil
}
