// Package server exposes the dashboard API the persistence layer was
// designed to front: the same tenants/logs/settings resources, served
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/azure-innovate/procheck/auditlog"
	"github.com/azure-innovate/procheck/orchestrator"
	"github.com/azure-innovate/procheck/session"
	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/summary"
)

// Config holds the web API configuration
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Dependencies are the collaborators behind the API
type Dependencies struct {
	Store    storage.Storage
	Orch     *orchestrator.Orchestrator
	Recorder *auditlog.Recorder
	Sessions *session.Manager
	Summary  *summary.Service
	Scoring  Scoring
	Registry *promclient.Registry
}

// WebAPI is the dashboard HTTP server
type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	config Config
}

// NewWebAPI builds the router and server
func NewWebAPI(logger zerolog.Logger, config Config, deps Dependencies) *WebAPI {
	handler := NewHandler(deps.Store, deps.Orch, deps.Recorder, deps.Sessions, deps.Summary, deps.Scoring)

	router := chi.NewRouter()
	router.Use(RequestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/tenants", handler.ListTenants)
		r.Post("/tenants", handler.OnboardTenant)
		r.Get("/tenants/{id}", handler.GetTenant)
		r.Put("/tenants/{id}", handler.UpdateTenant)
		r.Delete("/tenants/{id}", handler.DeleteTenant)
		r.Post("/tenants/{id}/scan", handler.ScanTenant)
		r.Get("/tenants/{id}/resources", handler.TenantResources)
		r.Get("/tenants/{id}/summary", handler.TenantSummary)
		r.Post("/sync", handler.Sync)
		r.Get("/stats", handler.Stats)
		r.Get("/resources", handler.ListResources)
		r.Get("/logs", handler.ListLogs)
		r.Get("/settings", handler.GetSettings)
		r.Put("/settings", handler.SaveSettings)
		r.Get("/engineers", handler.ListEngineers)
		r.Get("/session", handler.CurrentSession)
		r.Post("/session", handler.Login)
		r.Delete("/session", handler.Logout)
		r.Get("/sop", handler.SOP)
		r.Get("/ux", handler.UXFlags)
		r.Post("/ux/guide", handler.DismissGuide)
		r.Post("/ux/tutorials/{page}", handler.DismissTutorial)
	})

	router.Get("/health", handler.Health)
	if deps.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		config: config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Router exposes the mux, for tests
func (w *WebAPI) Router() http.Handler {
	return w.router
}

// Start serves until the context is cancelled, then shuts down gracefully
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
		defer cancel()

		if err := w.server.Shutdown(shutdownCtx); err != nil {
			_ = w.server.Close()
			return err
		}
		return nil
	}
}

// Shutdown stops the server outside of Start's lifecycle
func (w *WebAPI) Shutdown(ctx context.Context) error {
	return w.server.Shutdown(ctx)
}
