// Package ui exposes the matching engine over a small JSON API: submit
// a batch, fetch its result, and render its report. The rendered report
// is the only HTML it serves; there is no HTML UI and no authentication.
package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gomatch/app"
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/internal"
	"gomatch/ports"
)

// Server wires the batch API over one loaded cohort
type Server struct {
	service *app.MatchService
	batches ports.BatchRepository
	source  ports.RespondentSource
	cat     *catalog.Catalog
	cfg     match.Config
	logger  *internal.Logger
}

// NewServer creates the API server
func NewServer(service *app.MatchService, batches ports.BatchRepository, source ports.RespondentSource, cat *catalog.Catalog, cfg match.Config) *Server {
	return &Server{
		service: service,
		batches: batches,
		source:  source,
		cat:     cat,
		cfg:     cfg,
		logger:  internal.DefaultLogger.Component("Server"),
	}
}

// Router builds the chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/batches", s.handleRunBatch)
		r.Get("/batches", s.handleListBatches)
		r.Get("/batches/{batchID}", s.handleGetBatch)
		r.Get("/batches/{batchID}/report", s.handleBatchReport)
		r.Post("/validate", s.handleValidate)
	})
	return r
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening on %s", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
