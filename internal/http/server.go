// Package http exposes the REST API: CRUD over the five collections,
// summary and breakdown aggregation, subscription posting, and the
// inbound payment-acknowledgement webhooks.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// BreakdownExporter pushes a month's breakdown rows to an external
// spreadsheet.
type BreakdownExporter interface {
	ExportBreakdown(ctx context.Context, month string, rows []core.SheetRow) error
}

// Server is the HTTP API over the record store and services.
type Server struct {
	store      store.Store
	poster     *services.Poster
	acker      *services.Acknowledger
	exporter   BreakdownExporter
	lineSecret string
	router     chi.Router
}

// Options carries the optional collaborators: a nil exporter disables
// the breakdown export endpoint.
type Options struct {
	Exporter   BreakdownExporter
	LineSecret string
}

func NewServer(st store.Store, opts Options) *Server {
	s := &Server{
		store:      st,
		poster:     services.NewPoster(st),
		acker:      services.NewAcknowledger(st),
		exporter:   opts.Exporter,
		lineSecret: opts.LineSecret,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/reset", s.handleReset)

	r.Post("/accounts", s.handleCreateAccount)
	r.Get("/accounts", s.handleListAccounts)

	r.Post("/categories", s.handleCreateCategory)
	r.Get("/categories", s.handleListCategories)

	r.Post("/transactions", s.handleCreateTransaction)
	r.Get("/transactions", s.handleListTransactions)

	r.Get("/summary", s.handleSummary)
	r.Get("/breakdown/{month}", s.handleBreakdown)
	r.Post("/breakdown/{month}/export", s.handleBreakdownExport)

	r.Post("/subscriptions", s.handleCreateSubscription)
	r.Get("/subscriptions", s.handleListSubscriptions)
	r.Post("/subscriptions/post", s.handlePostDue)

	r.Post("/networth", s.handleCreateNetWorth)
	r.Get("/networth", s.handleListNetWorth)

	r.Post("/webhooks/twilio", s.handleTwilioWebhook)
	r.Post("/webhooks/line", s.handleLineWebhook)

	return r
}

// Run serves the API on the given port until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}
