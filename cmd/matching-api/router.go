package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lumiere-aesthetics/matching-engine/cmd/matching-api/handlers"
	"github.com/lumiere-aesthetics/matching-engine/cmd/matching-api/middleware"
	"github.com/lumiere-aesthetics/matching-engine/internal/api/rpc"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
)

// Dependencies are the collaborators the router mounts.
type Dependencies struct {
	Logger         *observability.Logger
	Service        *matching.Service
	Records        handlers.RecordStore
	Ready          func(ctx context.Context) error
	RequestTimeout time.Duration
	AllowedOrigins []string
	DefaultKind    candidate.Kind
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 10 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(chimiddleware.Timeout(deps.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"matching-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if deps.Ready != nil {
			if err := deps.Ready(r.Context()); err != nil {
				logger.WithContext(r.Context()).Warn().Err(err).Msg("Readiness check failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	svc := deps.Service
	sessionHandler := handlers.NewSessionHandler(logger, svc, deps.DefaultKind)
	catalogHandler := handlers.NewCatalogHandler(logger, svc.Registry(), svc.Normalizer(), svc.Recommender())

	// Connect service
	path, rpcHandler := rpc.NewHandler(rpc.NewMatchingService(logger, svc))
	r.Handle(path+"*", rpcHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Open)
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Close)
				r.Post("/browse", sessionHandler.Browse)
				r.Post("/candidates/{candidateId}/prefill", sessionHandler.Prefill)
			})
		})

		r.Route("/taxonomy", func(r chi.Router) {
			r.Get("/suggestions", catalogHandler.ListSuggestions)
			r.Get("/suggestions/{name}", catalogHandler.GetSuggestion)
			r.Get("/issues", catalogHandler.ListIssues)
			r.Get("/issues/{name}", catalogHandler.GetIssue)
			r.Get("/areas", catalogHandler.ListAreas)
			r.Get("/treatments", catalogHandler.ListTreatments)
			r.Get("/treatments/{name}", catalogHandler.GetTreatment)
		})

		r.Post("/treatments/normalize", catalogHandler.Normalize)
		r.Get("/recommendations/findings/{finding}", catalogHandler.FindingGoal)
		r.Get("/recommendations/treatments/{treatment}/products", catalogHandler.Products)
		r.Post("/prefill", catalogHandler.Prefill)

		if deps.Records != nil {
			recordHandler := handlers.NewRecordHandler(logger, deps.Records)
			r.Route("/records", func(r chi.Router) {
				r.Get("/", recordHandler.List)
				r.Put("/", recordHandler.Upsert)
				r.Get("/{recordId}", recordHandler.Get)
				r.Delete("/{recordId}", recordHandler.Delete)
			})
		}
	})

	return r
}
