// Package http exposes the reconciliation and scoring API plus the
// operational health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
	"github.com/hallsgap-landcare/weed-priority-service/internal/reconcile"
	"github.com/hallsgap-landcare/weed-priority-service/internal/scoring"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// IndexProvider hands out the currently serving reconciliation index, or
// nil before the first build.
type IndexProvider interface {
	Index() *reconcile.Index
}

// Server exposes the species and scoring API.
type Server struct {
	httpServer *http.Server
	provider   IndexProvider
	finder     domain.PhotoFinder
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the API server. finder may be nil to disable photo
// enrichment on single-species lookups.
func NewServer(addr string, provider IndexProvider, ready ReadinessChecker, finder domain.PhotoFinder, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		provider: provider,
		finder:   finder,
		logger:   logger,
		metrics:  metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/weeds", s.handleListWeeds)
		r.Get("/weeds/{name}", s.handleGetWeed)
		r.Get("/categories", s.handleCategories)
		r.Post("/score", s.handleScore)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// index returns the serving index or writes a 503 and returns nil.
func (s *Server) index(w http.ResponseWriter) *reconcile.Index {
	ix := s.provider.Index()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, "index not built yet")
	}
	return ix
}

func (s *Server) handleListWeeds(w http.ResponseWriter, _ *http.Request) {
	ix := s.index(w)
	if ix == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeds": ix.Weeds()})
}

func (s *Server) handleGetWeed(w http.ResponseWriter, r *http.Request) {
	ix := s.index(w)
	if ix == nil {
		return
	}

	name := chi.URLParam(r, "name")
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	rec, err := ix.Resolve(name)
	if errors.Is(err, reconcile.ErrUnresolvableName) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("resolve failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "resolve failed")
		return
	}

	rec = domain.EnrichWithPhoto(r.Context(), rec, s.finder, s.logger)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"impact":       domain.ImpactCategories,
		"invasiveness": domain.InvasivenessCategories,
	})
}

// scoreRequest is the body of POST /api/score. Weights defaults to an even
// spread when omitted; selectedCategories nil means every impact category
// is in play.
type scoreRequest struct {
	Candidates         []domain.PriorityCandidate `json:"candidates"`
	Weights            *scoring.Weights           `json:"weights,omitempty"`
	SelectedCategories []string                   `json:"selectedCategories,omitempty"`
	SortBy             string                     `json:"sortBy,omitempty"`
}

type scoreResponse struct {
	Candidates []scoring.ScoredCandidate `json:"candidates"`
	Weights    scoring.Weights           `json:"weights"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	ix := s.index(w)
	if ix == nil {
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "candidates is required")
		return
	}

	weights := scoring.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	var selected map[string]bool
	if req.SelectedCategories != nil {
		selected = make(map[string]bool, len(req.SelectedCategories))
		for _, id := range req.SelectedCategories {
			selected[id] = true
		}
	}

	sortBy := scoring.SortFinal
	if req.SortBy == string(scoring.SortFinalUnweighted) {
		sortBy = scoring.SortFinalUnweighted
	}

	start := time.Now()
	scored := make([]scoring.ScoredCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		// Candidates typed as scientific names score under the common name.
		if canonical, ok := ix.ResolveCommonName(c.Name); ok {
			c.Name = canonical
		}
		rec, err := ix.Resolve(c.Name)
		if errors.Is(err, reconcile.ErrUnresolvableName) {
			writeError(w, http.StatusBadRequest, "unresolvable candidate name: "+c.Name)
			return
		}
		if err != nil {
			s.logger.Error("resolve failed during scoring", "name", c.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "resolve failed")
			return
		}

		sc := scoring.ScoreCandidate(c, rec, selected, weights)
		for _, gap := range sc.Scores.KnowledgeGaps {
			s.metrics.KnowledgeGaps.WithLabelValues(gap).Inc()
		}
		scored = append(scored, sc)
	}
	scoring.Rank(scored, sortBy)

	s.metrics.ScoreRequests.Inc()
	s.metrics.ScoreDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, scoreResponse{Candidates: scored, Weights: weights})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
