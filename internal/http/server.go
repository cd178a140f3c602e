package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gountain/catalog/internal/cache"
	"github.com/gountain/catalog/internal/catalog"
	"github.com/gountain/catalog/internal/domain"
	"github.com/gountain/catalog/internal/metrics"
	"github.com/gountain/catalog/internal/readiness"
	"github.com/gountain/catalog/internal/storage"
)

type Server struct {
	Repo        Repository
	Engine      *catalog.Engine
	Cache       cache.Cache
	Logger      *zap.Logger
	Limiter     *rate.Limiter
	MapboxToken string
	BuildID     string
}

func NewServer(engine *catalog.Engine, repo Repository) *Server {
	return &Server{
		Repo:    repo,
		Engine:  engine,
		Cache:   cache.NopCache{},
		Logger:  zap.NewNop(),
		BuildID: "dev",
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/env", s.handleEnv)
	mux.HandleFunc("GET /destinations", s.handleDestinationsList)
	mux.HandleFunc("POST /destinations", s.handleDestinationsCreate)
	mux.HandleFunc("GET /destinations/{id}", s.handleDestinationsGet)
	mux.HandleFunc("DELETE /destinations/{id}", s.handleDestinationsDelete)
	mux.HandleFunc("GET /destinations.geojson", s.handleGeoJSON)
	mux.HandleFunc("GET /bounds", s.handleBounds)
	mux.HandleFunc("GET /facets", s.handleFacets)
	mux.HandleFunc("POST /readiness", s.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	return instrument(s.Logger, limit(s.Limiter, mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "build": s.BuildID})
}

// handleEnv exposes the public map token to the browser.
func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"MAPBOX_TOKEN": s.MapboxToken})
}

// filtered parses the filter query and loads the matching destinations.
// It writes the error response itself and returns ok=false on failure.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request) ([]domain.Destination, bool) {
	f, err := ParseFilterState(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return nil, false
	}
	list, err := s.Repo.Filter(r.Context(), f)
	if err != nil {
		s.Logger.Error("filter destinations", zap.Error(err))
		internalError(w, r)
		return nil, false
	}
	return list, true
}

func (s *Server) handleDestinationsList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 50, 0)
	f, err := ParseFilterState(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	items, total, err := s.Repo.List(r.Context(), f, limit, offset)
	if err != nil {
		s.Logger.Error("list destinations", zap.Error(err))
		internalError(w, r)
		return
	}
	if items == nil {
		items = []domain.Destination{}
	}

	writeJSON(w, http.StatusOK, domain.ListResult{
		Limit:  limit,
		Offset: min(offset, total),
		Total:  total,
		Items:  items,
	})
}

func (s *Server) handleDestinationsGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := s.Repo.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		notFound(w, r, "no destination with id "+id)
		return
	}
	if err != nil {
		s.Logger.Error("get destination", zap.String("id", id), zap.Error(err))
		internalError(w, r)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDestinationsCreate(w http.ResponseWriter, r *http.Request) {
	var d domain.Destination
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		badRequest(w, r, "invalid JSON")
		return
	}

	// minimal validation
	if d.Name == "" || d.Continent == "" {
		badRequest(w, r, "nombre and continente are required")
		return
	}
	if d.Coords != nil && len(d.Coords) != 2 {
		badRequest(w, r, "coords must be [lat, lng]")
		return
	}

	created, err := s.Repo.Create(r.Context(), d)
	if errors.Is(err, storage.ErrExists) {
		conflict(w, r, "destination id already in use")
		return
	}
	if err != nil {
		s.Logger.Error("create destination", zap.Error(err))
		internalError(w, r)
		return
	}
	s.invalidate(r.Context())
	s.Logger.Info("destination created", zap.String("id", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDestinationsDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := s.Repo.Delete(r.Context(), id)
	if err != nil {
		s.Logger.Error("delete destination", zap.String("id", id), zap.Error(err))
		internalError(w, r)
		return
	}
	if !ok {
		notFound(w, r, "no destination with id "+id)
		return
	}
	s.invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilterState(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	key := cacheKey("geojson", f)
	if b, err := s.Cache.Get(r.Context(), key); err == nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		writeRaw(w, "application/geo+json", b)
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		s.Logger.Warn("cache get", zap.String("key", key), zap.Error(err))
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	list, err := s.Repo.Filter(r.Context(), f)
	if err != nil {
		s.Logger.Error("filter destinations", zap.Error(err))
		internalError(w, r)
		return
	}
	b, err := json.Marshal(s.Engine.BuildGeo(list))
	if err != nil {
		internalError(w, r)
		return
	}
	if err := s.Cache.Set(r.Context(), key, b); err != nil {
		s.Logger.Warn("cache set", zap.String("key", key), zap.Error(err))
	}
	writeRaw(w, "application/geo+json", b)
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	list, ok := s.filtered(w, r)
	if !ok {
		return
	}
	b := catalog.ComputeBounds(list)
	if b == nil {
		notFound(w, r, "no destinations with coordinates match the filters")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	list, err := s.Repo.Filter(r.Context(), catalog.FilterState{})
	if err != nil {
		s.Logger.Error("load destinations", zap.Error(err))
		internalError(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.Engine.Facets(list))
}

type ReadinessRequest struct {
	Route readiness.RouteAttributes `json:"route"`
	User  readiness.UserAttributes  `json:"user"`
}

type ReadinessResponse struct {
	readiness.Result
	Color string `json:"color"`
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	var req ReadinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid JSON")
		return
	}
	res := readiness.Compute(req.Route, req.User)
	metrics.ReadinessScores.WithLabelValues(res.State).Inc()
	writeJSON(w, http.StatusOK, ReadinessResponse{Result: res, Color: readiness.StateColor(res.State)})
}

func (s *Server) invalidate(ctx context.Context) {
	if err := s.Cache.Flush(ctx); err != nil {
		s.Logger.Warn("cache flush", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
