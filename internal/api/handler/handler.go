// Package handler provides HTTP handlers for all API endpoints.
// Handlers run the projection pipeline against the registered sources and
// cache marshaled responses with ETags.
package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gridironlab/nflprojections/internal/api/respond"
	"github.com/gridironlab/nflprojections/internal/cache"
	"github.com/gridironlab/nflprojections/internal/config"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	sources map[string]pipeline.Source
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(sources map[string]pipeline.Source, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		sources: sources,
		cache:   c,
		cfg:     cfg,
		logger:  logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and registered projection sources.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "NFL Projections API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"sources": h.sourceNames(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) sourceNames() []string {
	names := make([]string, 0, len(h.sources))
	for name := range h.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
