package handler

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridironlab/nflprojections/internal/api/respond"
	"github.com/gridironlab/nflprojections/internal/cache"
	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
	"github.com/gridironlab/nflprojections/internal/watson"
)

// projectionsResponse is the wire shape for a single-source projection set.
type projectionsResponse struct {
	Source  string      `json:"source"`
	Season  int         `json:"season"`
	Week    int         `json:"week"`
	Count   int         `json:"count"`
	Columns []string    `json:"columns"`
	Players []frame.Row `json:"players"`
}

// compareResponse is the wire shape for the cross-source comparison table.
type compareResponse struct {
	Season  int         `json:"season"`
	Week    int         `json:"week"`
	Sources []string    `json:"sources"`
	Count   int         `json:"count"`
	Columns []string    `json:"columns"`
	Players []frame.Row `json:"players"`
}

// GetProjections fetches and standardizes projections from one source.
// @Summary Get projections from a source
// @Description Fetches player projections from the named provider, standardizes team codes, positions and player names, and returns the table. Week 0 returns season totals.
// @Tags projections
// @Produce json
// @Param source path string true "Projection source" Enums(espn, watson)
// @Param season query int false "Season year (defaults to current)"
// @Param week query int false "Week 1-18, or 0 for season totals" default(0)
// @Param randomize query bool false "Sample projections from each player's score distribution (watson only)"
// @Success 200 {object} handler.projectionsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /projections/{source} [get]
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	src, ok := h.sources[name]
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "UNKNOWN_SOURCE",
			fmt.Sprintf("Unknown projection source %q", name))
		return
	}

	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	randomize := false
	if v := r.URL.Query().Get("randomize"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_RANDOMIZE", "randomize must be a boolean")
			return
		}
		randomize = b
	}
	if randomize && name != watson.SourceName {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_RANDOMIZE",
			"randomize is only supported for the watson source")
		return
	}

	ttl := cache.TTLProjections
	cacheKey := fmt.Sprintf("projections:%s:%d:%d:%t", name, q.Season, q.Week, randomize)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	f, err := pipeline.Run(r.Context(), src, q, h.logger)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM_ERROR",
			fmt.Sprintf("Fetching %s projections failed", name), err.Error())
		return
	}

	if randomize {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		f, err = watson.Randomize(f, rng, watson.DefaultPercentileLow, watson.DefaultPercentileHigh)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM_ERROR",
				"Randomizing watson projections failed", err.Error())
			return
		}
	}

	data, err := json.Marshal(projectionsResponse{
		Source:  name,
		Season:  q.Season,
		Week:    q.Week,
		Count:   f.Len(),
		Columns: f.Columns(),
		Players: rowsOrEmpty(f),
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode projections")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// CompareProjections merges all sources into one table keyed by player.
// @Summary Compare projections across sources
// @Description Fetches projections from every registered source for the same season and week, then merges them into one table with a proj_<source> column per provider.
// @Tags projections
// @Produce json
// @Param season query int false "Season year (defaults to current)"
// @Param week query int false "Week 1-18, or 0 for season totals" default(0)
// @Success 200 {object} handler.compareResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /projections/compare [get]
func (h *Handler) CompareProjections(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	ttl := cache.TTLProjections
	cacheKey := fmt.Sprintf("compare:%d:%d", q.Season, q.Week)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	frames := make(map[string]*frame.Frame, len(h.sources))
	for name, src := range h.sources {
		f, err := pipeline.Run(r.Context(), src, q, h.logger)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM_ERROR",
				fmt.Sprintf("Fetching %s projections failed", name), err.Error())
			return
		}
		frames[name] = f
	}

	merged := pipeline.Merge(frames)
	data, err := json.Marshal(compareResponse{
		Season:  q.Season,
		Week:    q.Week,
		Sources: h.sourceNames(),
		Count:   merged.Len(),
		Columns: merged.Columns(),
		Players: rowsOrEmpty(merged),
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode comparison")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// parseQuery reads season and week query parameters, applying defaults and
// writing a 400 on invalid values.
func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request) (pipeline.Query, bool) {
	q := pipeline.Query{Season: h.cfg.DefaultSeason}

	if s := r.URL.Query().Get("season"); s != "" {
		season, err := strconv.Atoi(s)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON", "season must be an integer")
			return pipeline.Query{}, false
		}
		if season < 2000 || season > time.Now().Year()+1 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON",
				fmt.Sprintf("Season must be between 2000 and %d", time.Now().Year()+1))
			return pipeline.Query{}, false
		}
		q.Season = season
	}

	if s := r.URL.Query().Get("week"); s != "" {
		week, err := strconv.Atoi(s)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_WEEK", "week must be an integer")
			return pipeline.Query{}, false
		}
		if week < 0 || week > 18 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_WEEK",
				"Week must be between 0 (season totals) and 18")
			return pipeline.Query{}, false
		}
		q.Week = week
	}

	return q, true
}

// rowsOrEmpty keeps empty tables marshaling as [] instead of null.
func rowsOrEmpty(f *frame.Frame) []frame.Row {
	if rows := f.Rows(); rows != nil {
		return rows
	}
	return []frame.Row{}
}
