package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflprojections/internal/api/respond"
	"github.com/gridironlab/nflprojections/internal/cache"
	"github.com/gridironlab/nflprojections/internal/config"
	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

type stubSource struct {
	name string
	rows []frame.Row
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) LoadRaw(ctx context.Context, q pipeline.Query) (*frame.Frame, error) {
	if s.err != nil {
		return nil, s.err
	}
	return frame.FromRows(s.rows), nil
}

func (s *stubSource) ProcessRaw(f *frame.Frame) (*frame.Frame, error)  { return f, nil }
func (s *stubSource) Standardize(f *frame.Frame) (*frame.Frame, error) { return f, nil }

func newTestRouter(sources map[string]pipeline.Source) *chi.Mux {
	cfg := &config.Config{DefaultSeason: 2021}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(sources, cache.New(true), cfg, logger)

	r := chi.NewRouter()
	r.Get("/api/v1/projections/compare", h.CompareProjections)
	r.Get("/api/v1/projections/{source}", h.GetProjections)
	return r
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp respond.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error.Code
}

func TestGetProjections(t *testing.T) {
	src := &stubSource{name: "espn", rows: []frame.Row{
		{"plyr": "sample player", "pos": "WR", "team": "SF", "proj": 12.5},
		{"plyr": "other player", "pos": "RB", "team": "KC", "proj": 9.1},
	}}
	router := newTestRouter(map[string]pipeline.Source{"espn": src})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/espn?season=2021&week=8", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	var resp projectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "espn", resp.Source)
	assert.Equal(t, 2021, resp.Season)
	assert.Equal(t, 8, resp.Week)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Players, 2)
	assert.Equal(t, "sample player", resp.Players[0]["plyr"])
	assert.Equal(t, 12.5, resp.Players[0]["proj"])
}

func TestGetProjectionsDefaults(t *testing.T) {
	src := &stubSource{name: "espn", rows: []frame.Row{{"plyr": "sample player", "proj": 200.0}}}
	router := newTestRouter(map[string]pipeline.Source{"espn": src})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/espn", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp projectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2021, resp.Season)
	assert.Equal(t, 0, resp.Week)
}

func TestGetProjectionsCaching(t *testing.T) {
	src := &stubSource{name: "espn", rows: []frame.Row{{"plyr": "sample player", "proj": 12.5}}}
	router := newTestRouter(map[string]pipeline.Source{"espn": src})
	url := "/api/v1/projections/espn?season=2021&week=8"

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("If-None-Match", etag)
	third := httptest.NewRecorder()
	router.ServeHTTP(third, req)
	assert.Equal(t, http.StatusNotModified, third.Code)
	assert.Empty(t, third.Body.Bytes())
}

func TestGetProjectionsUnknownSource(t *testing.T) {
	router := newTestRouter(map[string]pipeline.Source{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/yahoo", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "UNKNOWN_SOURCE", errorCode(t, rec.Body.Bytes()))
}

func TestGetProjectionsValidation(t *testing.T) {
	src := &stubSource{name: "espn", rows: []frame.Row{{"plyr": "sample player"}}}
	router := newTestRouter(map[string]pipeline.Source{"espn": src})

	tests := []struct {
		url  string
		code string
	}{
		{"/api/v1/projections/espn?season=abc", "INVALID_SEASON"},
		{"/api/v1/projections/espn?season=1990", "INVALID_SEASON"},
		{"/api/v1/projections/espn?week=abc", "INVALID_WEEK"},
		{"/api/v1/projections/espn?week=19", "INVALID_WEEK"},
		{"/api/v1/projections/espn?week=-1", "INVALID_WEEK"},
		{"/api/v1/projections/espn?randomize=maybe", "INVALID_RANDOMIZE"},
		{"/api/v1/projections/espn?randomize=true", "INVALID_RANDOMIZE"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.url)
		assert.Equal(t, tt.code, errorCode(t, rec.Body.Bytes()), tt.url)
	}
}

func TestGetProjectionsUpstreamError(t *testing.T) {
	src := &stubSource{name: "espn", err: fmt.Errorf("ESPN GET https://example.com returned 503: unavailable")}
	router := newTestRouter(map[string]pipeline.Source{"espn": src})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/espn?week=4", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UPSTREAM_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Detail, "load raw")
	assert.Contains(t, resp.Error.Detail, "returned 503")
}

func TestGetProjectionsRandomize(t *testing.T) {
	// For the band 25-75 of [14, 18, 22] only 18 qualifies, so the sampled
	// dist cell is deterministic.
	src := &stubSource{name: "watson", rows: []frame.Row{
		{"plyr": "qb one", "proj": 17.4, "score_distribution": "[[14, 0.25], [18, 0.5], [22, 0.25]]"},
		{"plyr": "dst one", "proj": 6.8},
	}}
	router := newTestRouter(map[string]pipeline.Source{"watson": src})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/watson?week=4&randomize=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp projectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Columns, "dist")
	assert.NotContains(t, resp.Columns, "score_distribution")
	require.Len(t, resp.Players, 2)
	assert.Equal(t, 18.0, resp.Players[0]["dist"])
	assert.NotContains(t, resp.Players[1], "dist")
}

func TestCompareProjections(t *testing.T) {
	espn := &stubSource{name: "espn", rows: []frame.Row{
		{"plyr": "alpha player", "pos": "WR", "team": "SF", "proj": 12.5},
	}}
	watson := &stubSource{name: "watson", rows: []frame.Row{
		{"plyr": "alpha player", "pos": "WR", "team": "SF", "proj": 14.0},
		{"plyr": "beta player", "pos": "RB", "team": "KC", "proj": 9.0},
	}}
	router := newTestRouter(map[string]pipeline.Source{"espn": espn, "watson": watson})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/compare?season=2021&week=8", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp compareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"espn", "watson"}, resp.Sources)
	assert.Equal(t, []string{"plyr", "pos", "team", "proj_espn", "proj_watson"}, resp.Columns)
	require.Equal(t, 2, resp.Count)

	alpha := resp.Players[0]
	assert.Equal(t, "alpha player", alpha["plyr"])
	assert.Equal(t, 12.5, alpha["proj_espn"])
	assert.Equal(t, 14.0, alpha["proj_watson"])

	beta := resp.Players[1]
	assert.Equal(t, "beta player", beta["plyr"])
	assert.NotContains(t, beta, "proj_espn")
	assert.Equal(t, 9.0, beta["proj_watson"])
}

func TestCompareProjectionsUpstreamError(t *testing.T) {
	espn := &stubSource{name: "espn", rows: []frame.Row{{"plyr": "alpha player"}}}
	watson := &stubSource{name: "watson", err: fmt.Errorf("watson GET returned 500")}
	router := newTestRouter(map[string]pipeline.Source{"espn": espn, "watson": watson})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projections/compare", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_ERROR", errorCode(t, rec.Body.Bytes()))
}
