package watson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflprojections/internal/cache"
	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

func fixtureServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	fixtures := map[string]string{
		"/players/players_ESPNFantasyFootball_2021.json":             "testdata/players.json",
		"/projections/projections_101_ESPNFantasyFootball_2021.json": "testdata/projection_101.json",
		"/projections/projections_102_ESPNFantasyFootball_2021.json": "testdata/projection_102.json",
	}
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		path, ok := fixtures[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		body, err := os.ReadFile(path)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	return srv, &hits
}

func rowByName(t *testing.T, f *frame.Frame, name string) frame.Row {
	t.Helper()
	for _, r := range f.Rows() {
		if r[pipeline.ColPlayer] == name {
			return r
		}
	}
	t.Fatalf("no row for player %q", name)
	return nil
}

func TestLoadRawMergesPlayerAndProjection(t *testing.T) {
	srv, _ := fixtureServer(t)
	defer srv.Close()
	src := NewSource(testClient(srv, cache.New(false)), testLogger())

	raw, err := src.LoadRaw(context.Background(), pipeline.Query{Season: 2021, Week: 1})
	require.NoError(t, err)
	require.Equal(t, 2, raw.Len())

	var qb frame.Row
	for _, r := range raw.Rows() {
		if r["PLAYERID"] == float64(101) {
			qb = r
		}
	}
	require.NotNil(t, qb)
	assert.Equal(t, "Watson Player", qb["FULL_NAME"])
	assert.Equal(t, 17.4, qb["SCORE_PROJECTION"], "last projection snapshot wins")
	assert.Equal(t, 21.5, qb["OUTSIDE_PROJECTION"], "projection keys override player keys")
	assert.Equal(t, "2021-09-08 10:02:11", qb["DATA_TIMESTAMP"])
	assert.Equal(t, float64(1), qb["EVENT_WEEK"])
}

func TestLoadRawUsesLastRosterSnapshot(t *testing.T) {
	srv, _ := fixtureServer(t)
	defer srv.Close()
	src := NewSource(testClient(srv, cache.New(false)), testLogger())

	raw, err := src.LoadRaw(context.Background(), pipeline.Query{Season: 2021, Week: 1})
	require.NoError(t, err)

	var dst frame.Row
	for _, r := range raw.Rows() {
		if r["PLAYERID"] == float64(102) {
			dst = r
		}
	}
	require.NotNil(t, dst)
	assert.Equal(t, "WSH", dst["OPPONENT_NAME"], "latest snapshot's opponent")
	assert.Equal(t, float64(6), dst["CURRENT_RANK"])
}

func TestPipelineEndToEnd(t *testing.T) {
	srv, _ := fixtureServer(t)
	defer srv.Close()
	src := NewSource(testClient(srv, cache.New(false)), testLogger())

	out, err := pipeline.Run(context.Background(), src, pipeline.Query{Season: 2021, Week: 1}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, wantedColumns, out.Columns())
	require.Equal(t, 2, out.Len())

	qb := rowByName(t, out, "watson player")
	assert.Equal(t, "QB", qb[pipeline.ColPosition])
	assert.Equal(t, "KC", qb[pipeline.ColTeam])
	assert.Equal(t, "LV", qb["opp"], "relocated franchise alias folds on the opponent column")
	assert.Equal(t, 17.4, qb[pipeline.ColProjection])
	assert.Equal(t, float64(2021), qb["season"])
	assert.Equal(t, float64(1), qb["week"])
	assert.Equal(t, 18.1, qb["simulation_projection"])

	dst := rowByName(t, out, "sf defense")
	assert.Equal(t, "DST", dst[pipeline.ColPosition])
	assert.Equal(t, "SF", dst[pipeline.ColTeam])
	assert.Equal(t, "WAS", dst["opp"])
	assert.Equal(t, 6.8, dst[pipeline.ColProjection])
	_, hasSim := dst["simulation_projection"]
	assert.False(t, hasSim, "keys the provider omitted stay absent")
}

func TestLoadRawReusesCachedDocuments(t *testing.T) {
	srv, hits := fixtureServer(t)
	defer srv.Close()
	src := NewSource(testClient(srv, cache.New(true)), testLogger())

	_, err := src.LoadRaw(context.Background(), pipeline.Query{Season: 2021, Week: 1})
	require.NoError(t, err)
	firstRun := *hits
	assert.Equal(t, 3, firstRun)

	_, err = src.LoadRaw(context.Background(), pipeline.Query{Season: 2021, Week: 1})
	require.NoError(t, err)
	assert.Equal(t, firstRun, *hits, "second load must be served from cache")
}

func TestLoadRawFailsOnMissingProjectionDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/players/players_ESPNFantasyFootball_2021.json" {
			body, err := os.ReadFile("testdata/players.json")
			require.NoError(t, err)
			w.Write(body)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	src := NewSource(testClient(srv, cache.New(false)), testLogger())

	_, err := src.LoadRaw(context.Background(), pipeline.Query{Season: 2021, Week: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 404")
}

func TestProcessRawMissingMandatoryColumn(t *testing.T) {
	src := NewSource(NewClient("http://unused", 600, time.Second, nil, testLogger()), testLogger())

	// raw rows without SCORE_PROJECTION anywhere
	incomplete := frame.FromRows([]frame.Row{{
		"EVENT_WEEK":            float64(1),
		"OPPONENT_NAME":         "LV",
		"EVENT_YEAR":            float64(2021),
		"FULL_NAME":             "Watson Player",
		"POSITION":              "QB",
		"TEAM":                  "KC",
		"OUTSIDE_PROJECTION":    21.5,
		"SCORE_DISTRIBUTION":    "[]",
		"LOW_SCORE":             10.2,
		"HIGH_SCORE":            25.9,
		"SIMULATION_PROJECTION": 18.1,
	}})

	_, err := src.ProcessRaw(incomplete)
	require.Error(t, err)
	assert.ErrorIs(t, err, frame.ErrColumnMissing)
	assert.Contains(t, err.Error(), "proj")
}
