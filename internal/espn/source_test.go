package espn

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	fixture, err := os.ReadFile("testdata/espn.json")
	require.NoError(t, err)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2021/segments/0/leaguedefaults/3", r.URL.Path)
		assert.Equal(t, "kona_player_info", r.URL.Query().Get("view"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture)
	}))
}

func fixtureSource(t *testing.T, srv *httptest.Server) *Source {
	t.Helper()
	client := NewClient(srv.URL, 600, 5*time.Second, testLogger())
	return NewSource(client)
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

func TestLoadRawFlattensFixture(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()
	src := fixtureSource(t, srv)

	raw, err := src.LoadRaw(context.Background(), pipeline.Query{Season: 2021, Week: 1})
	require.NoError(t, err)
	require.Equal(t, 5, raw.Len())

	var sample frame.Row
	for _, r := range raw.Rows() {
		if r["source_player_id"] == 1001 {
			sample = r
		}
	}
	require.NotNil(t, sample)
	assert.Equal(t, "Sample Player", sample["source_player_name"])
	assert.Equal(t, 25, sample["source_team_id"])
	assert.Equal(t, "SF", sample["source_team_code"])
	assert.Equal(t, 12.5, sample["source_player_projection"])
	assert.Equal(t, 5.0, sample["rec_rec"])
	assert.Equal(t, 8.0, sample["rec_tar"])
	assert.Equal(t, 61.5, sample["rec_yds"], "numeric strings are coerced")
	assert.False(t, raw.HasColumn("205"), "unknown stat codes never become columns")
}

func TestPipelineEndToEndWeekly(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()
	src := fixtureSource(t, srv)

	out, err := pipeline.Run(context.Background(), src, pipeline.Query{Season: 2021, Week: 1}, testLogger())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{pipeline.ColPosition, pipeline.ColPlayer, "source_player_id", pipeline.ColTeam, pipeline.ColProjection},
		out.Columns())
	require.Equal(t, 5, out.Len())

	sample := rowByName(t, out, "sample player")
	assert.Equal(t, "WR", sample[pipeline.ColPosition])
	assert.Equal(t, "SF", sample[pipeline.ColTeam])
	assert.Equal(t, 12.5, sample[pipeline.ColProjection])
	_, hasStats := sample["rec_rec"]
	assert.False(t, hasStats, "stat columns are cut at process time")

	dst := rowByName(t, out, "sf defense")
	assert.Equal(t, "DST", dst[pipeline.ColPosition])
	assert.Equal(t, 7.0, dst[pipeline.ColProjection])

	noRec := rowByName(t, out, "no record player")
	v, ok := noRec[pipeline.ColProjection]
	assert.True(t, ok)
	assert.Nil(t, v, "no matching stat record leaves a null projection")

	was := rowByName(t, out, "washington player")
	assert.Equal(t, "WAS", was[pipeline.ColTeam])

	snapper := rowByName(t, out, "longshot snapper")
	assert.Equal(t, PositionUnknown, snapper[pipeline.ColPosition])
	assert.Equal(t, "FA", snapper[pipeline.ColTeam])
	assert.Nil(t, snapper[pipeline.ColProjection])
}

func TestPipelineEndToEndSeasonAggregate(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()
	src := fixtureSource(t, srv)

	out, err := pipeline.Run(context.Background(), src, pipeline.Query{Season: 2021, Week: 0}, testLogger())
	require.NoError(t, err)

	sample := rowByName(t, out, "sample player")
	assert.Equal(t, 208.4, sample[pipeline.ColProjection], "week 0 picks the season-aggregate split")

	snapper := rowByName(t, out, "longshot snapper")
	v, ok := snapper[pipeline.ColPosition]
	assert.True(t, ok)
	assert.Nil(t, v, "season variant leaves unmapped positions null")
}

func TestProcessRawMissingMandatoryColumn(t *testing.T) {
	src := NewSource(NewClient("http://unused", 600, time.Second, testLogger()))

	incomplete := frame.FromRows([]frame.Row{{
		"source_player_position": "WR",
		"source_player_name":     "Sample Player",
		"source_player_id":       1001,
		"source_team_code":       "SF",
		// no source_player_projection anywhere
	}})

	_, err := src.ProcessRaw(incomplete)
	require.Error(t, err)
	assert.ErrorIs(t, err, frame.ErrColumnMissing)
	assert.Contains(t, err.Error(), "source_player_projection")
}
