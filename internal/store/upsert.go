package store

import (
	"context"
	"encoding/json"

	"github.com/gridironlab/nflprojections/internal/config"
	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

// UpsertProjections writes every row of a standardized frame to the
// projections table, keyed by (source, season, week, player). Rows without a
// player name are recorded as errors and skipped; the run keeps going.
func UpsertProjections(ctx context.Context, pool *Pool, source string, q pipeline.Query, f *frame.Frame) Result {
	var res Result
	for i, row := range f.Rows() {
		plyr, _ := row[pipeline.ColPlayer].(string)
		if plyr == "" {
			res.AddErrorf("row %d: missing player name", i)
			continue
		}

		stats, err := json.Marshal(extraStats(row))
		if err != nil {
			res.AddErrorf("row %d (%s): marshal stats: %v", i, plyr, err)
			continue
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO `+config.ProjectionsTable+` (
				source, season, week, plyr, pos, team, proj, stats
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (source, season, week, plyr) DO UPDATE SET
				pos = EXCLUDED.pos,
				team = EXCLUDED.team,
				proj = EXCLUDED.proj,
				stats = EXCLUDED.stats,
				updated_at = NOW()`,
			source, q.Season, q.Week, plyr,
			nilEmpty(cellString(row, pipeline.ColPosition)),
			nilEmpty(cellString(row, pipeline.ColTeam)),
			floatOrNil(row[pipeline.ColProjection]),
			stats,
		)
		if err != nil {
			res.AddErrorf("row %d (%s): %v", i, plyr, err)
			continue
		}
		res.RowsUpserted++
	}
	return res
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// extraStats collects every non-canonical cell for the jsonb stats column.
// Always returns a non-nil map so an empty row marshals as {}.
func extraStats(row frame.Row) map[string]interface{} {
	extra := map[string]interface{}{}
	for k, v := range row {
		switch k {
		case pipeline.ColPlayer, pipeline.ColPosition, pipeline.ColTeam, pipeline.ColProjection:
			continue
		}
		extra[k] = v
	}
	return extra
}

// cellString reads a string cell, mapping absent and non-string cells to "".
func cellString(row frame.Row, col string) string {
	s, _ := row[col].(string)
	return s
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// floatOrNil coerces a projection cell to float64, mapping absent, null and
// non-numeric cells to SQL NULL.
func floatOrNil(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	f, err := frame.Float(v)
	if err != nil {
		return nil
	}
	return f
}
