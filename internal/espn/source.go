package espn

import (
	"context"

	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

// SourceName identifies this provider in logs, storage, and API paths.
const SourceName = "espn"

// wantedColumns are the provider-native columns that survive ProcessRaw, in
// output order. Everything else the flattener produced (raw team ids, the
// per-stat columns) is dropped here.
var wantedColumns = []string{
	"source_player_position",
	"source_player_name",
	"source_player_id",
	"source_team_code",
	"source_player_projection",
}

var columnMapping = map[string]string{
	"source_player_position":   pipeline.ColPosition,
	"source_player_projection": pipeline.ColProjection,
	"source_team_code":         pipeline.ColTeam,
	"source_player_name":       pipeline.ColPlayer,
}

// teamPrealias folds ESPN-only team spellings before the shared
// standardizer runs.
var teamPrealias = map[string]string{
	"WSH": "WAS",
}

// Source adapts the ESPN fantasy API to the projection pipeline.
type Source struct {
	client *Client
}

// NewSource wraps a client as a pipeline source.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Name implements pipeline.Source.
func (s *Source) Name() string { return SourceName }

// LoadRaw fetches the season's kona_player_info payload and flattens it.
// Week 0 selects the season-aggregate split, which also leaves unmapped
// position ids null instead of labeling them UNK.
func (s *Source) LoadRaw(ctx context.Context, q pipeline.Query) (*frame.Frame, error) {
	resp, err := s.client.Projections(ctx, q.Season)
	if err != nil {
		return nil, err
	}

	parser := NewParser(q.Season, q.Week)
	var rows []frame.Row
	if q.SeasonAggregate() {
		rows, err = parser.SeasonRows(resp)
	} else {
		rows, err = parser.WeeklyRows(resp)
	}
	if err != nil {
		return nil, err
	}
	return frame.FromRows(rows), nil
}

// ProcessRaw cuts the raw frame down to the canonical vocabulary. A wanted
// column missing from every row means the provider changed shape on us, and
// that surfaces as an error.
func (s *Source) ProcessRaw(f *frame.Frame) (*frame.Frame, error) {
	sel, err := f.Select(wantedColumns...)
	if err != nil {
		return nil, err
	}
	return sel.Rename(columnMapping), nil
}

// Standardize canonicalizes team codes, then positions, then player names.
func (s *Source) Standardize(f *frame.Frame) (*frame.Frame, error) {
	pipeline.StandardizeTeams(f, pipeline.ColTeam, teamPrealias)
	pipeline.StandardizePositions(f, pipeline.ColPosition)
	pipeline.StandardizePlayers(f)
	return f, nil
}
