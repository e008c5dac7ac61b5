package watson

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/pipeline"
)

// SourceName identifies this provider in logs, storage, and API paths.
const SourceName = "watson"

// columnMapping renames Watson's uppercase snapshot keys into the canonical
// vocabulary. Renaming happens before selection here, the reverse of the
// ESPN source, because the wanted list below is written in canonical terms.
var columnMapping = map[string]string{
	"EVENT_WEEK":            "week",
	"OPPONENT_NAME":         "opp",
	"EVENT_YEAR":            "season",
	"FULL_NAME":             pipeline.ColPlayer,
	"POSITION":              pipeline.ColPosition,
	"TEAM":                  pipeline.ColTeam,
	"OUTSIDE_PROJECTION":    "outside_projection",
	"SCORE_PROJECTION":      pipeline.ColProjection,
	"SCORE_DISTRIBUTION":    "score_distribution",
	"LOW_SCORE":             "low_score",
	"HIGH_SCORE":            "high_score",
	"SIMULATION_PROJECTION": "simulation_projection",
}

var wantedColumns = []string{
	"week",
	"opp",
	"season",
	pipeline.ColPlayer,
	pipeline.ColPosition,
	pipeline.ColTeam,
	"outside_projection",
	pipeline.ColProjection,
	"score_distribution",
	"low_score",
	"high_score",
	"simulation_projection",
}

// Source adapts the Watson prediction service to the projection pipeline.
type Source struct {
	client *Client
	parser Parser
	logger *slog.Logger
}

// NewSource wraps a client as a pipeline source.
func NewSource(client *Client, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{client: client, logger: logger}
}

// Name implements pipeline.Source.
func (s *Source) Name() string { return SourceName }

// LoadRaw fetches the season roster and then one projection document per
// player, merging the projection snapshot over the player snapshot.
// Projection keys win where both carry a value. Watson rows date
// themselves (EVENT_WEEK, EVENT_YEAR), so the query's week is not used to
// filter here.
func (s *Source) LoadRaw(ctx context.Context, q pipeline.Query) (*frame.Frame, error) {
	doc, err := s.client.Players(ctx, q.Season)
	if err != nil {
		return nil, err
	}
	list, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("players document is %T, want list", doc)
	}

	rows := make([]frame.Row, 0, len(list))
	for i, item := range list {
		player, err := s.parser.Player(item)
		if err != nil {
			return nil, fmt.Errorf("players[%d]: %w", i, err)
		}
		id, err := frame.Int(player["PLAYERID"])
		if err != nil {
			return nil, fmt.Errorf("players[%d]: PLAYERID: %w", i, err)
		}

		projDoc, err := s.client.Projection(ctx, q.Season, id)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", id, err)
		}
		proj, err := s.parser.Projection(projDoc)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", id, err)
		}

		row := make(frame.Row, len(player)+len(proj))
		for k, v := range player {
			row[k] = v
		}
		for k, v := range proj {
			row[k] = v
		}
		rows = append(rows, row)

		if (i+1)%50 == 0 {
			s.logger.Info("Fetching Watson projections",
				"fetched", i+1,
				"total", len(list))
		}
	}
	return frame.FromRows(rows), nil
}

// ProcessRaw renames the snapshot keys into canonical terms and keeps the
// twelve projection columns.
func (s *Source) ProcessRaw(f *frame.Frame) (*frame.Frame, error) {
	return f.Rename(columnMapping).Select(wantedColumns...)
}

// Standardize canonicalizes both team columns (the player's own and the
// opponent), then positions, then player names.
func (s *Source) Standardize(f *frame.Frame) (*frame.Frame, error) {
	pipeline.StandardizeTeams(f, pipeline.ColTeam, nil)
	pipeline.StandardizeTeams(f, "opp", nil)
	pipeline.StandardizePositions(f, pipeline.ColPosition)
	pipeline.StandardizePlayers(f)
	return f, nil
}
