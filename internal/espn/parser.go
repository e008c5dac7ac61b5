package espn

import (
	"errors"
	"fmt"

	"github.com/gridironlab/nflprojections/internal/frame"
)

const (
	statSourceProjection = 1 // 0 carries actuals
	statSplitTotal       = 0
)

// Parser flattens a kona_player_info response into provider-native rows for
// one season and scoring period. Week 0 targets the season-aggregate split.
type Parser struct {
	season int
	week   int
}

// NewParser returns a parser bound to the projection split it should pull
// from each player's stat list.
func NewParser(season, week int) *Parser {
	return &Parser{season: season, week: week}
}

// findProjection scans a player's stat records for the projection split of
// the parser's season and week. The first record matching all four key
// fields wins; no match is absence, not an error.
func (p *Parser) findProjection(stats []statRecord) *statRecord {
	for i := range stats {
		s := &stats[i]
		if s.SeasonID == p.season &&
			s.ScoringPeriodID == p.week &&
			s.StatSourceID == statSourceProjection &&
			s.StatSplitTypeID == statSplitTotal {
			return s
		}
	}
	return nil
}

// parseStats translates ESPN's numeric stat codes into semantic columns.
// Codes outside the stat table are dropped; a known code carrying a
// non-numeric value is malformed data and aborts the parse.
func parseStats(stats map[string]interface{}) (map[string]float64, error) {
	out := make(map[string]float64, len(stats))
	for code, v := range stats {
		name, ok := statNames[code]
		if !ok {
			continue
		}
		f, err := frame.Float(v)
		if err != nil {
			return nil, fmt.Errorf("stat %s (%s): %w", code, name, err)
		}
		out[name] = f
	}
	return out, nil
}

// SeasonRows flattens season-total projections. Players whose position id
// is not fantasy-relevant keep a null position cell.
func (p *Parser) SeasonRows(resp *projectionsResponse) ([]frame.Row, error) {
	return p.rows(resp, false)
}

// WeeklyRows flattens single-week projections. Unlike the season variant,
// players whose position id is not fantasy-relevant are labeled UNK.
func (p *Parser) WeeklyRows(resp *projectionsResponse) ([]frame.Row, error) {
	return p.rows(resp, true)
}

func (p *Parser) rows(resp *projectionsResponse, unknownAsLabel bool) ([]frame.Row, error) {
	if resp == nil || resp.Players == nil {
		return nil, errors.New("players missing from response")
	}
	rows := make([]frame.Row, 0, len(resp.Players))
	for i, entry := range resp.Players {
		if entry.Player == nil {
			return nil, fmt.Errorf("players[%d]: player document missing", i)
		}
		row, err := p.playerRow(entry.Player, unknownAsLabel)
		if err != nil {
			return nil, fmt.Errorf("players[%d]: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *Parser) playerRow(doc *playerDocument, unknownAsLabel bool) (frame.Row, error) {
	row := frame.Row{}

	// Identity keys are copied when present and omitted when absent; the
	// mandatory-column check happens later, at column selection.
	if doc.ID != nil {
		row["source_player_id"] = *doc.ID
	}
	if doc.FullName != nil {
		row["source_player_name"] = *doc.FullName
	}
	teamID := 0
	if doc.ProTeamID != nil {
		teamID = *doc.ProTeamID
		row["source_team_id"] = teamID
	}
	if code, ok := TeamCode(teamID); ok {
		row["source_team_code"] = code
	} else {
		row["source_team_code"] = nil
	}

	if doc.DefaultPositionID == nil {
		return nil, errors.New("defaultPositionId missing")
	}
	switch name, ok := PositionName(*doc.DefaultPositionID); {
	case ok:
		row["source_player_position"] = name
	case unknownAsLabel:
		row["source_player_position"] = PositionUnknown
	default:
		row["source_player_position"] = nil
	}

	rec := p.findProjection(doc.Stats)
	if rec == nil {
		row["source_player_projection"] = nil
		return row, nil
	}
	if rec.AppliedTotal != nil {
		row["source_player_projection"] = *rec.AppliedTotal
	} else {
		row["source_player_projection"] = nil
	}
	parsed, err := parseStats(rec.Stats)
	if err != nil {
		return nil, err
	}
	for name, v := range parsed {
		row[name] = v
	}
	return row, nil
}
