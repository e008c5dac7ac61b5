package watson

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridironlab/nflprojections/internal/frame"
)

// playerKeys are the snapshot fields a player row carries. Watson snapshots
// are wide; everything outside this list is dropped. Every key must be
// present — a snapshot missing one means the feed changed shape.
var playerKeys = []string{
	"ACTUAL", "DATA_TIMESTAMP", "SET_END", "EVENT_WEEK", "OPPONENT_NAME",
	"OPPOSITION_RANK", "PLAYERID", "FANTASY_PLAYER_ID", "EVENT_YEAR",
	"FULL_NAME", "POSITION", "TEAM", "TEAM_LOCATION", "AGE", "HEIGHT",
	"WEIGHT", "YEARS_EXPERIENCE", "PRO_TEAM_ID", "IS_ON_INJURED_RESERVE",
	"IS_SUSPENDED", "IS_ON_BYE", "IS_FREE_AGENT", "CURRENT_RANK",
	"INJURY_STATUS_DATE", "OUTSIDE_PROJECTION",
}

// projectionKeys are the fields kept from a projection snapshot. Unlike
// playerKeys this is a filter: keys Watson happens to omit are simply
// absent from the row.
var projectionKeys = []string{
	"PLAYERID", "DATA_TIMESTAMP", "SCORE_PROJECTION", "SCORE_DISTRIBUTION",
	"LOW_SCORE", "HIGH_SCORE", "OUTSIDE_PROJECTION", "SIMULATION_PROJECTION",
}

// Parser extracts rows from Watson's per-player documents. Documents are
// snapshot histories; the last snapshot is authoritative for current-state
// queries.
type Parser struct{}

// lastSnapshot returns the trailing element of a snapshot list, or the
// document itself when the provider sent a single object.
func lastSnapshot(doc interface{}) (map[string]interface{}, error) {
	switch d := doc.(type) {
	case []interface{}:
		if len(d) == 0 {
			return nil, errors.New("empty snapshot list")
		}
		m, ok := d[len(d)-1].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("snapshot is %T, want object", d[len(d)-1])
		}
		return m, nil
	case map[string]interface{}:
		return d, nil
	default:
		return nil, fmt.Errorf("document is %T, want object or list", doc)
	}
}

// Player projects the player keys out of a snapshot document. A missing
// key is a hard error.
func (p *Parser) Player(doc interface{}) (frame.Row, error) {
	snap, err := lastSnapshot(doc)
	if err != nil {
		return nil, err
	}
	row := make(frame.Row, len(playerKeys))
	for _, k := range playerKeys {
		v, ok := snap[k]
		if !ok {
			return nil, fmt.Errorf("player snapshot missing %s", k)
		}
		row[k] = v
	}
	return row, nil
}

// Players parses the roster list document into one row per player.
func (p *Parser) Players(doc interface{}) ([]frame.Row, error) {
	list, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("players document is %T, want list", doc)
	}
	rows := make([]frame.Row, 0, len(list))
	for i, item := range list {
		row, err := p.Player(item)
		if err != nil {
			return nil, fmt.Errorf("players[%d]: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Projection filters the last projection snapshot down to the projection
// keys. Projection documents are always lists; anything else is malformed.
func (p *Parser) Projection(doc interface{}) (frame.Row, error) {
	list, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("projection document is %T, want list", doc)
	}
	if len(list) == 0 {
		return nil, errors.New("projection document is empty")
	}
	snap, ok := list[len(list)-1].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("projection snapshot is %T, want object", list[len(list)-1])
	}
	row := make(frame.Row, len(projectionKeys))
	for _, k := range projectionKeys {
		if v, present := snap[k]; present {
			row[k] = v
		}
	}
	return row, nil
}

// ParseDistribution decodes a SCORE_DISTRIBUTION cell: a JSON string of
// [score, probability] pairs. It returns the scores. An absent or null
// cell means Watson published no distribution, which is fine; a present
// cell that will not parse is malformed data.
func ParseDistribution(v interface{}) ([]float64, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("score distribution is %T, want string", v)
	}
	var pairs [][]float64
	if err := json.Unmarshal([]byte(s), &pairs); err != nil {
		return nil, fmt.Errorf("parse score distribution: %w", err)
	}
	scores := make([]float64, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) == 0 {
			return nil, fmt.Errorf("score distribution pair %d is empty", i)
		}
		scores = append(scores, pair[0])
	}
	return scores, nil
}

// ProjectionDistribution pulls the score distribution out of a raw
// projection row.
func (p *Parser) ProjectionDistribution(row frame.Row) ([]float64, error) {
	return ParseDistribution(row["SCORE_DISTRIBUTION"])
}
