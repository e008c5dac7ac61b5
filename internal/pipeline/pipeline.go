// Package pipeline defines the contract every projection source implements
// and the driver that runs a source through its stages. A source turns a
// remote provider's response into canonical rows in three steps: load the
// raw payload into a frame, cut the frame down to the canonical column
// vocabulary, then standardize the cell values. Each stage's output is the
// next stage's input, and each is independently testable.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridironlab/nflprojections/internal/frame"
)

// Canonical column names every source converges on after ProcessRaw.
const (
	ColPlayer     = "plyr"
	ColPosition   = "pos"
	ColTeam       = "team"
	ColProjection = "proj"
)

// Query names the projection period to fetch. Week 0 selects the
// season-aggregate projection; weeks 1+ select a single scoring period.
type Query struct {
	Season int
	Week   int
}

// SeasonAggregate reports whether the query targets full-season totals.
func (q Query) SeasonAggregate() bool {
	return q.Week == 0
}

func (q Query) String() string {
	if q.SeasonAggregate() {
		return fmt.Sprintf("season %d", q.Season)
	}
	return fmt.Sprintf("season %d week %d", q.Season, q.Week)
}

// Source is one projection provider. Implementations own their transport
// and their provider-specific parsing; the frames they hand between stages
// use the canonical column names above from ProcessRaw onward.
type Source interface {
	// Name identifies the provider in logs, storage, and API paths.
	Name() string

	// LoadRaw fetches the provider payload for the query and flattens it
	// into one row per player with provider-native column names.
	LoadRaw(ctx context.Context, q Query) (*frame.Frame, error)

	// ProcessRaw selects the provider columns that matter and renames them
	// into the canonical vocabulary. A mandatory column missing from every
	// row is an error.
	ProcessRaw(f *frame.Frame) (*frame.Frame, error)

	// Standardize canonicalizes cell values: team codes, positions, then
	// player names. Passes are order-dependent but row-independent.
	Standardize(f *frame.Frame) (*frame.Frame, error)
}

// Run drives a source through all three stages, logging row counts as the
// frame narrows. The first failing stage aborts the run.
func Run(ctx context.Context, src Source, q Query, logger *slog.Logger) (*frame.Frame, error) {
	start := time.Now()

	raw, err := src.LoadRaw(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: load raw: %w", src.Name(), err)
	}
	logger.Info("Raw projections loaded",
		"source", src.Name(),
		"query", q.String(),
		"rows", raw.Len(),
		"columns", len(raw.Columns()))

	processed, err := src.ProcessRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: process raw: %w", src.Name(), err)
	}

	standardized, err := src.Standardize(processed)
	if err != nil {
		return nil, fmt.Errorf("%s: standardize: %w", src.Name(), err)
	}
	logger.Info("Projections standardized",
		"source", src.Name(),
		"query", q.String(),
		"rows", standardized.Len(),
		"duration", time.Since(start).Round(time.Millisecond))

	return standardized, nil
}
