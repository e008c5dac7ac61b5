package watson

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/gridironlab/nflprojections/internal/frame"
)

// Default percentile band for Randomize.
const (
	DefaultPercentileLow  = 25.0
	DefaultPercentileHigh = 75.0
)

// Randomize replaces each row's score distribution with a single score
// sampled uniformly from the central percentile band, under a new dist
// column. Simulations draw on dist to explore the plausible range instead
// of anchoring on the point projection. Rows without a distribution keep
// no dist cell; a distribution that fails to parse aborts the whole frame.
func Randomize(f *frame.Frame, rng *rand.Rand, pLow, pHigh float64) (*frame.Frame, error) {
	if pLow > pHigh {
		return nil, fmt.Errorf("percentile band inverted: %g > %g", pLow, pHigh)
	}

	cols := make([]string, 0, len(f.Columns())+1)
	for _, c := range f.Columns() {
		if c != "score_distribution" {
			cols = append(cols, c)
		}
	}
	cols = append(cols, "dist")

	out := frame.New(cols...)
	for i, r := range f.Rows() {
		scores, err := ParseDistribution(r["score_distribution"])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		nr := make(frame.Row, len(r))
		for k, v := range r {
			if k != "score_distribution" {
				nr[k] = v
			}
		}
		if len(scores) > 0 {
			nr["dist"] = sampleBand(scores, rng, pLow, pHigh)
		}
		out.Append(nr)
	}
	return out, nil
}

// sampleBand picks one score uniformly from those inside the percentile
// band. A narrow distribution can leave the band empty; the sample then
// falls back to the full score list.
func sampleBand(scores []float64, rng *rand.Rand, pLow, pHigh float64) float64 {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	floor := percentile(sorted, pLow)
	ceil := percentile(sorted, pHigh)

	var band []float64
	for _, s := range scores {
		if s >= floor && s <= ceil {
			band = append(band, s)
		}
	}
	if len(band) == 0 {
		band = sorted
	}
	return band[rng.Intn(len(band))]
}

// percentile computes the q-th percentile of a sorted slice with linear
// interpolation between ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := float64(len(sorted)-1) * q / 100
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
