package watson

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflprojections/internal/frame"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 1.75, percentile(sorted, 25))
	assert.Equal(t, 2.5, percentile(sorted, 50))
	assert.Equal(t, 3.25, percentile(sorted, 75))
	assert.Equal(t, 4.0, percentile(sorted, 100))

	assert.Equal(t, 7.0, percentile([]float64{7}, 50))
}

func TestSampleBandStaysInsidePercentiles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scores := []float64{10, 12, 14, 16, 18}
	// p25 = 12, p75 = 16 for five evenly ranked scores

	for i := 0; i < 50; i++ {
		got := sampleBand(scores, rng, 25, 75)
		assert.Contains(t, []float64{12, 14, 16}, got)
	}
}

func TestSampleBandFallsBackWhenBandIsEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	scores := []float64{0, 10}
	// p25 = 2.5 and p75 = 7.5 leave no score inside the band

	got := sampleBand(scores, rng, 25, 75)
	assert.Contains(t, scores, got)
}

func TestRandomizeSwapsDistributionForSample(t *testing.T) {
	f := frame.New("plyr", "proj", "score_distribution")
	f.Append(frame.Row{
		"plyr":               "watson player",
		"proj":               17.4,
		"score_distribution": `[[10, 0.05], [14, 0.2], [18, 0.5], [22, 0.2], [26, 0.05]]`,
	})
	f.Append(frame.Row{
		"plyr":               "no distribution player",
		"proj":               4.2,
		"score_distribution": nil,
	})

	rng := rand.New(rand.NewSource(7))
	out, err := Randomize(f, rng, DefaultPercentileLow, DefaultPercentileHigh)
	require.NoError(t, err)

	assert.Equal(t, []string{"plyr", "proj", "dist"}, out.Columns())
	require.Equal(t, 2, out.Len())

	first := out.Rows()[0]
	assert.Equal(t, 17.4, first["proj"])
	assert.Contains(t, []float64{14, 18, 22}, first["dist"])
	_, hasDistribution := first["score_distribution"]
	assert.False(t, hasDistribution)

	second := out.Rows()[1]
	_, hasDist := second["dist"]
	assert.False(t, hasDist, "rows without a distribution get no sample")
}

func TestRandomizeRejectsMalformedDistribution(t *testing.T) {
	f := frame.New("plyr", "score_distribution")
	f.Append(frame.Row{"plyr": "broken", "score_distribution": "not json"})

	_, err := Randomize(f, rand.New(rand.NewSource(1)), 25, 75)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
}

func TestRandomizeRejectsInvertedBand(t *testing.T) {
	f := frame.New("plyr", "score_distribution")

	_, err := Randomize(f, rand.New(rand.NewSource(1)), 75, 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted")
}
