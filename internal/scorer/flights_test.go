package scorer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tripscore/internal/model"
)

var travelerWeights = model.PreferenceWeights{Budget: 0.5, Quality: 0.3, Convenience: 0.2}

func TestScoreFlights_ReferenceValues(t *testing.T) {
	t.Parallel()

	flights := []model.FlightOption{
		{ID: "A", PriceAmount: 500, DurationHours: 10, StopCount: 0},
		{ID: "B", PriceAmount: 300, DurationHours: 14, StopCount: 1},
	}

	scored := ScoreFlights(flights, travelerWeights)
	require.Len(t, scored, 2)

	a, b := scored[0], scored[1]
	assert.Equal(t, "A", a.Candidate.ID)
	assert.InDelta(t, 0.0, a.PriceNorm, 1e-9)
	assert.InDelta(t, 1-10.0/14, a.DurationNorm, 1e-9)
	assert.InDelta(t, 1.0, a.StopsNorm, 1e-9)
	assert.InDelta(t, 0.8, a.ConvenienceNorm, 1e-9)
	// 100 * (0.3 + 0.2 * (2/7 + 0.8) / 2) = 30 + 10 * (2/7 + 0.8)
	assert.InDelta(t, 30+10*(2.0/7+0.8), a.WeightedScore, 1e-9)
	assert.InDelta(t, 40.857, a.WeightedScore, 0.001)

	assert.Equal(t, "B", b.Candidate.ID)
	assert.InDelta(t, 0.4, b.PriceNorm, 1e-9)
	assert.InDelta(t, 0.0, b.DurationNorm, 1e-9)
	assert.InDelta(t, 0.0, b.StopsNorm, 1e-9)
	assert.InDelta(t, 0.4, b.ConvenienceNorm, 1e-9)
	assert.InDelta(t, 24.0, b.WeightedScore, 1e-9)

	ranked := Rank(scored)
	assert.Equal(t, "A", ranked[0].Candidate.ID)
	assert.Equal(t, "B", ranked[1].Candidate.ID)
}

func TestScoreFlights_Deterministic(t *testing.T) {
	t.Parallel()

	flights := []model.FlightOption{
		{ID: "A", PriceAmount: 500, DurationHours: 10, StopCount: 0},
		{ID: "B", PriceAmount: 300, DurationHours: 14, StopCount: 1},
	}
	assert.Equal(t, ScoreFlights(flights, travelerWeights), ScoreFlights(flights, travelerWeights))
}

func TestScoreFlights_PreservesOrderAndInput(t *testing.T) {
	t.Parallel()

	flights := []model.FlightOption{
		{ID: "slow", PriceAmount: 100, DurationHours: 30, StopCount: 3},
		{ID: "fast", PriceAmount: 900, DurationHours: 5, StopCount: 0},
	}
	before := append([]model.FlightOption(nil), flights...)

	scored := ScoreFlights(flights, DefaultWeights())
	assert.Equal(t, "slow", scored[0].Candidate.ID)
	assert.Equal(t, "fast", scored[1].Candidate.ID)
	assert.Equal(t, before, flights)
}

func TestScoreFlights_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ScoreFlights(nil, DefaultWeights()))
	assert.NotNil(t, ScoreFlights(nil, DefaultWeights()))
}

func TestScoreFlights_DegenerateSets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flights []model.FlightOption
	}{
		{"all free", []model.FlightOption{{PriceAmount: 0}, {PriceAmount: 0}}},
		{"all nonstop instant", []model.FlightOption{{DurationHours: 0, StopCount: 0}}},
		{"sub-unit values", []model.FlightOption{{PriceAmount: 0.5, DurationHours: 0.2}}},
		{"bad numbers", []model.FlightOption{{PriceAmount: math.NaN(), DurationHours: math.Inf(1)}, {PriceAmount: -50, StopCount: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, s := range ScoreFlights(tt.flights, DefaultWeights()) {
				assertInUnit(t, s.PriceNorm)
				assertInUnit(t, s.DurationNorm)
				assertInUnit(t, s.StopsNorm)
				assertInUnit(t, s.ConvenienceNorm)
				assert.GreaterOrEqual(t, s.WeightedScore, 0.0)
				assert.LessOrEqual(t, s.WeightedScore, 100.0)
			}
		})
	}
}

func TestScoreFlights_ScoreRangeProperty(t *testing.T) {
	t.Parallel()

	prices := []float64{0, 49.99, 300, 500, 12000}
	durations := []float64{0, 1.5, 10, 14, 40}
	weights := []model.PreferenceWeights{
		DefaultWeights(),
		travelerWeights,
		{Budget: 1},
		{Quality: 1},
		{Convenience: 1},
	}

	var flights []model.FlightOption
	for i, p := range prices {
		for j, d := range durations {
			flights = append(flights, model.FlightOption{PriceAmount: p, DurationHours: d, StopCount: (i + j) % 4})
		}
	}

	for _, w := range weights {
		for _, s := range ScoreFlights(flights, w) {
			assert.GreaterOrEqual(t, s.WeightedScore, 0.0)
			assert.LessOrEqual(t, s.WeightedScore, 100.0)
		}
	}
}

func TestConvenienceNorm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stops int
		want  float64
	}{
		{0, 0.8},
		{1, 0.4},
		{2, 0.3},
		{5, 0.0},
		{9, 0.0},
		{-1, 0.8},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ConvenienceNorm(tt.stops), 1e-9, "stops=%d", tt.stops)
	}
}

func TestWeightedScore_Clamped(t *testing.T) {
	t.Parallel()

	// Weights that do not sum to 1 still cannot push the score past 100.
	over := model.PreferenceWeights{Budget: 2, Quality: 2, Convenience: 2}
	assert.InDelta(t, 100.0, WeightedScore(1, 1, 1, 1, over), 1e-9)
	assert.InDelta(t, 0.0, WeightedScore(0, 0, 0, 0, DefaultWeights()), 1e-9)
}

func assertInUnit(t *testing.T, v float64) {
	t.Helper()
	assert.False(t, math.IsNaN(v))
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}
