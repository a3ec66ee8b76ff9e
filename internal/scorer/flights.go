package scorer

import (
	"math"

	"github.com/sells-group/tripscore/internal/model"
)

// Convenience proxy constants.
const (
	convenienceBase        = 0.5
	convenienceNonstopBump = 0.3
	conveniencePerStop     = 0.1
)

// ScoreFlights computes normalized sub-metrics and the weighted composite score
// for every flight. The result keeps input order; ranking is left to the caller.
//
// Sub-metrics are relative to the worst value in the set, with each maximum
// floored at 1 so that an all-free, all-instant or all-nonstop set does not
// divide by zero:
//
//	priceNorm    = 1 - price/maxPrice
//	durationNorm = 1 - duration/maxDuration
//	stopsNorm    = 1 - stops/maxStops
func ScoreFlights(flights []model.FlightOption, w model.PreferenceWeights) []model.ScoredCandidate[model.FlightOption] {
	if len(flights) == 0 {
		return []model.ScoredCandidate[model.FlightOption]{}
	}

	maxPrice, maxDuration, maxStops := 1.0, 1.0, 1.0
	for _, f := range flights {
		maxPrice = math.Max(maxPrice, model.NonNegative(f.PriceAmount))
		maxDuration = math.Max(maxDuration, model.NonNegative(f.DurationHours))
		maxStops = math.Max(maxStops, float64(f.StopCount))
	}

	out := make([]model.ScoredCandidate[model.FlightOption], len(flights))
	for i, f := range flights {
		sc := model.ScoredCandidate[model.FlightOption]{
			Candidate:       f,
			PriceNorm:       clamp01(1 - model.NonNegative(f.PriceAmount)/maxPrice),
			DurationNorm:    clamp01(1 - model.NonNegative(f.DurationHours)/maxDuration),
			StopsNorm:       clamp01(1 - float64(f.StopCount)/maxStops),
			ConvenienceNorm: ConvenienceNorm(f.StopCount),
		}
		sc.WeightedScore = WeightedScore(sc.PriceNorm, sc.DurationNorm, sc.StopsNorm, sc.ConvenienceNorm, w)
		out[i] = sc
	}
	return out
}

// ConvenienceNorm is the ease-of-travel proxy for a stop count: 0.5 base,
// +0.3 for a nonstop, -0.1 per stop otherwise, clamped to [0,1].
func ConvenienceNorm(stops int) float64 {
	v := convenienceBase
	if stops <= 0 {
		v += convenienceNonstopBump
	} else {
		v -= conveniencePerStop * float64(stops)
	}
	return clamp01(v)
}

// WeightedScore is the preference-weighted composite in [0,100]. Budget
// weighs price, quality weighs the stop count, and convenience weighs the mean
// of travel-time efficiency and the convenience proxy.
func WeightedScore(priceNorm, durationNorm, stopsNorm, convenienceNorm float64, w model.PreferenceWeights) float64 {
	composite := priceNorm*w.Budget +
		stopsNorm*w.Quality +
		((durationNorm+convenienceNorm)/2)*w.Convenience
	return 100 * clamp01(composite)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
