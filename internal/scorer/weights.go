package scorer

import (
	"math"

	"github.com/spf13/cast"

	"github.com/sells-group/tripscore/internal/model"
)

// DefaultWeights returns the distribution used when no preference signal is
// present. Budget and quality are equal; convenience takes the remainder so
// the three sum to exactly 1.00.
func DefaultWeights() model.PreferenceWeights {
	return model.PreferenceWeights{Budget: 0.33, Quality: 0.33, Convenience: 0.34}
}

// Normalize turns raw slider values into a distribution that sums to 1.
// Missing, negative and non-finite values count as 0. If nothing positive
// remains, DefaultWeights is returned.
func Normalize(raw model.RawWeights) model.PreferenceWeights {
	return NormalizeValues(deref(raw.Budget), deref(raw.Quality), deref(raw.Convenience))
}

// NormalizeValues is Normalize over plain values.
func NormalizeValues(budget, quality, convenience float64) model.PreferenceWeights {
	budget = nonNegative(budget)
	quality = nonNegative(quality)
	convenience = nonNegative(convenience)

	// Scale by the largest value so very large inputs cannot overflow the total.
	if m := math.Max(budget, math.Max(quality, convenience)); m > 0 {
		budget, quality, convenience = budget/m, quality/m, convenience/m
	}

	total := budget + quality + convenience
	if total == 0 {
		return DefaultWeights()
	}

	return model.PreferenceWeights{
		Budget:      budget / total,
		Quality:     quality / total,
		Convenience: convenience / total,
	}
}

// NormalizeAny normalizes loosely typed input such as a decoded JSON object
// or query parameters. Numeric strings are accepted; anything that cannot be
// read as a number counts as 0.
func NormalizeAny(raw map[string]any) model.PreferenceWeights {
	return NormalizeValues(
		toFloat(raw["budget"]),
		toFloat(raw["quality"]),
		toFloat(raw["convenience"]),
	)
}

// RawFromAny converts loosely typed input into RawWeights, keeping absent
// keys as nil so the stored raw values reflect what the user sent.
func RawFromAny(raw map[string]any) model.RawWeights {
	var out model.RawWeights
	if v, ok := raw["budget"]; ok {
		f := toFloat(v)
		out.Budget = &f
	}
	if v, ok := raw["quality"]; ok {
		f := toFloat(v)
		out.Quality = &f
	}
	if v, ok := raw["convenience"]; ok {
		f := toFloat(v)
		out.Convenience = &f
	}
	return out
}

func toFloat(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return nonNegative(f)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// nonNegative clamps to [0, +inf) and maps NaN and infinities to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
