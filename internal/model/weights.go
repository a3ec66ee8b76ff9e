package model

// PreferenceWeights is a normalized budget/quality/convenience distribution.
// After normalization all values are >= 0 and sum to 1.
type PreferenceWeights struct {
	Budget      float64 `json:"budget" yaml:"budget" mapstructure:"budget"`
	Quality     float64 `json:"quality" yaml:"quality" mapstructure:"quality"`
	Convenience float64 `json:"convenience" yaml:"convenience" mapstructure:"convenience"`
}

// Sum returns the total of all three weights.
func (w PreferenceWeights) Sum() float64 {
	return w.Budget + w.Quality + w.Convenience
}

// RawWeights holds unnormalized slider values as entered by the user.
// A nil field means the value was not supplied.
type RawWeights struct {
	Budget      *float64 `json:"budget,omitempty" yaml:"budget,omitempty"`
	Quality     *float64 `json:"quality,omitempty" yaml:"quality,omitempty"`
	Convenience *float64 `json:"convenience,omitempty" yaml:"convenience,omitempty"`
}

// Raw builds a RawWeights from plain values.
func Raw(budget, quality, convenience float64) RawWeights {
	return RawWeights{Budget: &budget, Quality: &quality, Convenience: &convenience}
}
