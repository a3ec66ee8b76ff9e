package model

import "math"

// Candidate is any canonical record that can be scored.
type Candidate interface {
	FlightOption | HotelOption | ActivityOption
}

// ScoredCandidate pairs a candidate with its normalized sub-metrics and
// weighted composite score. Values are recreated on every scoring pass.
type ScoredCandidate[T Candidate] struct {
	Candidate       T       `json:"candidate"`
	PriceNorm       float64 `json:"price_norm"`
	DurationNorm    float64 `json:"duration_norm"`
	StopsNorm       float64 `json:"stops_norm"`
	ConvenienceNorm float64 `json:"convenience_norm"`
	WeightedScore   float64 `json:"weighted_score"`
}

// CandidateID returns the id of the wrapped record.
func CandidateID[T Candidate](c T) string {
	switch v := any(c).(type) {
	case FlightOption:
		return v.ID
	case HotelOption:
		return v.ID
	case ActivityOption:
		return v.ID
	}
	return ""
}

// NonNegative returns v, or 0 when v is negative, NaN or infinite.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
