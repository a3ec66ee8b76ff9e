package scorer

import (
	"slices"
	"sort"

	"github.com/sells-group/tripscore/internal/model"
)

// Rank returns a copy of scored sorted by WeightedScore, highest first.
// Equal scores keep their input order.
func Rank[T model.Candidate](scored []model.ScoredCandidate[T]) []model.ScoredCandidate[T] {
	out := slices.Clone(scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeightedScore > out[j].WeightedScore
	})
	return out
}

// Top returns the n best candidates after ranking. n <= 0 returns everything.
func Top[T model.Candidate](scored []model.ScoredCandidate[T], n int) []model.ScoredCandidate[T] {
	ranked := Rank(scored)
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// Best returns the highest-scoring candidate, or false for an empty set.
func Best[T model.Candidate](scored []model.ScoredCandidate[T]) (T, bool) {
	var zero T
	if len(scored) == 0 {
		return zero, false
	}
	return Rank(scored)[0].Candidate, true
}

// MarkOptimal returns a copy of flights with IsOptimal set on the cheapest
// cheapestN flights and on any nonstop flight within the cheapest directWindow.
// Input order is preserved.
func MarkOptimal(flights []model.FlightOption, cfg Config) []model.FlightOption {
	out := slices.Clone(flights)
	if len(out) == 0 {
		return out
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].PriceAmount < out[order[b]].PriceAmount
	})

	for rank, idx := range order {
		if rank < cfg.OptimalCheapest {
			out[idx].IsOptimal = true
		}
		if rank < cfg.OptimalDirectWindow && out[idx].StopCount == 0 {
			out[idx].IsOptimal = true
		}
	}
	return out
}
