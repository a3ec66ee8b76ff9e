// Package compare produces side-by-side insights for two or three scored
// flights and recommends one of them.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/model"
)

// MaxCandidates is the most flights a comparison considers; extras are ignored.
const MaxCandidates = 3

// Value heuristic weights. This is intentionally a different formula from
// scorer.WeightedScore; the two can recommend different flights.
const (
	valuePriceWeight       = 0.6
	valueConvenienceWeight = 0.4
)

// ValueScore is the comparison's own ranking heuristic:
// 0.6*(1 - price/maxPrice) + 0.4*convenienceNorm, with maxPrice floored at 1.
func ValueScore(price, maxPrice, convenienceNorm float64) float64 {
	maxPrice = math.Max(maxPrice, 1)
	return valuePriceWeight*(1-model.NonNegative(price)/maxPrice) + valueConvenienceWeight*convenienceNorm
}

// Compare reports the cheapest, fastest and fewest-stop candidates and
// recommends the one with the highest ValueScore. Ties go to the earliest
// candidate. Fewer than two candidates yield an empty Comparison.
func Compare(candidates []model.ScoredCandidate[model.FlightOption]) model.Comparison {
	out := model.Comparison{Insights: []model.ComparisonInsight{}}
	if len(candidates) < 2 {
		return out
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	cheapest := argMin(candidates, func(f model.FlightOption) float64 { return model.NonNegative(f.PriceAmount) })
	fastest := argMin(candidates, func(f model.FlightOption) float64 { return model.NonNegative(f.DurationHours) })
	fewest := argMin(candidates, func(f model.FlightOption) float64 { return float64(f.StopCount) })

	out.Insights = append(out.Insights,
		priceInsight(candidates, cheapest),
		durationInsight(candidates, fastest),
		stopsInsight(candidates, fewest),
	)

	maxPrice := 1.0
	for _, c := range candidates {
		maxPrice = math.Max(maxPrice, model.NonNegative(c.Candidate.PriceAmount))
	}
	best, bestScore := 0, math.Inf(-1)
	for i, c := range candidates {
		if v := ValueScore(c.Candidate.PriceAmount, maxPrice, c.ConvenienceNorm); v > bestScore {
			best, bestScore = i, v
		}
	}

	rec := candidates[best].Candidate
	out.RecommendedID = rec.ID
	out.Insights = append(out.Insights, model.ComparisonInsight{
		Kind: model.InsightOverall,
		Text: fmt.Sprintf("Recommended: %s, %s.", Name(rec), reason(best == cheapest, best == fastest)),
	})
	return out
}

func reason(cheapest, fastest bool) string {
	switch {
	case cheapest && fastest:
		return "cheaper and faster"
	case cheapest:
		return "cheaper"
	case fastest:
		return "faster"
	default:
		return "best overall value"
	}
}

func priceInsight(c []model.ScoredCandidate[model.FlightOption], i int) model.ComparisonInsight {
	f := c[i].Candidate
	text := fmt.Sprintf("%s is the cheapest at %s", Name(f), extract.FormatPrice(f.PriceAmount, f.CurrencyCode))
	if next, ok := runnerUp(c, i, func(f model.FlightOption) float64 { return model.NonNegative(f.PriceAmount) }); ok {
		delta := model.NonNegative(next.PriceAmount) - model.NonNegative(f.PriceAmount)
		text += fmt.Sprintf(", %s less than %s", extract.FormatPrice(delta, f.CurrencyCode), Name(next))
	}
	return model.ComparisonInsight{Kind: model.InsightPrice, Text: text + "."}
}

func durationInsight(c []model.ScoredCandidate[model.FlightOption], i int) model.ComparisonInsight {
	f := c[i].Candidate
	text := fmt.Sprintf("%s is the fastest at %s", Name(f), extract.FormatDuration(f.DurationHours))
	if next, ok := runnerUp(c, i, func(f model.FlightOption) float64 { return model.NonNegative(f.DurationHours) }); ok {
		delta := model.NonNegative(next.DurationHours) - model.NonNegative(f.DurationHours)
		text += fmt.Sprintf(", %s shorter than %s", extract.FormatDuration(delta), Name(next))
	}
	return model.ComparisonInsight{Kind: model.InsightDuration, Text: text + "."}
}

func stopsInsight(c []model.ScoredCandidate[model.FlightOption], i int) model.ComparisonInsight {
	f := c[i].Candidate
	var text string
	if f.StopCount <= 0 {
		text = fmt.Sprintf("%s has the fewest stops (non-stop)", Name(f))
	} else {
		text = fmt.Sprintf("%s has the fewest stops (%s)", Name(f), extract.FormatStops(f.StopCount))
	}
	return model.ComparisonInsight{Kind: model.InsightStops, Text: text + "."}
}

// Name is how a flight is referred to in insight text.
func Name(f model.FlightOption) string {
	name := strings.TrimSpace(f.Airline + " " + f.FlightNumber)
	if name == "" {
		return model.UnknownLabel
	}
	return name
}

// argMin returns the index of the smallest metric, keeping the earliest on ties.
func argMin(c []model.ScoredCandidate[model.FlightOption], metric func(model.FlightOption) float64) int {
	best := 0
	for i := 1; i < len(c); i++ {
		if metric(c[i].Candidate) < metric(c[best].Candidate) {
			best = i
		}
	}
	return best
}

// runnerUp returns the candidate with the smallest metric other than skip.
func runnerUp(c []model.ScoredCandidate[model.FlightOption], skip int, metric func(model.FlightOption) float64) (model.FlightOption, bool) {
	idx := -1
	for i := range c {
		if i == skip {
			continue
		}
		if idx == -1 || metric(c[i].Candidate) < metric(c[idx].Candidate) {
			idx = i
		}
	}
	if idx == -1 {
		return model.FlightOption{}, false
	}
	return c[idx].Candidate, true
}
