package scorer

import (
	"math"

	"github.com/sells-group/tripscore/internal/model"
)

const (
	maxRating          = 5.0
	neutralConvenience = 0.5
)

// ScoreHotels adapts the flight formula to hotels. Price per night drives
// PriceNorm and rating/5 stands in for the quality slot (StopsNorm). Hotels
// carry no travel-time or location signal, so DurationNorm is 0 and
// ConvenienceNorm is a neutral 0.5.
func ScoreHotels(hotels []model.HotelOption, w model.PreferenceWeights) []model.ScoredCandidate[model.HotelOption] {
	out := make([]model.ScoredCandidate[model.HotelOption], len(hotels))
	maxPrice := 1.0
	for _, h := range hotels {
		maxPrice = math.Max(maxPrice, model.NonNegative(h.PricePerNight))
	}
	for i, h := range hotels {
		priceNorm, qualityNorm := stayNorms(h.PricePerNight, maxPrice, h.Rating)
		out[i] = model.ScoredCandidate[model.HotelOption]{
			Candidate:       h,
			PriceNorm:       priceNorm,
			StopsNorm:       qualityNorm,
			ConvenienceNorm: neutralConvenience,
			WeightedScore:   WeightedScore(priceNorm, 0, qualityNorm, neutralConvenience, w),
		}
	}
	return out
}

// ScoreActivities scores activities the same way as hotels, using the
// activity price and rating.
func ScoreActivities(activities []model.ActivityOption, w model.PreferenceWeights) []model.ScoredCandidate[model.ActivityOption] {
	out := make([]model.ScoredCandidate[model.ActivityOption], len(activities))
	maxPrice := 1.0
	for _, a := range activities {
		maxPrice = math.Max(maxPrice, model.NonNegative(a.PriceAmount))
	}
	for i, a := range activities {
		priceNorm, qualityNorm := stayNorms(a.PriceAmount, maxPrice, a.Rating)
		out[i] = model.ScoredCandidate[model.ActivityOption]{
			Candidate:       a,
			PriceNorm:       priceNorm,
			StopsNorm:       qualityNorm,
			ConvenienceNorm: neutralConvenience,
			WeightedScore:   WeightedScore(priceNorm, 0, qualityNorm, neutralConvenience, w),
		}
	}
	return out
}

func stayNorms(price, maxPrice, rating float64) (priceNorm, qualityNorm float64) {
	return clamp01(1 - model.NonNegative(price)/maxPrice), clamp01(model.NonNegative(rating) / maxRating)
}
