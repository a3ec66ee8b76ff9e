// Package planner runs a full trip plan: session weights, provider fetch,
// extraction, scoring, itinerary assembly and flight comparison.
package planner

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tripscore/internal/compare"
	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/itinerary"
	"github.com/sells-group/tripscore/internal/model"
	"github.com/sells-group/tripscore/internal/provider"
	"github.com/sells-group/tripscore/internal/scorer"
	"github.com/sells-group/tripscore/internal/store"
)

// Store is what the planner persists between sessions.
type Store interface {
	store.PreferenceStore
	store.ItineraryCache
}

// Options tunes scoring and assembly.
type Options struct {
	Scoring          scorer.Config
	Locale           string
	ActivitiesPerDay int
}

// Planner coordinates one user's trip planning.
type Planner struct {
	store    Store
	provider provider.Provider
	opts     Options
}

// New creates a Planner.
func New(s Store, p provider.Provider, opts Options) *Planner {
	if opts.Scoring.OptimalCheapest == 0 && opts.Scoring.OptimalDirectWindow == 0 {
		opts.Scoring = scorer.DefaultConfig()
	}
	return &Planner{store: s, provider: p, opts: opts}
}

// Session is a user's current weights.
type Session struct {
	UserKey   string                  `json:"user_key"`
	Weights   model.PreferenceWeights `json:"weights"`
	Raw       model.RawWeights        `json:"raw"`
	Stored    bool                    `json:"stored"`
	UpdatedAt time.Time               `json:"updated_at,omitzero"`
}

// Session reads the stored weights for userKey, or the configured defaults
// when nothing is stored.
func (p *Planner) Session(ctx context.Context, userKey string) (Session, error) {
	snap, err := p.store.Get(ctx, userKey)
	if err != nil {
		return Session{}, eris.Wrap(err, "planner: load session")
	}
	if snap == nil {
		return Session{
			UserKey: userKey,
			Weights: p.opts.Scoring.SessionDefault(),
			Raw:     p.opts.Scoring.Defaults,
		}, nil
	}
	return Session{
		UserKey:   userKey,
		Weights:   snap.Weights,
		Raw:       snap.Raw,
		Stored:    true,
		UpdatedAt: snap.UpdatedAt,
	}, nil
}

// UpdateWeights normalizes raw and writes it for userKey. Concurrent updates
// for the same user are last-write-wins.
func (p *Planner) UpdateWeights(ctx context.Context, userKey string, raw model.RawWeights) (Session, error) {
	weights := scorer.Normalize(raw)
	if err := p.store.Put(ctx, userKey, weights, raw); err != nil {
		return Session{}, eris.Wrap(err, "planner: save weights")
	}
	zap.L().Info("weights updated",
		zap.String("user", userKey),
		zap.Float64("budget", weights.Budget),
		zap.Float64("quality", weights.Quality),
		zap.Float64("convenience", weights.Convenience),
	)
	return Session{UserKey: userKey, Weights: weights, Raw: raw, Stored: true, UpdatedAt: time.Now().UTC()}, nil
}

// LastItinerary returns the cached itinerary for userKey, or nil.
func (p *Planner) LastItinerary(ctx context.Context, userKey string) (*store.CachedItinerary, error) {
	it, err := p.store.GetItinerary(ctx, userKey)
	return it, eris.Wrap(err, "planner: load itinerary")
}

// Request is one plan invocation. EndDate defaults to the query's return
// date. Weights, when set, override the stored session for this plan only.
type Request struct {
	Query   provider.Query    `json:"query"`
	EndDate string            `json:"end_date,omitempty"`
	Weights *model.RawWeights `json:"weights,omitempty"`
}

// Result is a complete plan.
type Result struct {
	UserKey       string                                        `json:"user_key"`
	Weights       model.PreferenceWeights                       `json:"weights"`
	Flights       []model.ScoredCandidate[model.FlightOption]   `json:"flights"`
	ReturnFlights []model.ScoredCandidate[model.FlightOption]   `json:"return_flights"`
	Hotels        []model.ScoredCandidate[model.HotelOption]    `json:"hotels"`
	Activities    []model.ScoredCandidate[model.ActivityOption] `json:"activities"`
	Itinerary     []model.ItineraryDay                          `json:"itinerary"`
	Comparison    model.Comparison                              `json:"comparison"`
}

type payloads struct {
	flights    provider.FlightResults
	hotels     []byte
	activities []byte
}

// Plan fetches, scores and assembles a trip for userKey and caches the
// resulting itinerary. It returns itinerary.ErrMissingDateRange before any
// fetch when the depart date is unusable.
func (p *Planner) Plan(ctx context.Context, userKey string, req Request) (*Result, error) {
	end := req.EndDate
	if end == "" {
		end = req.Query.ReturnDate
	}
	start, endDate, ret, err := itinerary.ResolveDates(req.Query.DepartDate, end, req.Query.ReturnDate)
	if err != nil {
		return nil, err
	}

	weights, err := p.weightsFor(ctx, userKey, req.Weights)
	if err != nil {
		return nil, err
	}

	data, err := p.fetch(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	flights := scorer.MarkOptimal(extract.Records(extract.FlightsFromPayload(data.flights.Outbound)), p.opts.Scoring)
	returns := extract.Records(extract.ReturnLegs(data.flights.Outbound, data.flights.Return))
	hotels := extract.Records(extract.HotelsFromPayload(data.hotels))
	activities := extract.Records(extract.ActivitiesFromPayload(data.activities))

	res := &Result{
		UserKey:       userKey,
		Weights:       weights,
		Flights:       scorer.Rank(scorer.ScoreFlights(flights, weights)),
		ReturnFlights: scorer.Rank(scorer.ScoreFlights(returns, weights)),
		Hotels:        scorer.Rank(scorer.ScoreHotels(hotels, weights)),
		Activities:    scorer.Rank(scorer.ScoreActivities(activities, weights)),
	}

	in := itinerary.Input{
		Activities:       candidates(res.Activities),
		Start:            start,
		End:              endDate,
		Return:           ret,
		Locale:           p.opts.Locale,
		ActivitiesPerDay: p.opts.ActivitiesPerDay,
	}
	if best, ok := scorer.Best(res.Flights); ok {
		in.Flight = &best
	}
	if best, ok := scorer.Best(res.ReturnFlights); ok {
		in.ReturnFlight = &best
	}
	if best, ok := scorer.Best(res.Hotels); ok {
		in.Hotel = &best
	}

	res.Itinerary, err = itinerary.Assemble(in)
	if err != nil {
		return nil, err
	}
	res.Comparison = compare.Compare(scorer.Top(res.Flights, compare.MaxCandidates))

	if err := p.store.PutItinerary(ctx, userKey, res.Itinerary); err != nil {
		return nil, eris.Wrap(err, "planner: cache itinerary")
	}

	zap.L().Info("trip planned",
		zap.String("user", userKey),
		zap.String("destination", req.Query.Destination),
		zap.Int("flights", len(res.Flights)),
		zap.Int("return_flights", len(res.ReturnFlights)),
		zap.Int("hotels", len(res.Hotels)),
		zap.Int("activities", len(res.Activities)),
		zap.Int("days", len(res.Itinerary)),
	)
	return res, nil
}

func (p *Planner) weightsFor(ctx context.Context, userKey string, override *model.RawWeights) (model.PreferenceWeights, error) {
	if override != nil {
		return scorer.Normalize(*override), nil
	}
	sess, err := p.Session(ctx, userKey)
	if err != nil {
		return model.PreferenceWeights{}, err
	}
	return sess.Weights, nil
}

// fetch loads flights, hotels and activities concurrently.
func (p *Planner) fetch(ctx context.Context, q provider.Query) (payloads, error) {
	var out payloads
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := p.provider.SearchFlights(gctx, q)
		out.flights = res
		return err
	})
	g.Go(func() error {
		data, err := p.provider.Hotels(gctx, q)
		out.hotels = data
		return err
	})
	g.Go(func() error {
		data, err := p.provider.Activities(gctx, q)
		out.activities = data
		return err
	})

	if err := g.Wait(); err != nil {
		return payloads{}, eris.Wrap(err, "planner: fetch")
	}
	return out, nil
}

func candidates[T model.Candidate](scored []model.ScoredCandidate[T]) []T {
	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.Candidate
	}
	return out
}
