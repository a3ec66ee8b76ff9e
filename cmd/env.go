package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/planner"
	"github.com/sells-group/tripscore/internal/provider"
	"github.com/sells-group/tripscore/internal/scorer"
	"github.com/sells-group/tripscore/internal/store"
)

// plannerEnv holds the store and planner built for one command.
type plannerEnv struct {
	Store   store.Store
	Planner *planner.Planner
}

// Close releases the store.
func (e *plannerEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	return store.New(ctx, cfg.Store)
}

func plannerOptions() planner.Options {
	return planner.Options{
		Scoring:          scorer.FromConfig(cfg.Scoring),
		Locale:           cfg.Itinerary.Locale,
		ActivitiesPerDay: cfg.Itinerary.ActivitiesPerDay,
	}
}

// initPlanner validates the config for mode and wires store, provider and
// planner. The provider is only needed by plan and serve.
func initPlanner(ctx context.Context, mode string) (*plannerEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	if err := scorer.ValidateConfig(cfg.Scoring); err != nil {
		return nil, err
	}

	var prov provider.Provider
	if mode != "engine" {
		p, err := provider.New(cfg.Provider)
		if err != nil {
			return nil, eris.Wrap(err, "init provider")
		}
		prov = p
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	return &plannerEnv{
		Store:   st,
		Planner: planner.New(st, prov, plannerOptions()),
	}, nil
}
