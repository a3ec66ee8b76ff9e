package store

import (
	"context"
	"slices"
	"sync"

	"github.com/sells-group/tripscore/internal/model"
)

// MemoryStore keeps everything in process. The mutex only guards the maps;
// it does not order competing writers.
type MemoryStore struct {
	mu          sync.RWMutex
	prefs       map[string]Snapshot
	itineraries map[string]CachedItinerary
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		prefs:       make(map[string]Snapshot),
		itineraries: make(map[string]CachedItinerary),
	}
}

func (s *MemoryStore) Get(_ context.Context, userKey string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.prefs[userKey]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *MemoryStore) Put(_ context.Context, userKey string, weights model.PreferenceWeights, raw model.RawWeights) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userKey] = Snapshot{
		UserKey:   userKey,
		Weights:   weights,
		Raw:       copyRaw(raw),
		UpdatedAt: now(),
	}
	return nil
}

func (s *MemoryStore) GetItinerary(_ context.Context, userKey string) (*CachedItinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.itineraries[userKey]
	if !ok {
		return nil, nil
	}
	it.Days = slices.Clone(it.Days)
	return &it, nil
}

func (s *MemoryStore) PutItinerary(_ context.Context, userKey string, days []model.ItineraryDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itineraries[userKey] = CachedItinerary{
		UserKey:   userKey,
		Days:      slices.Clone(days),
		CreatedAt: now(),
	}
	return nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// copyRaw detaches stored values from the caller's pointers.
func copyRaw(raw model.RawWeights) model.RawWeights {
	cp := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return model.RawWeights{Budget: cp(raw.Budget), Quality: cp(raw.Quality), Convenience: cp(raw.Convenience)}
}
