package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tripscore/internal/config"
	"github.com/sells-group/tripscore/internal/model"
)

var (
	travelerWeights = model.PreferenceWeights{Budget: 0.5, Quality: 0.3, Convenience: 0.2}
	travelerRaw     = model.Raw(5, 3, 2)
)

func sampleDays() []model.ItineraryDay {
	return []model.ItineraryDay{
		{
			DayIndex:  1,
			Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			DateLabel: "Tuesday, March 10, 2026",
			Items: []model.ItineraryItem{
				{Kind: model.KindFlight, Title: "Turkish Airlines TK1 (IST → JFK)", TimeLabel: "Morning"},
				{Kind: model.KindHotel, Title: "Check in: Hotel Roma", TimeLabel: "Evening", Hotel: &model.HotelMeta{Stay: "check_in"}},
			},
		},
	}
}

// runStoreContract exercises behavior every backend shares.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	snap, err := s.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, s.Put(ctx, "alice", travelerWeights, travelerRaw))
	snap, err = s.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "alice", snap.UserKey)
	assert.InDelta(t, 0.5, snap.Weights.Budget, 1e-9)
	assert.InDelta(t, 0.3, snap.Weights.Quality, 1e-9)
	assert.InDelta(t, 0.2, snap.Weights.Convenience, 1e-9)
	require.NotNil(t, snap.Raw.Budget)
	assert.InDelta(t, 5.0, *snap.Raw.Budget, 1e-9)
	assert.WithinDuration(t, time.Now(), snap.UpdatedAt, time.Minute)

	// Later writes replace earlier ones.
	require.NoError(t, s.Put(ctx, "alice", model.PreferenceWeights{Budget: 1}, model.RawWeights{}))
	snap, err = s.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.InDelta(t, 1.0, snap.Weights.Budget, 1e-9)
	assert.Nil(t, snap.Raw.Budget)

	it, err := s.GetItinerary(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, it)

	require.NoError(t, s.PutItinerary(ctx, "alice", sampleDays()))
	it, err = s.GetItinerary(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, it)
	require.Len(t, it.Days, 1)
	assert.Equal(t, "Tuesday, March 10, 2026", it.Days[0].DateLabel)
	require.Len(t, it.Days[0].Items, 2)
	assert.Equal(t, model.KindHotel, it.Days[0].Items[1].Kind)
	require.NotNil(t, it.Days[0].Items[1].Hotel)
	assert.Equal(t, "check_in", it.Days[0].Items[1].Hotel.Stay)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	runStoreContract(t, NewMemory())
}

func TestMemoryStore_DetachesCallerValues(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()
	budget := 4.0
	raw := model.RawWeights{Budget: &budget}
	require.NoError(t, s.Put(ctx, "bob", travelerWeights, raw))
	budget = 9

	snap, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, *snap.Raw.Budget, 1e-9)
}

func TestMemoryStore_ConcurrentWritesLastOneWins(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(ctx, "shared", model.PreferenceWeights{Budget: float64(i)}, model.RawWeights{})
		}(i)
	}
	wg.Wait()

	snap, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.GreaterOrEqual(t, snap.Weights.Budget, 0.0)
	assert.Less(t, snap.Weights.Budget, 20.0)
}

func TestNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, err := New(ctx, config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	require.NoError(t, s.Close())

	s, err = New(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "trip.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Put(ctx, "alice", travelerWeights, travelerRaw))
	require.NoError(t, s.Close())

	_, err = New(ctx, config.StoreConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown driver "mongo"`)

	_, err = New(ctx, config.StoreConfig{Driver: "postgres", DatabaseURL: "postgres://u:p@localhost:notaport/db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse config")
}
