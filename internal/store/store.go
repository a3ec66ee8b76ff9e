// Package store remembers a user's preference weights and last itinerary
// between sessions.
//
// Every implementation is last-write-wins: concurrent Put calls for the same
// user race and the later write replaces the earlier one. There are no
// transactions, version checks or schema versions; the stored shape is
// whatever was last written.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/config"
	"github.com/sells-group/tripscore/internal/model"
)

// Snapshot is the stored preference state for one user.
type Snapshot struct {
	UserKey   string                  `json:"user_key"`
	Weights   model.PreferenceWeights `json:"weights"`
	Raw       model.RawWeights        `json:"raw"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// CachedItinerary is the last itinerary generated for a user.
type CachedItinerary struct {
	UserKey   string               `json:"user_key"`
	Days      []model.ItineraryDay `json:"days"`
	CreatedAt time.Time            `json:"created_at"`
}

// PreferenceStore reads and writes a user's weights. Get returns nil, nil
// when nothing is stored.
type PreferenceStore interface {
	Get(ctx context.Context, userKey string) (*Snapshot, error)
	Put(ctx context.Context, userKey string, weights model.PreferenceWeights, raw model.RawWeights) error
}

// ItineraryCache reads and writes the last itinerary for a user.
// GetItinerary returns nil, nil when nothing is cached.
type ItineraryCache interface {
	GetItinerary(ctx context.Context, userKey string) (*CachedItinerary, error)
	PutItinerary(ctx context.Context, userKey string, days []model.ItineraryDay) error
}

// Store is a full backend: preferences, the itinerary cache and lifecycle.
type Store interface {
	PreferenceStore
	ItineraryCache

	Migrate(ctx context.Context) error
	Close() error
}

// New opens the backend selected by cfg.Driver and runs its migration.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "memory":
		s = NewMemory()
	case "sqlite", "":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "tripscore.db"
		}
		s, err = NewSQLite(dsn)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	case "redis":
		s, err = NewRedis(ctx, RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func now() time.Time {
	return time.Now().UTC()
}
