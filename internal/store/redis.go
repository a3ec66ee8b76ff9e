package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/model"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Prefix   string
}

// RedisStore implements Store with one JSON value per user and concern.
// Keys never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrap(err, "redis: ping")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "tripscore:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) prefsKey(userKey string) string     { return s.prefix + "prefs:" + userKey }
func (s *RedisStore) itineraryKey(userKey string) string { return s.prefix + "itinerary:" + userKey }

// Migrate is a no-op; Redis has no schema.
func (s *RedisStore) Migrate(context.Context) error { return nil }

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, userKey string) (*Snapshot, error) {
	var snap Snapshot
	ok, err := s.getJSON(ctx, s.prefsKey(userKey), &snap)
	if err != nil || !ok {
		return nil, eris.Wrapf(err, "redis: get preferences %s", userKey)
	}
	return &snap, nil
}

func (s *RedisStore) Put(ctx context.Context, userKey string, weights model.PreferenceWeights, raw model.RawWeights) error {
	snap := Snapshot{UserKey: userKey, Weights: weights, Raw: raw, UpdatedAt: now()}
	return eris.Wrapf(s.setJSON(ctx, s.prefsKey(userKey), snap), "redis: put preferences %s", userKey)
}

func (s *RedisStore) GetItinerary(ctx context.Context, userKey string) (*CachedItinerary, error) {
	var it CachedItinerary
	ok, err := s.getJSON(ctx, s.itineraryKey(userKey), &it)
	if err != nil || !ok {
		return nil, eris.Wrapf(err, "redis: get itinerary %s", userKey)
	}
	return &it, nil
}

func (s *RedisStore) PutItinerary(ctx context.Context, userKey string, days []model.ItineraryDay) error {
	it := CachedItinerary{UserKey: userKey, Days: days, CreatedAt: now()}
	return eris.Wrapf(s.setJSON(ctx, s.itineraryKey(userKey), it), "redis: put itinerary %s", userKey)
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}
