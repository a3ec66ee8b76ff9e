package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	sqlGetPreferences = `SELECT user_key, weights, raw, updated_at FROM trip_preferences WHERE user_key = $1`
	sqlPutPreferences = `INSERT INTO trip_preferences (user_key, weights, raw, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_key) DO UPDATE SET weights = EXCLUDED.weights, raw = EXCLUDED.raw, updated_at = EXCLUDED.updated_at`
	sqlGetItinerary = `SELECT user_key, days, created_at FROM trip_itineraries WHERE user_key = $1`
	sqlPutItinerary = `INSERT INTO trip_itineraries (user_key, days, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_key) DO UPDATE SET days = EXCLUDED.days, created_at = EXCLUDED.created_at`
)

// preparedStatements are prepared on each new connection.
var preparedStatements = map[string]string{
	"get_preferences": sqlGetPreferences,
	"put_preferences": sqlPutPreferences,
	"get_itinerary":   sqlGetItinerary,
	"put_itinerary":   sqlPutItinerary,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS trip_preferences (
	user_key   TEXT PRIMARY KEY,
	weights    JSONB NOT NULL,
	raw        JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trip_itineraries (
	user_key   TEXT PRIMARY KEY,
	days       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userKey string) (*Snapshot, error) {
	var (
		snap                 Snapshot
		weightsJSON, rawJSON []byte
	)
	err := s.pool.QueryRow(ctx, sqlGetPreferences, userKey).
		Scan(&snap.UserKey, &weightsJSON, &rawJSON, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get preferences %s", userKey)
	}
	if err := json.Unmarshal(weightsJSON, &snap.Weights); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal weights")
	}
	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &snap.Raw); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal raw weights")
		}
	}
	return &snap, nil
}

func (s *PostgresStore) Put(ctx context.Context, userKey string, weights model.PreferenceWeights, raw model.RawWeights) error {
	weightsJSON, rawJSON, err := marshalPrefs(weights, raw)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal preferences")
	}
	_, err = s.pool.Exec(ctx, sqlPutPreferences, userKey, weightsJSON, rawJSON, now())
	return eris.Wrapf(err, "postgres: put preferences %s", userKey)
}

func (s *PostgresStore) GetItinerary(ctx context.Context, userKey string) (*CachedItinerary, error) {
	var (
		it       CachedItinerary
		daysJSON []byte
	)
	err := s.pool.QueryRow(ctx, sqlGetItinerary, userKey).
		Scan(&it.UserKey, &daysJSON, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get itinerary %s", userKey)
	}
	if err := json.Unmarshal(daysJSON, &it.Days); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal itinerary")
	}
	return &it, nil
}

func (s *PostgresStore) PutItinerary(ctx context.Context, userKey string, days []model.ItineraryDay) error {
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal itinerary")
	}
	_, err = s.pool.Exec(ctx, sqlPutItinerary, userKey, daysJSON, now())
	return eris.Wrapf(err, "postgres: put itinerary %s", userKey)
}
