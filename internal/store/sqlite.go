package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/tripscore/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS preferences (
	user_key   TEXT PRIMARY KEY,
	weights    TEXT NOT NULL,
	raw        TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS itineraries (
	user_key   TEXT PRIMARY KEY,
	days       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, userKey string) (*Snapshot, error) {
	var (
		snap                Snapshot
		weightsJSON, rawJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_key, weights, raw, updated_at FROM preferences WHERE user_key = ?`,
		userKey,
	).Scan(&snap.UserKey, &weightsJSON, &rawJSON, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get preferences %s", userKey)
	}
	if err := json.Unmarshal([]byte(weightsJSON), &snap.Weights); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal weights")
	}
	if err := json.Unmarshal([]byte(rawJSON), &snap.Raw); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal raw weights")
	}
	return &snap, nil
}

func (s *SQLiteStore) Put(ctx context.Context, userKey string, weights model.PreferenceWeights, raw model.RawWeights) error {
	weightsJSON, rawJSON, err := marshalPrefs(weights, raw)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal preferences")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (user_key, weights, raw, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_key) DO UPDATE SET weights = excluded.weights, raw = excluded.raw, updated_at = excluded.updated_at`,
		userKey, string(weightsJSON), string(rawJSON), now(),
	)
	return eris.Wrapf(err, "sqlite: put preferences %s", userKey)
}

func (s *SQLiteStore) GetItinerary(ctx context.Context, userKey string) (*CachedItinerary, error) {
	var (
		it       CachedItinerary
		daysJSON string
		created  time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_key, days, created_at FROM itineraries WHERE user_key = ?`,
		userKey,
	).Scan(&it.UserKey, &daysJSON, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get itinerary %s", userKey)
	}
	if err := json.Unmarshal([]byte(daysJSON), &it.Days); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal itinerary")
	}
	it.CreatedAt = created
	return &it, nil
}

func (s *SQLiteStore) PutItinerary(ctx context.Context, userKey string, days []model.ItineraryDay) error {
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal itinerary")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO itineraries (user_key, days, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_key) DO UPDATE SET days = excluded.days, created_at = excluded.created_at`,
		userKey, string(daysJSON), now(),
	)
	return eris.Wrapf(err, "sqlite: put itinerary %s", userKey)
}

func marshalPrefs(weights model.PreferenceWeights, raw model.RawWeights) ([]byte, []byte, error) {
	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return nil, nil, err
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, err
	}
	return weightsJSON, rawJSON, nil
}
