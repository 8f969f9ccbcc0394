package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
)

// The event set is stored as one JSON document under a fixed key, mirroring
// the replace-the-whole-array persistence model. A relational per-event
// schema would invite partial updates the model forbids.
const eventSetKey = "events"

const schema = `
CREATE TABLE IF NOT EXISTS event_sets (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Sqlite is the durable document store.
type Sqlite struct {
	db *sqlx.DB
}

func NewSqlite(path string) (*Sqlite, error) {
	op := "storage.NewSqlite()"

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Sqlite{db: db}, nil
}

func (s *Sqlite) Get(ctx context.Context) ([]domain.EventRecord, error) {
	op := "storage.Sqlite.Get()"

	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM event_sets WHERE key = ?", eventSetKey)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.EventRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var events []domain.EventRecord
	if err := json.Unmarshal([]byte(payload), &events); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (s *Sqlite) Set(ctx context.Context, events []domain.EventRecord) error {
	op := "storage.Sqlite.Set()"

	if events == nil {
		events = []domain.EventRecord{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO event_sets (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = excluded.updated_at`,
		eventSetKey, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}
