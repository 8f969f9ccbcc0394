// Package storage persists the canonical event set. The set is one
// authoritative document: every extraction pass fully replaces it, there are
// no partial updates.
package storage

import (
	"context"
	"log/slog"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

// Store is the persistence boundary for the event set.
type Store interface {
	Get(ctx context.Context) ([]domain.EventRecord, error)
	Set(ctx context.Context, events []domain.EventRecord) error
	Close() error
}

// New selects a backend once at startup: the SQLite document store when a
// database path is configured and usable, the in-memory store otherwise.
// Selection happens here and never again at call sites.
func New(logger *slog.Logger, dbPath string) Store {
	op := "storage.New()"
	log := logger.With(slog.String("op", op))

	if dbPath == "" {
		log.Info("no database path configured, using in-memory store")
		return NewMemory()
	}

	st, err := NewSqlite(dbPath)
	if err != nil {
		log.Warn("sqlite unavailable, falling back to in-memory store", sl.Err(err))
		return NewMemory()
	}
	log.Info("using sqlite store", slog.String("path", dbPath))
	return st
}
