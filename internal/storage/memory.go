package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
)

// Memory keeps the event set in process memory. Used when no database is
// configured and as the fallback when the sqlite file cannot be opened.
type Memory struct {
	mu     sync.RWMutex
	events []domain.EventRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context) ([]domain.EventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events), nil
}

func (m *Memory) Set(_ context.Context, events []domain.EventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = slices.Clone(events)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
