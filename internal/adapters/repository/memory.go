package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/timetrial/timetrial/internal/domain/model"
	"github.com/timetrial/timetrial/pkg/metrics"
)

// MemoryStore is an in-memory Store for dependency-free local runs and
// tests. Records are copied on the way in and out, so callers never alias
// internal state.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.PlayerRecord
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make([]model.PlayerRecord, 0)}
}

// CreatePlayer stores a copy of the record with a fresh UUID as its ID.
func (s *MemoryStore) CreatePlayer(_ context.Context, rec *model.PlayerRecord) (*model.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fail(opCreatePlayer, ErrClosed)
	}

	stored := *rec
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.records = append(s.records, stored)

	out := stored
	return &out, nil
}

// TopPlayers sorts a copy of the records by score descending, ties broken by
// ascending time taken, and truncates to limit.
func (s *MemoryStore) TopPlayers(_ context.Context, limit int) ([]model.PlayerRecord, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fail(opTopPlayers, ErrClosed)
	}

	out := make([]model.PlayerRecord, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TimeTaken < out[j].TimeTaken
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountPlayers returns the number of stored records.
func (s *MemoryStore) CountPlayers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fail(opCountPlayers, ErrClosed)
	}
	return int64(len(s.records)), nil
}

// Connected reports true until the store is closed.
func (s *MemoryStore) Connected(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics.UpdateStorageConnected(!s.closed)
	return !s.closed
}

// Close drops all records. Subsequent operations fail with ErrClosed.
func (s *MemoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}
