// Package repository defines the player store interface and its backends.
package repository

import (
	"context"

	"github.com/timetrial/timetrial/internal/domain/model"
	"github.com/timetrial/timetrial/pkg/metrics"
)

// Storage operation names used in errors and metrics.
const (
	opConnect      = "connect"
	opCreatePlayer = "create_player"
	opTopPlayers   = "top_players"
	opCountPlayers = "count_players"
	opPing         = "ping"
	opEnsureIndex  = "ensure_index"
	opClose        = "close"
)

// Store provides access to persisted player records.
type Store interface {
	// CreatePlayer persists a record and returns a copy carrying the
	// storage-assigned ID. The input record is not mutated.
	CreatePlayer(ctx context.Context, rec *model.PlayerRecord) (*model.PlayerRecord, error)

	// TopPlayers returns at most limit records ordered by score descending,
	// ties broken by ascending time taken.
	// Returns ErrInvalidLimit if limit is not positive.
	TopPlayers(ctx context.Context, limit int) ([]model.PlayerRecord, error)

	// CountPlayers returns the number of stored records.
	CountPlayers(ctx context.Context) (int64, error)

	// Connected reports whether the backend is currently reachable.
	Connected(ctx context.Context) bool

	// Close releases the backend connection. The store is unusable afterwards.
	Close(ctx context.Context) error
}

// fail records the error metric for op and wraps err as a *StorageError.
func fail(op string, err error) error {
	metrics.RecordStorageError(op)
	return &StorageError{Op: op, Err: err}
}
