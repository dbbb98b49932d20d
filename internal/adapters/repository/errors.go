package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for storage errors.
var (
	ErrClosed       = errors.New("store is closed")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)

// StorageError wraps a failed storage operation with its operation name.
// Callers branch on it with errors.As; the underlying cause stays available
// through Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
