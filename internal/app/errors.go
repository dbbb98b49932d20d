package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNoStore is returned by Start when no player store was configured.
	ErrNoStore = errors.New("no store configured")

	// ErrNotStarted is returned by operations invoked before Start.
	ErrNotStarted = errors.New("service not started")
)
