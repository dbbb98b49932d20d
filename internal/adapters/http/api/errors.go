// Package api declares HTTP contracts and route registration helpers.
package api

// Client-facing error messages. Internal causes are logged, never leaked
// in response bodies.
const (
	msgInvalidBody = "invalid request body"
	msgSaveFailed  = "failed to save player"
	msgLoadFailed  = "failed to load leaderboard"
	msgInternal    = "internal server error"
)
