// Package scoring converts challenge completion times into scores.
package scoring

import (
	"math"
)

// Default scoring configuration constants.
const (
	defaultTimeBudget = 600.0 // seconds allotted for the challenge
	defaultMultiplier = 1.5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTimeBudget sets the time budget in seconds.
func WithTimeBudget(seconds float64) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.timeBudget = seconds
		}
	}
}

// WithMultiplier sets the score multiplier.
func WithMultiplier(multiplier float64) Option {
	return func(e *Engine) {
		if multiplier > 0 {
			e.multiplier = multiplier
		}
	}
}

// Engine computes scores from completion times. It is pure: no clock, no
// I/O, no hidden state, so identical inputs always produce identical scores.
type Engine struct {
	timeBudget float64
	multiplier float64
}

// New creates an engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		timeBudget: defaultTimeBudget,
		multiplier: defaultMultiplier,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score computes floor((budget - timeTaken) * multiplier) for a completion
// time in seconds. The result is never negative: times at or over the budget
// score zero. Fractional seconds take part in the multiplication before the
// floor is applied.
func (e *Engine) Score(timeTaken float64) int {
	// Non-finite times are outside the contract; score them like
	// over-budget runs.
	if math.IsNaN(timeTaken) || math.IsInf(timeTaken, 0) {
		return 0
	}

	score := math.Floor((e.timeBudget - timeTaken) * e.multiplier)
	if score < 0 {
		return 0
	}
	return int(score)
}

// MaxScore returns the score of a zero-time run.
func (e *Engine) MaxScore() int {
	return e.Score(0)
}

// TimeBudget returns the configured budget in seconds.
func (e *Engine) TimeBudget() float64 {
	return e.timeBudget
}
