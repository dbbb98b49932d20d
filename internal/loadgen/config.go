// Package loadgen generates synthetic time-trial traffic against a running
// server and verifies the leaderboard it reads back.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumPlayers   int           // Number of submissions to generate
	Workers      int           // Number of concurrent submitters
	Rate         float64       // Global submissions per second
	Burst        int           // Rate limiter burst size
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Faker seed; 0 derives one from the clock
	MaxBoardSize int           // Expected maximum leaderboard size
	Verbose      bool          // Enable verbose logging
}

// Summary holds load run statistics.
type Summary struct {
	PlayersGenerated int
	Submitted        int
	Accepted         int
	Rejected         int
	Failed           int
	LeaderboardSize  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// submission is the POST /api/players wire shape.
type submission struct {
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Email      string  `json:"email,omitempty"`
	TimeTaken  float64 `json:"timeTaken"`
}

// rankedEntry is the leaderboard read shape.
type rankedEntry struct {
	Rank       int     `json:"rank"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	TimeTaken  float64 `json:"timeTaken"`
	Score      int     `json:"score"`
}

// healthStatus is the GET /health wire shape.
type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
