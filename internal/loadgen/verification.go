package loadgen

import (
	"fmt"
)

// verifyLeaderboard checks the structural invariants of a leaderboard
// read: bounded size, consecutive 1-based ranks, scores sorted descending
// with ties broken by the faster time.
func verifyLeaderboard(entries []rankedEntry, maxSize int) error {
	if len(entries) > maxSize {
		return fmt.Errorf("leaderboard has %d entries, expected at most %d", len(entries), maxSize)
	}

	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d, expected %d", i, e.Rank, i+1)
		}
		if e.ID == "" {
			return fmt.Errorf("entry at rank %d has no ID", e.Rank)
		}
		if i == 0 {
			continue
		}

		prev := entries[i-1]
		if e.Score > prev.Score {
			return fmt.Errorf("leaderboard not sorted: rank %d score %d exceeds rank %d score %d",
				e.Rank, e.Score, prev.Rank, prev.Score)
		}
		if e.Score == prev.Score && e.TimeTaken < prev.TimeTaken {
			return fmt.Errorf("tie at score %d not broken by time: rank %d ran %.3fs, rank %d ran %.3fs",
				e.Score, prev.Rank, prev.TimeTaken, e.Rank, e.TimeTaken)
		}
	}
	return nil
}
