package loadgen

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/timetrial/timetrial/pkg/logger"
)

// progressInterval controls how often verbose runs log submission progress.
const progressInterval = 500

// Run executes a complete load run: health probe, submission storm,
// leaderboard fetch, verification.
func Run(ctx context.Context, config *Config) error {
	summary := &Summary{StartTime: time.Now()}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	logger.Get().Info(ctx, "starting load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("workers", config.Workers),
		logger.Float64("rate", config.Rate),
		logger.Int64("seed", int64(seed)),
	)

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := client.CheckHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	players := newGenerator(seed).Players(config.NumPlayers)
	summary.PlayersGenerated = len(players)

	if err := submitPlayers(ctx, config, client, players, summary); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	entries, err := client.FetchLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard fetch failed: %w", err)
	}
	summary.LeaderboardSize = len(entries)

	if err := verifyLeaderboard(entries, config.MaxBoardSize); err != nil {
		return fmt.Errorf("leaderboard verification failed: %w", err)
	}
	logger.Get().Info(ctx, "leaderboard verified",
		logger.Int("entries", len(entries)),
		logger.Int("maxSize", config.MaxBoardSize),
	)

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	displaySummary(ctx, summary)
	return nil
}

// submitPlayers pushes submissions through a rate-limited worker pool.
func submitPlayers(ctx context.Context, config *Config, client *HTTPClient, players []submission, summary *Summary) error {
	logger.Get().Info(ctx, "submitting players",
		logger.Int("count", len(players)),
		logger.Int("workers", config.Workers),
	)

	limiter := rate.NewLimiter(rate.Limit(config.Rate), config.Burst)

	var (
		submitted int64
		accepted  int64
		rejected  int64
		failed    int64
	)

	subChan := make(chan submission, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for sub := range subChan {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				outcome := client.SubmitPlayer(ctx, sub)
				total := atomic.AddInt64(&submitted, 1)
				switch outcome {
				case outcomeAccepted:
					atomic.AddInt64(&accepted, 1)
				case outcomeRejected:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if config.Verbose && total%progressInterval == 0 {
					logger.Get().Info(ctx, "submission progress",
						logger.Int64("submitted", total),
						logger.Int("total", len(players)),
					)
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range players {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	summary.Submitted = int(atomic.LoadInt64(&submitted))
	summary.Accepted = int(atomic.LoadInt64(&accepted))
	summary.Rejected = int(atomic.LoadInt64(&rejected))
	summary.Failed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "submission completed",
		logger.Int("accepted", summary.Accepted),
		logger.Int("rejected", summary.Rejected),
		logger.Int("failed", summary.Failed),
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}
	return nil
}

// displaySummary prints the final load run statistics.
func displaySummary(ctx context.Context, summary *Summary) {
	var successRate, perSecond float64
	if summary.Submitted > 0 {
		successRate = float64(summary.Accepted) / float64(summary.Submitted) * 100
	}
	if summary.Duration > 0 {
		perSecond = float64(summary.Submitted) / summary.Duration.Seconds()
	}

	logger.Get().Info(ctx, "load run summary",
		logger.Int("playersGenerated", summary.PlayersGenerated),
		logger.Int("submitted", summary.Submitted),
		logger.Int("accepted", summary.Accepted),
		logger.Int("rejected", summary.Rejected),
		logger.Int("failed", summary.Failed),
		logger.Int("leaderboardEntries", summary.LeaderboardSize),
		logger.Duration("duration", summary.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("submissionsPerSecond", perSecond),
	)
}
