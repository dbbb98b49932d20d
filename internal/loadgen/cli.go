package loadgen

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/timetrial/timetrial/pkg/logger"
)

const (
	defaultNumPlayers = 1000
	defaultRate       = 200.0
	defaultBurst      = 50
	defaultTimeout    = 30 * time.Second
	defaultBoardSize  = 50
	defaultRunTimeout = 10 * time.Minute
)

// NewApp builds the loadgen command line application.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "loadgen",
		Usage: "generate synthetic time-trial submissions and verify the leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "base URL of the running server",
				Value: "http://localhost:8080",
			},
			&cli.IntFlag{
				Name:  "players",
				Usage: "number of players to generate and submit",
				Value: defaultNumPlayers,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of concurrent submission workers",
				Value: runtime.NumCPU() * 2,
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "maximum submissions per second",
				Value: defaultRate,
			},
			&cli.IntFlag{
				Name:  "burst",
				Usage: "submission burst allowance",
				Value: defaultBurst,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-request HTTP timeout",
				Value: defaultTimeout,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "random seed, 0 picks one from the clock",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "board-size",
				Usage: "maximum leaderboard size to verify against",
				Value: defaultBoardSize,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log per-batch submission progress",
			},
		},
		Action: func(c *cli.Context) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			if c.Bool("verbose") {
				logger.SetLevelString("debug")
			}

			ctx, cancel := context.WithTimeout(c.Context, defaultRunTimeout)
			defer cancel()

			return Run(ctx, &Config{
				BaseURL:      c.String("url"),
				NumPlayers:   c.Int("players"),
				Workers:      c.Int("workers"),
				Rate:         c.Float64("rate"),
				Burst:        c.Int("burst"),
				Timeout:      c.Duration("timeout"),
				Seed:         c.Uint64("seed"),
				MaxBoardSize: c.Int("board-size"),
				Verbose:      c.Bool("verbose"),
			})
		},
	}
}
