// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/timetrial/timetrial/internal/adapters/repository"
	"github.com/timetrial/timetrial/internal/domain/model"
	"github.com/timetrial/timetrial/internal/domain/scoring"
	"github.com/timetrial/timetrial/pkg/logger"
	"github.com/timetrial/timetrial/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultLeaderboardLimit = 50
	defaultStorageTimeout   = 5 * time.Second
	healthProbeTimeout      = 2 * time.Second
)

// LeaderboardCache is the optional read cache the service consults before
// hitting storage. Cache failures are logged and absorbed, never surfaced.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]model.RankedEntry, bool, error)
	Set(ctx context.Context, entries []model.RankedEntry) error
	Invalidate(ctx context.Context) error
}

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	cache  LeaderboardCache
	engine *scoring.Engine

	// Configuration
	leaderboardLimit int
	storageTimeout   time.Duration

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the player store. The service owns the store after Start
// and closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the optional leaderboard read cache.
func WithCache(c LeaderboardCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithEngine sets the score engine.
func WithEngine(engine *scoring.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithLeaderboardLimit sets how many entries a leaderboard read returns.
func WithLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.leaderboardLimit = limit
		}
	}
}

// WithStorageTimeout bounds every storage operation issued by the service.
func WithStorageTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.storageTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:           scoring.New(),
		leaderboardLimit: defaultLeaderboardLimit,
		storageTimeout:   defaultStorageTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start verifies the service wiring and probes storage connectivity.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		return ErrNoStore
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	if !s.store.Connected(ctx) {
		// Degraded start is allowed; /health reports the state.
		s.logger.Warn(ctx, "storage not reachable at startup")
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("leaderboardLimit", s.leaderboardLimit),
		logger.Duration("storageTimeout", s.storageTimeout),
		logger.Bool("cacheEnabled", s.cache != nil),
	)

	return nil
}

// Stop gracefully shuts down the service and closes the store it owns.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")

	if err := s.store.Close(ctx); err != nil {
		s.logger.Warn(ctx, "closing store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "leaderboard service stopped")
}

// running reports whether Start has completed. Collaborators are immutable
// after New, so operations only need this flag before touching them.
func (s *Service) running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Submit validates a submission, scores it, and persists the record. The
// returned record carries the storage-assigned ID and creation time.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (*model.PlayerRecord, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}

	if err := sub.Validate(); err != nil {
		metrics.RecordSubmissionRejected()
		return nil, err
	}

	score := s.engine.Score(*sub.TimeTaken)
	rec := sub.Record(score, time.Now().UTC())

	opCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	created, err := s.store.CreatePlayer(opCtx, rec)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn(ctx, "leaderboard cache invalidation failed", logger.Error(err))
		}
	}

	metrics.RecordSubmission(score)
	s.logger.Debug(ctx, "submission accepted",
		logger.String("id", created.ID),
		logger.String("name", created.Name),
		logger.Int("score", created.Score),
		logger.Float64("timeTaken", created.TimeTaken),
	)

	return created, nil
}

// Leaderboard returns the ranked top entries, best first. Ranks are
// assigned here, 1-based, after the sorted read.
func (s *Service) Leaderboard(ctx context.Context) ([]model.RankedEntry, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}

	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn(ctx, "leaderboard cache read failed", logger.Error(err))
			metrics.RecordCacheMiss()
		case ok:
			metrics.RecordCacheHit()
			metrics.RecordLeaderboardRead()
			return entries, nil
		default:
			metrics.RecordCacheMiss()
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	records, err := s.store.TopPlayers(opCtx, s.leaderboardLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]model.RankedEntry, len(records))
	for i, rec := range records {
		entries[i] = model.RankedEntry{Rank: i + 1, PlayerRecord: rec}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entries); err != nil {
			s.logger.Warn(ctx, "leaderboard cache write failed", logger.Error(err))
		}
	}

	metrics.RecordLeaderboardRead()
	return entries, nil
}

// Health reports storage connectivity in the /health wire shape. It never
// fails; degradation shows up in the body.
func (s *Service) Health(ctx context.Context) model.Health {
	if !s.running() {
		return model.HealthFor(false)
	}

	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	return model.HealthFor(s.store.Connected(probeCtx))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"leaderboardLimit":  s.leaderboardLimit,
		"cacheEnabled":      s.cache != nil,
		"maxScore":          s.engine.MaxScore(),
		"timeBudgetSeconds": s.engine.TimeBudget(),
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["storageConnected"] = s.store.Connected(ctx)

		count, err := s.store.CountPlayers(ctx)
		if err != nil {
			count = -1
		}
		stats["totalPlayers"] = count
		metrics.UpdatePlayersTotal(count)
	}

	return stats
}
