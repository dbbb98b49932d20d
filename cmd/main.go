package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/timetrial/timetrial/internal/adapters/cache"
	"github.com/timetrial/timetrial/internal/adapters/http/api"
	"github.com/timetrial/timetrial/internal/adapters/http/swagger"
	"github.com/timetrial/timetrial/internal/adapters/repository"
	service "github.com/timetrial/timetrial/internal/app"
	"github.com/timetrial/timetrial/internal/config"
	"github.com/timetrial/timetrial/internal/domain/scoring"
	"github.com/timetrial/timetrial/pkg/logger"
	"github.com/timetrial/timetrial/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	statsRefreshInterval  = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// The logger is not available yet, so write straight to stderr.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open storage", logger.String("storage", cfg.Storage), logger.Error(err))
		return
	}

	// Optional Redis-backed leaderboard cache.
	var (
		redisClient *redis.Client
		boardCache  service.LeaderboardCache
	)
	if cfg.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		boardCache = cache.NewLeaderboard(redisClient, cache.WithTTL(cfg.CacheTTL()))
		log.Info(ctx, "leaderboard cache enabled", logger.String("redis_addr", cfg.RedisAddr), logger.Duration("ttl", cfg.CacheTTL()))
	}

	engine := scoring.New(
		scoring.WithTimeBudget(cfg.TimeBudgetSeconds),
		scoring.WithMultiplier(cfg.ScoreMultiplier),
	)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithStore(store),
		service.WithEngine(engine),
		service.WithLeaderboardLimit(cfg.LeaderboardLimit),
		service.WithStorageTimeout(cfg.StorageTimeout()),
	}
	if boardCache != nil {
		opts = append(opts, service.WithCache(boardCache))
	}
	svc := service.New(opts...)

	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	// Stop closes the store; the cache client is released separately below.
	defer svc.Stop()
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP router and routes.
	router := mux.NewRouter()

	apiServer := api.NewServer(svc, api.WithAllowedOrigins(cfg.CORSAllowedOrigins))
	apiServer.Register(router)

	// API docs under /api-docs.
	swagger.Register(router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage", cfg.Storage),
			logger.Bool("cache", boardCache != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newStore opens the configured storage backend.
func newStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.Storage == config.StorageMongo {
		return repository.NewMongoStore(ctx,
			repository.WithURI(cfg.MongoURI),
			repository.WithDatabase(cfg.MongoDatabase),
			repository.WithCollection(cfg.MongoCollection),
			repository.WithOperationTimeout(cfg.StorageTimeout()),
		)
	}
	return repository.NewMemoryStore(), nil
}

// startSystemMetricsUpdater refreshes process-level gauges on a fixed interval.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes service gauges from the stats snapshot.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(statsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the players-total and storage gauges as a side effect.
			svc.GetStats()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
