package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/timetrial/timetrial/internal/adapters/http/api"
	"github.com/timetrial/timetrial/internal/adapters/http/swagger"
	"github.com/timetrial/timetrial/internal/adapters/repository"
	service "github.com/timetrial/timetrial/internal/app"
	"github.com/timetrial/timetrial/internal/config"
	"github.com/timetrial/timetrial/pkg/metrics"
)

func TestMainComponents(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("TIMETRIAL_ADDR", ":8080")
			_ = os.Setenv("TIMETRIAL_STORAGE", "memory")
			_ = os.Setenv("TIMETRIAL_LEADERBOARD_LIMIT", "25")
			defer func() {
				_ = os.Unsetenv("TIMETRIAL_ADDR")
				_ = os.Unsetenv("TIMETRIAL_STORAGE")
				_ = os.Unsetenv("TIMETRIAL_LEADERBOARD_LIMIT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Storage, convey.ShouldEqual, config.StorageMemory)
				convey.So(cfg.LeaderboardLimit, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When creating the service", func() {
			convey.Convey("Then it should be creatable with default options", func() {
				svc := service.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And it should be creatable with custom options", func() {
				svc := service.New(
					service.WithStore(repository.NewMemoryStore()),
					service.WithLeaderboardLimit(25),
					service.WithStorageTimeout(2*time.Second),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating the HTTP server", func() {
			svc := service.New()

			convey.Convey("Then the API server should be creatable", func() {
				server := api.NewServer(svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a metrics manager", func() {
			convey.Convey("Then a custom registry should be accepted", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		convey.Convey("When running the system metrics updater with a short deadline", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When running the service metrics updater with a short deadline", func() {
			svc := service.New()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When updating system metrics directly", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}

func TestMainIntegration(t *testing.T) {
	convey.Convey("Given the full application wiring", t, func() {
		_ = os.Setenv("TIMETRIAL_ADDR", ":8080")
		_ = os.Setenv("TIMETRIAL_STORAGE", "memory")
		defer func() {
			_ = os.Unsetenv("TIMETRIAL_ADDR")
			_ = os.Unsetenv("TIMETRIAL_STORAGE")
		}()

		convey.Convey("Then all components should assemble", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)

			store, err := newStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(store, convey.ShouldNotBeNil)

			svc := service.New(
				service.WithStore(store),
				service.WithLeaderboardLimit(cfg.LeaderboardLimit),
				service.WithStorageTimeout(cfg.StorageTimeout()),
			)
			convey.So(svc, convey.ShouldNotBeNil)

			router := mux.NewRouter()
			api.NewServer(svc, api.WithAllowedOrigins(cfg.CORSAllowedOrigins)).Register(router)
			swagger.Register(router)

			svc.Stop()
		})
	})
}

func TestMainErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the configured address is empty", func() {
			_ = os.Setenv("TIMETRIAL_ADDR", "")
			defer func() { _ = os.Unsetenv("TIMETRIAL_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the service is created with invalid options", func() {
			convey.Convey("Then defaults should be retained", func() {
				svc := service.New(
					service.WithLeaderboardLimit(0),
					service.WithStorageTimeout(0),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				stats := svc.GetStats()
				convey.So(stats["leaderboardLimit"], convey.ShouldEqual, 50)
			})
		})
	})
}
