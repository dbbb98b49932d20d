// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/timetrial/timetrial/internal/domain/model"
	"github.com/timetrial/timetrial/pkg/metrics"
)

// Default server configuration constants.
const defaultAllowedOrigins = "*"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit validates, scores, and persists a player submission.
	Submit(ctx context.Context, sub model.Submission) (*model.PlayerRecord, error)

	// Leaderboard returns the ranked top entries, best first.
	Leaderboard(ctx context.Context) ([]model.RankedEntry, error)

	// Health reports storage connectivity.
	Health(ctx context.Context) model.Health

	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler

	allowedOrigins string
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allowed origins header value.
func WithAllowedOrigins(origins string) Option {
	return func(s *Server) {
		if origins != "" {
			s.allowedOrigins = origins
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(deps),
		allowedOrigins:     defaultAllowedOrigins,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register attaches middleware and all HTTP routes to the router.
func (s *Server) Register(r *mux.Router) {
	r.Use(RequestIDMiddleware)
	r.Use(CORSMiddleware(s.allowedOrigins))
	r.Use(RecoverMiddleware)

	r.HandleFunc("/api/players",
		MetricsMiddleware(s.playersHandler.HandleCreatePlayer, "players")).
		Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/leaderboard",
		MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).
		Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/stats",
		MetricsMiddleware(s.statsHandler.HandleStats, "stats")).
		Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health",
		MetricsMiddleware(s.healthHandler.HandleHealth, "health")).
		Methods(http.MethodGet)
	r.Handle("/metrics",
		promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).
		Methods(http.MethodGet)
}

// dataEnvelope is the wire shape of every successful /api/* response.
type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope is the wire shape of every failed /api/* response.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: msg})
}
