package loadgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/timetrial/timetrial/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	first := newGenerator(42).Players(20)
	second := newGenerator(42).Players(20)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed produced different submissions")
	}
}

func TestGenerator_Fields(t *testing.T) {
	valid := make(map[string]bool, len(departments))
	for _, d := range departments {
		valid[d] = true
	}

	for i, sub := range newGenerator(7).Players(200) {
		if sub.Name == "" {
			t.Errorf("submission %d has empty name", i)
		}
		if !valid[sub.Department] {
			t.Errorf("submission %d has unknown department %q", i, sub.Department)
		}
		if !strings.Contains(sub.Email, "@") {
			t.Errorf("submission %d has malformed email %q", i, sub.Email)
		}
		if sub.TimeTaken < fastMin || sub.TimeTaken >= overMax {
			t.Errorf("submission %d time %.3f outside [%.0f, %.0f)", i, sub.TimeTaken, fastMin, overMax)
		}
	}
}

func TestVerifyLeaderboard(t *testing.T) {
	entry := func(rank, score int, timeTaken float64) rankedEntry {
		return rankedEntry{
			Rank:      rank,
			ID:        "p" + string(rune('0'+rank)),
			Name:      "Player",
			TimeTaken: timeTaken,
			Score:     score,
		}
	}

	tests := []struct {
		name    string
		entries []rankedEntry
		maxSize int
		wantErr string
	}{
		{
			name:    "valid board",
			entries: []rankedEntry{entry(1, 800, 60), entry(2, 700, 120), entry(3, 700, 120.4)},
			maxSize: 50,
		},
		{
			name:    "empty board",
			entries: nil,
			maxSize: 50,
		},
		{
			name:    "oversized board",
			entries: []rankedEntry{entry(1, 800, 60), entry(2, 700, 120), entry(3, 600, 180)},
			maxSize: 2,
			wantErr: "at most 2",
		},
		{
			name:    "rank gap",
			entries: []rankedEntry{entry(1, 800, 60), entry(3, 700, 120)},
			maxSize: 50,
			wantErr: "expected 2",
		},
		{
			name:    "score inversion",
			entries: []rankedEntry{entry(1, 700, 120), entry(2, 800, 60)},
			maxSize: 50,
			wantErr: "not sorted",
		},
		{
			name:    "tie not broken by time",
			entries: []rankedEntry{entry(1, 700, 130), entry(2, 700, 120)},
			maxSize: 50,
			wantErr: "tie at score 700",
		},
		{
			name:    "missing id",
			entries: []rankedEntry{{Rank: 1, Score: 800, TimeTaken: 60}},
			maxSize: 50,
			wantErr: "no ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyLeaderboard(tt.entries, tt.maxSize)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHTTPClient_CheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:   "connected",
			status: http.StatusOK,
			body:   `{"status":"OK","database":"Connected"}`,
		},
		{
			name:    "disconnected",
			status:  http.StatusOK,
			body:    `{"status":"DEGRADED","database":"Disconnected"}`,
			wantErr: "Disconnected",
		},
		{
			name:    "unavailable",
			status:  http.StatusServiceUnavailable,
			body:    `{}`,
			wantErr: "status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newHTTPClient(srv.URL, time.Second).CheckHealth(context.Background())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHTTPClient_SubmitPlayer(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusCreated, outcomeAccepted},
		{http.StatusBadRequest, outcomeRejected},
		{http.StatusInternalServerError, outcomeFailed},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/players" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var sub submission
			if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
				t.Errorf("body did not decode: %v", err)
			}
			w.WriteHeader(tt.status)
		}))

		got := newHTTPClient(srv.URL, time.Second).SubmitPlayer(context.Background(), submission{
			Name:       "Ada",
			Department: "Engineering",
			TimeTaken:  120,
		})
		if got != tt.want {
			t.Errorf("status %d classified as %s, want %s", tt.status, got, tt.want)
		}
		srv.Close()
	}
}

func TestHTTPClient_FetchLeaderboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"rank":1,"id":"p1","name":"Ada","department":"Engineering","timeTaken":60,"score":810}]}`))
	}))
	defer srv.Close()

	entries, err := newHTTPClient(srv.URL, time.Second).FetchLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != "p1" || entries[0].Score != 810 || entries[0].Rank != 1 {
		t.Errorf("unexpected entry: %+v", entries[0])
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"failed to load leaderboard"}`))
	}))
	defer failing.Close()

	if _, err := newHTTPClient(failing.URL, time.Second).FetchLeaderboard(context.Background()); err == nil {
		t.Fatal("expected error from failing server")
	}

	rejected := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"nope"}`))
	}))
	defer rejected.Close()

	if _, err := newHTTPClient(rejected.URL, time.Second).FetchLeaderboard(context.Background()); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	var posted int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/health":
			w.Write([]byte(`{"status":"OK","database":"Connected"}`))
		case r.URL.Path == "/api/players" && r.Method == http.MethodPost:
			atomic.AddInt64(&posted, 1)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"data":{"id":"p1"}}`))
		case r.URL.Path == "/api/leaderboard":
			w.Write([]byte(`{"success":true,"data":[{"rank":1,"id":"p1","name":"Ada","department":"Engineering","timeTaken":60,"score":810}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := Run(ctx, &Config{
		BaseURL:      srv.URL,
		NumPlayers:   25,
		Workers:      4,
		Rate:         500,
		Burst:        50,
		Timeout:      5 * time.Second,
		Seed:         42,
		MaxBoardSize: 50,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := atomic.LoadInt64(&posted); got != 25 {
		t.Errorf("expected 25 submissions, server saw %d", got)
	}
}
