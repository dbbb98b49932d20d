package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/timetrial/timetrial/internal/domain/model"
)

func record(name string, score int, timeTaken float64) *model.PlayerRecord {
	return &model.PlayerRecord{
		Name:       name,
		Department: "Engineering",
		TimeTaken:  timeTaken,
		Score:      score,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	count, err := store.CountPlayers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	created, err := store.CreatePlayer(ctx, record("alice", 750, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected storage-assigned ID")
	}
	if created.Name != "alice" || created.Score != 750 || created.TimeTaken != 100 {
		t.Errorf("unexpected stored record: %+v", created)
	}

	count, err = store.CountPlayers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	other, err := store.CreatePlayer(ctx, record("bob", 600, 200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.ID == created.ID {
		t.Error("expected distinct IDs for distinct records")
	}

	if !store.Connected(ctx) {
		t.Error("expected store to report connected")
	}
}

func TestMemoryStore_InputNotMutated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := record("alice", 750, 100)
	created, err := store.CreatePlayer(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ID != "" {
		t.Errorf("input record was mutated: ID set to %q", in.ID)
	}

	// Mutating the returned copy must not leak into the store.
	created.Name = "mallory"
	got, err := store.TopPlayers(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Name != "alice" {
		t.Errorf("stored record was aliased: got name %q", got[0].Name)
	}
}

func TestMemoryStore_TopPlayersOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Inserted out of order on purpose.
	inputs := []*model.PlayerRecord{
		record("carol", 450, 300),
		record("alice", 900, 0),
		record("dave", 450, 250), // same score as carol, faster run
		record("bob", 750, 100),
		record("erin", 0, 600),
	}
	for _, in := range inputs {
		if _, err := store.CreatePlayer(ctx, in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := store.TopPlayers(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNames := []string{"alice", "bob", "dave", "carol", "erin"}
	if len(got) != len(wantNames) {
		t.Fatalf("expected %d records, got %d", len(wantNames), len(got))
	}
	for i, want := range wantNames {
		if got[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Name)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("ordering violated at %d: %d > %d", i, got[i].Score, got[i-1].Score)
		}
		if got[i].Score == got[i-1].Score && got[i].TimeTaken < got[i-1].TimeTaken {
			t.Errorf("tie-break violated at %d", i)
		}
	}
}

func TestMemoryStore_TopPlayersLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 60; i++ {
		if _, err := store.CreatePlayer(ctx, record(fmt.Sprintf("player-%d", i), i, float64(600-i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := store.TopPlayers(ctx, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 50 {
		t.Errorf("expected 50 records, got %d", len(got))
	}
	if got[0].Score != 59 {
		t.Errorf("expected best score 59, got %d", got[0].Score)
	}

	if _, err := store.TopPlayers(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.TopPlayers(ctx, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMemoryStore_EmptyTopPlayers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.TopPlayers(ctx, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("expected empty non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestMemoryStore_CloseSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.CreatePlayer(ctx, record("alice", 750, 100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if store.Connected(ctx) {
		t.Error("expected disconnected after close")
	}

	_, err := store.CreatePlayer(ctx, record("bob", 600, 200))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if serr.Op != "create_player" {
		t.Errorf("unexpected op %q", serr.Op)
	}

	if _, err := store.TopPlayers(ctx, 10); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := store.CountPlayers(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Close is idempotent.
	if err := store.Close(ctx); err != nil {
		t.Errorf("unexpected error on second close: %v", err)
	}
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const writers = 32
	const perWriter = 25

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				rec := record(fmt.Sprintf("w%d-%d", w, i), i, float64(i))
				if _, err := store.CreatePlayer(ctx, rec); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	count, err := store.CountPlayers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != writers*perWriter {
		t.Errorf("expected %d records, got %d", writers*perWriter, count)
	}

	got, err := store.TopPlayers(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("expected 10 records, got %d", len(got))
	}
}

func BenchmarkMemoryStoreTopPlayers(b *testing.B) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 0; i < 10_000; i++ {
		_, _ = store.CreatePlayer(ctx, record(fmt.Sprintf("player-%d", i), i%900, float64(i%600)))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.TopPlayers(ctx, 50); err != nil {
			b.Fatal(err)
		}
	}
}
