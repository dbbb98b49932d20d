package logger

import (
	"context"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-initialization replaces the global.
	err = Init()
	if err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil")
	}

	ctx := context.Background()
	logger.Info(ctx, "test message",
		String("k", "v"),
		Int("n", 1),
		Int64("n64", 2),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", time.Second),
		Any("a", struct{}{}),
	)
	logger.Debug(ctx, "debug message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")
}

func TestLoggerNamed(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestContextWithFields(t *testing.T) {
	ctx := context.Background()

	if got := fieldsFromContext(ctx); got != nil {
		t.Fatalf("expected no fields on fresh context, got %v", got)
	}

	ctx = ContextWithFields(ctx, String("request_id", "abc"))
	fields := fieldsFromContext(ctx)
	if len(fields) != 1 || fields[0].Key != "request_id" {
		t.Fatalf("unexpected fields: %v", fields)
	}

	// Fields accumulate rather than replace.
	ctx = ContextWithFields(ctx, String("endpoint", "players"))
	fields = fieldsFromContext(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "request_id" || fields[1].Key != "endpoint" {
		t.Fatalf("unexpected field order: %v", fields)
	}

	// No-op when nothing is added.
	same := ContextWithFields(ctx)
	if same != ctx {
		t.Fatal("expected identical context when no fields are added")
	}

	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	Get().Info(ctx, "message with context fields")
}

func TestSetLevelString(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", " INFO "} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) returned error: %v", level, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
