package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"repolens/internal/errors"
	"repolens/internal/logging"
)

func openTestStore(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"), ttl, logging.Nop())
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := openTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "repo", analysis("run-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := s.Get(ctx, "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || got.ID != "run-1" {
		t.Errorf("expected run-1, got %+v", got)
	}
	if got.Repository != "https://example.com/repo.git" {
		t.Errorf("unexpected repository: %s", got.Repository)
	}
}

func TestSQLiteStore_Miss(t *testing.T) {
	s := openTestStore(t, time.Hour)
	if _, ok, err := s.Get(context.Background(), "absent"); err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStore_Expiry(t *testing.T) {
	// A negative TTL makes every entry already expired on write.
	s := openTestStore(t, -time.Second)
	ctx := context.Background()

	if err := s.Put(ctx, "repo", analysis("run-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, err := s.Get(ctx, "repo"); err != nil || ok {
		t.Errorf("expected expired miss, got ok=%v err=%v", ok, err)
	}

	// The expired row is evicted; a second read is still a clean miss.
	if _, ok, _ := s.Get(ctx, "repo"); ok {
		t.Error("expected eviction after expiry")
	}
}

func TestSQLiteStore_FailuresCarryCacheCode(t *testing.T) {
	s := openTestStore(t, time.Hour)
	s.Close()
	ctx := context.Background()

	err := s.Put(ctx, "repo", analysis("run-1"))
	if err == nil {
		t.Fatal("expected error on closed store")
	}
	if !errors.IsCode(err, errors.CacheFailed) {
		t.Errorf("expected CACHE_FAILED, got %v", err)
	}

	if _, _, err := s.Get(ctx, "repo"); !errors.IsCode(err, errors.CacheFailed) {
		t.Errorf("expected CACHE_FAILED, got %v", err)
	}
}

func TestSQLiteStore_Replace(t *testing.T) {
	s := openTestStore(t, time.Hour)
	ctx := context.Background()

	s.Put(ctx, "repo", analysis("run-1"))
	s.Put(ctx, "repo", analysis("run-2"))

	got, ok, _ := s.Get(ctx, "repo")
	if !ok || got.ID != "run-2" {
		t.Errorf("expected latest entry, got %+v", got)
	}
}
