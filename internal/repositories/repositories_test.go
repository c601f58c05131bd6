package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/soundscout/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestResponseCache(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndLoad", func(t *testing.T) {
		repo := NewResponseCache(setupTestDB(t))

		if err := repo.Save(ctx, "search:a", "search", []byte(`{"results":[]}`), time.Minute); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		payload, ok, err := repo.Load(ctx, "search:a")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if !ok {
			t.Fatal("expected a hit")
		}
		if string(payload) != `{"results":[]}` {
			t.Errorf("unexpected payload %q", payload)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		repo := NewResponseCache(setupTestDB(t))

		_, ok, err := repo.Load(ctx, "missing")
		if err != nil {
			t.Fatalf("expected no error for a miss, got %v", err)
		}
		if ok {
			t.Error("expected a miss")
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		repo := NewResponseCache(setupTestDB(t))

		repo.Save(ctx, "k", "search", []byte("one"), time.Minute)
		if err := repo.Save(ctx, "k", "search", []byte("two"), time.Minute); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		payload, _, _ := repo.Load(ctx, "k")
		if string(payload) != "two" {
			t.Errorf("expected overwritten payload, got %q", payload)
		}
	})

	t.Run("NonPositiveTTLIsIgnored", func(t *testing.T) {
		repo := NewResponseCache(setupTestDB(t))

		if err := repo.Save(ctx, "k", "search", []byte("x"), 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok, _ := repo.Load(ctx, "k"); ok {
			t.Error("expected nothing stored for a zero ttl")
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		clock := newClock()
		repo := NewResponseCache(setupTestDB(t))
		repo.now = clock.now

		repo.Save(ctx, "old", "channel", []byte("x"), time.Minute)
		repo.Save(ctx, "fresh", "channel", []byte("y"), time.Hour)
		clock.advance(2 * time.Minute)

		if _, ok, _ := repo.Load(ctx, "old"); ok {
			t.Error("expected expired row to read as a miss")
		}
		if _, ok, _ := repo.Load(ctx, "fresh"); !ok {
			t.Error("expected unexpired row to hit")
		}

		n, err := repo.Prune()
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned row, got %d", n)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		clock := newClock()
		repo := NewResponseCache(setupTestDB(t))
		repo.now = clock.now

		repo.Save(ctx, "s1", "search", []byte("abc"), time.Minute)
		repo.Save(ctx, "s2", "search", []byte("de"), time.Hour)
		repo.Save(ctx, "c1", "channel", []byte("f"), time.Hour)
		clock.advance(2 * time.Minute)

		stats, err := repo.Stats()
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("expected 2 operations, got %d", len(stats))
		}

		if stats[0].Operation != "channel" || stats[0].Entries != 1 {
			t.Errorf("unexpected channel stats: %+v", stats[0])
		}
		search := stats[1]
		if search.Operation != "search" || search.Entries != 2 || search.Expired != 1 || search.Bytes != 5 {
			t.Errorf("unexpected search stats: %+v", search)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewResponseCache(setupTestDB(t))

		repo.Save(ctx, "a", "search", []byte("x"), time.Minute)
		repo.Save(ctx, "b", "search", []byte("y"), time.Minute)

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 cleared rows, got %d", n)
		}
		if _, ok, _ := repo.Load(ctx, "a"); ok {
			t.Error("expected cache to be empty")
		}
	})
}

func TestAudioURLRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("PutAndGet", func(t *testing.T) {
		repo := NewAudioURLRepository(setupTestDB(t))

		if err := repo.Put(ctx, "dQw4w9WgXcQ", "https://rr.example/audio", time.Hour); err != nil {
			t.Fatalf("failed to put: %v", err)
		}

		url, ok, err := repo.Get(ctx, "dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if !ok || url != "https://rr.example/audio" {
			t.Errorf("expected stored url, got %q (hit=%v)", url, ok)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		repo := NewAudioURLRepository(setupTestDB(t))

		repo.Put(ctx, "dQw4w9WgXcQ", "https://one", time.Hour)
		repo.Put(ctx, "dQw4w9WgXcQ", "https://two", time.Hour)

		url, _, _ := repo.Get(ctx, "dQw4w9WgXcQ")
		if url != "https://two" {
			t.Errorf("expected replaced url, got %q", url)
		}
		if n, _ := repo.Count(); n != 1 {
			t.Errorf("expected 1 row, got %d", n)
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		clock := newClock()
		repo := NewAudioURLRepository(setupTestDB(t))
		repo.now = clock.now

		repo.Put(ctx, "dQw4w9WgXcQ", "https://one", 24*time.Hour)
		clock.advance(25 * time.Hour)

		if _, ok, _ := repo.Get(ctx, "dQw4w9WgXcQ"); ok {
			t.Error("expected expired url to miss")
		}

		n, err := repo.Prune()
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned row, got %d", n)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewAudioURLRepository(setupTestDB(t))
		repo.Put(ctx, "a", "https://a", time.Hour)

		if _, err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n, _ := repo.Count(); n != 0 {
			t.Errorf("expected empty table, got %d", n)
		}
	})
}
