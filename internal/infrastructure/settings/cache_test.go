package settings

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingSource struct {
	calls  int
	values map[string]string
	err    error
}

func (s *countingSource) Settings(ctx context.Context) (map[string]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.values, nil
}

func TestCacheServesSnapshotWithinTTL(t *testing.T) {
	t.Parallel()

	src := &countingSource{values: map[string]string{"automationLevel": "full"}}
	c := NewCache(src, time.Minute)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		got, err := c.Settings(context.Background())
		if err != nil {
			t.Fatalf("Settings: %v", err)
		}
		if got["automationLevel"] != "full" {
			t.Fatalf("got %v", got)
		}
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}

	current = base.Add(61 * time.Second)
	if _, err := c.Settings(context.Background()); err != nil {
		t.Fatalf("Settings after expiry: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("source calls after expiry = %d, want 2", src.calls)
	}
}

func TestCacheServesStaleOnSourceError(t *testing.T) {
	t.Parallel()

	src := &countingSource{values: map[string]string{"minIdeaQueue": "5"}}
	c := NewCache(src, time.Minute)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	if _, err := c.Settings(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	src.err = errors.New("db down")
	current = base.Add(2 * time.Minute)

	got, err := c.Settings(context.Background())
	if err != nil {
		t.Fatalf("want stale snapshot, got error %v", err)
	}
	if got["minIdeaQueue"] != "5" {
		t.Errorf("stale snapshot = %v", got)
	}
}

func TestCacheErrorsWithoutSnapshot(t *testing.T) {
	t.Parallel()

	src := &countingSource{err: errors.New("db down")}
	c := NewCache(src, time.Minute)

	if _, err := c.Settings(context.Background()); err == nil {
		t.Fatal("expected error on cold cache")
	}
}
