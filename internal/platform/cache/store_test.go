package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 6, 11, 18, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "standings:t1", 1)
	if _, ok := store.Get(context.Background(), "standings:t1"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "standings:t1"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, len=%d", store.Len())
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)
	store.Set(ctx, "matches:t1:list", 1)
	store.Set(ctx, "matches:t1:m1", 2)
	store.Set(ctx, "matches:t2:list", 3)

	store.DeletePrefix(ctx, "matches:t1:")
	if store.Len() != 1 {
		t.Fatalf("unexpected entries after delete: got=%d want=1", store.Len())
	}
	if _, ok := store.Get(ctx, "matches:t2:list"); !ok {
		t.Fatalf("unrelated key must survive")
	}
}

func TestLoad_TypedAndErrorsNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	_, err := Load(ctx, store, "k", func(context.Context) ([]string, error) {
		calls.Add(1)
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	got, err := Load(ctx, store, "k", func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a"}, nil
	})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected value: %v", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("loader called %d times, want 2", calls.Load())
	}

	store.Set(ctx, "wrong", 42)
	if _, err := Load(ctx, store, "wrong", func(context.Context) (string, error) { return "", nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}

	stats := store.Stats()
	if stats.Loads != 2 || stats.Hits < 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
