// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mkweon/paperweb/pkg/types"
)

func testPapers(n int) []types.RecommendedPaper {
	papers := make([]types.RecommendedPaper, n)
	for i := range papers {
		papers[i] = types.RecommendedPaper{Title: "Paper", CitationCount: i}
	}
	return papers
}

func countingFetcher(calls *int32, papers []types.RecommendedPaper) Fetcher {
	return func(_ context.Context, _ types.LookupKey, _ int) ([]types.RecommendedPaper, error) {
		atomic.AddInt32(calls, 1)
		return papers, nil
	}
}

func TestGetOrFetchHitWithinTTL(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})
	var calls int32
	fetch := countingFetcher(&calls, testPapers(3))

	for i := 0; i < 2; i++ {
		got, err := c.GetOrFetch(context.Background(), "ArXiv:2301.07041", 10, fetch)
		if err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len(got) = %d, want 3", len(got))
		}
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetcher called %d times, want 1", n)
	}
}

func TestGetOrFetchDistinctLimitsCachedIndependently(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})
	var calls int32
	fetch := countingFetcher(&calls, testPapers(3))

	ctx := context.Background()
	for _, limit := range []int{5, 10, 5, 10} {
		if _, err := c.GetOrFetch(ctx, "ArXiv:2301.07041", limit, fetch); err != nil {
			t.Fatalf("GetOrFetch(limit=%d) error = %v", limit, err)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetcher called %d times, want one per distinct limit (2)", n)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestGetOrFetchExpiryIsLazy(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	var calls int32
	fetch := countingFetcher(&calls, testPapers(1))
	ctx := context.Background()

	if _, err := c.GetOrFetch(ctx, "DOI:10.1000/xyz", 5, fetch); err != nil {
		t.Fatal(err)
	}

	// Just inside the TTL: still a hit.
	now = now.Add(59 * time.Minute)
	if _, err := c.GetOrFetch(ctx, "DOI:10.1000/xyz", 5, fetch); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("fetcher called %d times before expiry, want 1", n)
	}

	// Past the TTL: the entry is treated as absent and refreshed, with no
	// sweep ever running.
	now = now.Add(2 * time.Minute)
	if _, err := c.GetOrFetch(ctx, "DOI:10.1000/xyz", 5, fetch); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetcher called %d times after expiry, want 2", n)
	}
}

func TestGetOrFetchErrorNotCached(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})

	var calls int32
	failing := func(_ context.Context, _ types.LookupKey, _ int) ([]types.RecommendedPaper, error) {
		atomic.AddInt32(&calls, 1)
		return nil, types.ErrRateLimited
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := c.GetOrFetch(ctx, "ArXiv:2301.07041", 5, failing)
		if !errors.Is(err, types.ErrRateLimited) {
			t.Fatalf("GetOrFetch() error = %v, want ErrRateLimited unchanged", err)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetcher called %d times, want 2 (negative results are not memoized)", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after failures, want 0", c.Len())
	}
}

func TestGetOrFetchSingleFlight(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})

	var calls int32
	release := make(chan struct{})
	slow := func(_ context.Context, _ types.LookupKey, _ int) ([]types.RecommendedPaper, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testPapers(2), nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetOrFetch(context.Background(), "ArXiv:2301.07041", 5, slow)
		}(i)
	}

	// Give the goroutines time to pile onto the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("waiter %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetcher called %d times under concurrent misses, want 1", n)
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	var calls int32
	fetch := countingFetcher(&calls, testPapers(1))
	ctx := context.Background()

	if _, err := c.GetOrFetch(ctx, "old-key", 5, fetch); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := c.GetOrFetch(ctx, "new-key", 5, fetch); err != nil {
		t.Fatal(err)
	}

	now = now.Add(45 * time.Minute) // old-key expired, new-key still live
	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", c.Len())
	}

	// Sweeping again is a no-op.
	if removed := c.Sweep(); removed != 0 {
		t.Errorf("second Sweep() removed %d, want 0", removed)
	}
}

func TestClear(t *testing.T) {
	c := NewCache(types.CacheConfig{TTL: time.Hour})
	var calls int32
	fetch := countingFetcher(&calls, testPapers(1))
	ctx := context.Background()

	c.GetOrFetch(ctx, "a", 5, fetch)
	c.GetOrFetch(ctx, "b", 5, fetch)

	if removed := c.Clear(); removed != 2 {
		t.Errorf("Clear() = %d, want 2", removed)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", c.Len())
	}
}
