package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatalf("Timed out waiting for %s", what)
	}
}

func TestStart_FetchesImmediately(t *testing.T) {
	got := make(chan string, 1)
	fetch := func(ctx context.Context, endpoint string) (string, error) {
		return endpoint, nil
	}

	h, err := Start(context.Background(), "http://feed/games", time.Hour, fetch,
		func(s string) { got <- s }, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer h.Stop()

	select {
	case endpoint := <-got:
		if endpoint != "http://feed/games" {
			t.Errorf("Expected fetch of configured endpoint, got %s", endpoint)
		}
	case <-time.After(waitTimeout):
		t.Fatal("Expected an immediate fetch before the first interval elapsed")
	}
}

func TestStart_RepeatsAndToleratesErrors(t *testing.T) {
	var calls atomic.Int64
	var errorsSeen atomic.Int64
	snapshots := make(chan int64, 100)

	fetch := func(ctx context.Context, endpoint string) (int64, error) {
		n := calls.Add(1)
		if n <= 2 {
			return 0, errors.New("feed unavailable")
		}
		return n, nil
	}

	h, err := Start(context.Background(), "feed", 5*time.Millisecond, fetch,
		func(n int64) { snapshots <- n },
		func(err error) { errorsSeen.Add(1) })
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer h.Stop()

	deadline := time.After(waitTimeout)
	received := 0
	for received < 3 {
		select {
		case <-snapshots:
			received++
		case <-deadline:
			t.Fatalf("Expected polling to continue after errors, got %d snapshots", received)
		}
	}

	if errorsSeen.Load() != 2 {
		t.Errorf("Expected 2 errors reported, got %d", errorsSeen.Load())
	}
	if stats := h.Stats(); stats.Errors != 2 || stats.Snapshots < 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestStart_InvalidInterval(t *testing.T) {
	fetch := func(ctx context.Context, endpoint string) (int, error) { return 0, nil }

	_, err := Start(context.Background(), "feed", 0, fetch, func(int) {}, nil)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("Expected ErrInvalidInterval, got %v", err)
	}
}

func TestStart_RejectsMissingCallbacks(t *testing.T) {
	fetch := func(ctx context.Context, endpoint string) (int, error) { return 0, nil }

	if _, err := Start(context.Background(), "feed", time.Second, nil, func(int) {}, nil); !errors.Is(err, ErrMissingCallback) {
		t.Errorf("Expected ErrMissingCallback for nil fetch, got %v", err)
	}
	if _, err := Start[int](context.Background(), "feed", time.Second, fetch, nil, nil); !errors.Is(err, ErrMissingCallback) {
		t.Errorf("Expected ErrMissingCallback for nil snapshot callback, got %v", err)
	}
}

func TestStop_IsIdempotent(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context, endpoint string) (int, error) {
		calls.Add(1)
		return 0, nil
	}

	h, err := Start(context.Background(), "feed", 5*time.Millisecond, fetch, func(int) {}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	h.Stop()
	h.Stop()
	waitFor(t, h.Done(), "poller to stop")

	if h.Active() {
		t.Error("Expected handle to be inactive after Stop")
	}

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("Expected no fetches after Stop, got %d more", calls.Load()-after)
	}

	h.Stop()
}

func TestStop_FromCallback(t *testing.T) {
	var delivered atomic.Int64
	var h *Handle
	ready := make(chan struct{})

	fetch := func(ctx context.Context, endpoint string) (int, error) {
		<-ready
		return 3, nil
	}

	h, err := Start(context.Background(), "feed", 5*time.Millisecond, fetch, func(status int) {
		delivered.Add(1)
		if status == 3 {
			h.Stop()
		}
	}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	close(ready)

	waitFor(t, h.Done(), "poller to stop itself")

	if delivered.Load() != 1 {
		t.Errorf("Expected exactly 1 delivery before stopping, got %d", delivered.Load())
	}
}

func TestStop_DiscardsLateResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var delivered atomic.Int64
	var reported atomic.Int64

	// Ignores cancellation to model a response that arrives after Stop
	fetch := func(ctx context.Context, endpoint string) (int, error) {
		close(started)
		<-release
		return 1, nil
	}

	h, err := Start(context.Background(), "feed", time.Hour, fetch,
		func(int) { delivered.Add(1) },
		func(error) { reported.Add(1) })
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	waitFor(t, started, "fetch to start")
	h.Stop()
	close(release)
	waitFor(t, h.Done(), "poller to stop")

	if delivered.Load() != 0 || reported.Load() != 0 {
		t.Errorf("Expected late response to be discarded, got %d snapshots and %d errors", delivered.Load(), reported.Load())
	}
}

func TestTicks_AreSerialized(t *testing.T) {
	var current, maxConcurrent atomic.Int64
	firstDone := make(chan struct{})
	var first atomic.Bool

	fetch := func(ctx context.Context, endpoint string) (int, error) {
		n := current.Add(1)
		defer current.Add(-1)
		for {
			m := maxConcurrent.Load()
			if n <= m || maxConcurrent.CompareAndSwap(m, n) {
				break
			}
		}
		if first.CompareAndSwap(false, true) {
			time.Sleep(60 * time.Millisecond)
			defer close(firstDone)
		}
		return 0, nil
	}

	h, err := Start(context.Background(), "feed", 5*time.Millisecond, fetch, func(int) {}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer h.Stop()

	waitFor(t, firstDone, "slow fetch to finish")

	if maxConcurrent.Load() != 1 {
		t.Errorf("Expected at most 1 fetch in flight, saw %d", maxConcurrent.Load())
	}
	if h.Stats().Dropped == 0 {
		t.Error("Expected ticks to be dropped while the slow fetch was in flight")
	}
}

func TestRequestTimeout(t *testing.T) {
	errs := make(chan error, 10)
	fetch := func(ctx context.Context, endpoint string) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}

	h, err := Start(context.Background(), "feed", time.Hour, fetch, func(int) {},
		func(err error) { errs <- err },
		WithRequestTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer h.Stop()

	select {
	case err := <-errs:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline exceeded, got %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatal("Expected fetch to time out")
	}

	if !h.Active() {
		t.Error("Expected poller to stay active after a timed out fetch")
	}
}

func TestParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context, endpoint string) (int, error) { return 0, nil }

	h, err := Start(ctx, "feed", 5*time.Millisecond, fetch, func(int) {}, nil, WithName("games"))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	cancel()
	waitFor(t, h.Done(), "poller to stop on context cancel")

	if h.Active() {
		t.Error("Expected handle to be inactive after context cancel")
	}
	if h.Name() != "games" {
		t.Errorf("Expected name 'games', got '%s'", h.Name())
	}
	if h.ID() == "" {
		t.Error("Expected handle to have an id")
	}
}
