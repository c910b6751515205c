package poller

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultRequestTimeout bounds a single fetch when no timeout option is given
const DefaultRequestTimeout = 10 * time.Second

// ErrInvalidInterval is returned by Start for a non-positive interval
var ErrInvalidInterval = errors.New("poll interval must be positive")

// ErrMissingCallback is returned by Start when fetch or onSnapshot is nil
var ErrMissingCallback = errors.New("fetch and snapshot callbacks are required")

// FetchFunc retrieves one snapshot from an endpoint
type FetchFunc[T any] func(ctx context.Context, endpoint string) (T, error)

// Option customizes a poller
type Option func(*settings)

type settings struct {
	name           string
	requestTimeout time.Duration
}

// WithName sets the name used in log lines
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithRequestTimeout bounds every fetch
func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// Stats counts what a poller has done so far
type Stats struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Ticks     int64  `json:"ticks"`
	Snapshots int64  `json:"snapshots"`
	Errors    int64  `json:"errors"`
	Dropped   int64  `json:"dropped"` // ticks skipped while a fetch was in flight
}

// Handle owns one running poller. It is returned by Start and is the only way to stop it.
type Handle struct {
	id     string
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	stopped  atomic.Bool
	inFlight atomic.Bool

	ticks     atomic.Int64
	snapshots atomic.Int64
	failures  atomic.Int64
	dropped   atomic.Int64
}

// Start fetches endpoint immediately and then every interval until the handle is
// stopped or ctx is cancelled. Successful payloads go to onSnapshot, failures to
// onError; a failure never stops the poller.
//
// At most one fetch is in flight: a tick that fires while the previous fetch is
// still running is dropped, so snapshots are delivered in tick order. Callbacks
// run on the fetch goroutine; a fetch that completes after Stop is discarded.
func Start[T any](
	ctx context.Context,
	endpoint string,
	interval time.Duration,
	fetch FetchFunc[T],
	onSnapshot func(T),
	onError func(error),
	opts ...Option,
) (*Handle, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if fetch == nil || onSnapshot == nil {
		return nil, ErrMissingCallback
	}

	s := settings{requestTimeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	h := &Handle{
		id:   uuid.New().String(),
		name: s.name,
		done: make(chan struct{}),
	}
	if h.name == "" {
		h.name = h.id
	}
	h.ctx, h.cancel = context.WithCancel(ctx)

	tick := func(ctx context.Context) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()

		payload, err := fetch(fetchCtx, endpoint)

		// A late response from a stopped poller is discarded
		if !h.Active() {
			return
		}

		if err != nil {
			h.failures.Add(1)
			if onError != nil {
				onError(err)
			}
			return
		}

		h.snapshots.Add(1)
		onSnapshot(payload)
	}

	log.Printf("[poller %s] Starting (every %s): %s", h.name, interval, endpoint)
	go h.run(interval, tick)

	return h, nil
}

// run is the polling loop
func (h *Handle) run(interval time.Duration, tick func(context.Context)) {
	defer close(h.done)

	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do initial poll
	h.dispatch(&wg, tick)

	for {
		select {
		case <-h.ctx.Done():
			log.Printf("[poller %s] Stopping poller", h.name)
			return
		case <-ticker.C:
			h.dispatch(&wg, tick)
		}
	}
}

// dispatch runs one tick unless the previous one is still in flight
func (h *Handle) dispatch(wg *sync.WaitGroup, tick func(context.Context)) {
	h.ticks.Add(1)

	if !h.inFlight.CompareAndSwap(false, true) {
		h.dropped.Add(1)
		log.Printf("[poller %s] Previous fetch still in flight, skipping tick", h.name)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer h.inFlight.Store(false)
		tick(h.ctx)
	}()
}

// Stop cancels the timer and any in-flight fetch. It is idempotent and safe to
// call from inside a callback.
func (h *Handle) Stop() {
	if h.stopped.CompareAndSwap(false, true) {
		h.cancel()
	}
}

// Done is closed once the loop has exited and no callback is running
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Active reports whether the poller will still deliver snapshots
func (h *Handle) Active() bool {
	return !h.stopped.Load() && h.ctx.Err() == nil
}

// ID returns the unique id of this poller
func (h *Handle) ID() string {
	return h.id
}

// Name returns the log name of this poller
func (h *Handle) Name() string {
	return h.name
}

// Stats returns a snapshot of the poller's counters
func (h *Handle) Stats() Stats {
	return Stats{
		ID:        h.id,
		Name:      h.name,
		Active:    h.Active(),
		Ticks:     h.ticks.Load(),
		Snapshots: h.snapshots.Load(),
		Errors:    h.failures.Load(),
		Dropped:   h.dropped.Load(),
	}
}
