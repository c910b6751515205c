package poller

import (
	"context"
	"log"
	"sort"
	"sync"
)

// Runner starts one polled view and returns the handle that owns it
type Runner interface {
	Name() string
	Start(ctx context.Context) (*Handle, error)
}

// Orchestrator manages the pollers for all configured views
type Orchestrator struct {
	runners []Runner

	mu      sync.RWMutex
	handles map[string]*Handle
}

// NewOrchestrator creates a new polling orchestrator
func NewOrchestrator(runners ...Runner) *Orchestrator {
	return &Orchestrator{
		runners: runners,
		handles: make(map[string]*Handle),
	}
}

// Start launches a poller for every view and blocks until ctx is cancelled or
// every poller has stopped on its own (e.g. all single-game views reached Final).
func (o *Orchestrator) Start(ctx context.Context) {
	var wg sync.WaitGroup

	log.Printf("Starting pollers for %d views", len(o.runners))

	for _, runner := range o.runners {
		name := runner.Name()

		handle, err := runner.Start(ctx)
		if err != nil {
			log.Printf("[%s] Failed to start poller: %v", name, err)
			continue
		}

		o.mu.Lock()
		o.handles[name] = handle
		o.mu.Unlock()

		wg.Add(1)
		go func(h *Handle) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				h.Stop()
			case <-h.Done():
			}
			<-h.Done()
		}(handle)

		log.Printf("Started poller for %s", name)
	}

	wg.Wait()
	log.Println("All pollers stopped")
}

// Stats returns counters for every started poller, sorted by name
func (o *Orchestrator) Stats() []Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := make([]Stats, 0, len(o.handles))
	for _, h := range o.handles {
		stats = append(stats, h.Stats())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}
