// Package target holds the in-process render targets: the latest-regions store
// served over HTTP and the fan-out that mounts one update into many targets.
package target

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
)

// Snapshot is the current content of one view
type Snapshot struct {
	View      string            `json:"view"`
	Regions   contracts.Regions `json:"regions"`
	UpdatedAt time.Time         `json:"updated_at"`
	Mounts    int64             `json:"mounts"`
	Final     bool              `json:"final"`
}

// Store keeps the latest fragment of every region of every view
type Store struct {
	mu    sync.RWMutex
	views map[string]*Snapshot
	now   func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		views: make(map[string]*Snapshot),
		now:   time.Now,
	}
}

// Mount replaces the given regions of a view. Regions not listed keep their content.
func (s *Store) Mount(ctx context.Context, view string, regions contracts.Regions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.views[view]
	if !ok {
		snap = &Snapshot{View: view, Regions: make(contracts.Regions)}
		s.views[view] = snap
	}
	for region, fragment := range regions {
		snap.Regions[region] = fragment
	}
	snap.UpdatedAt = s.now()
	snap.Mounts++
	snap.Final = false
	return nil
}

// Finalize marks a view as terminal; its regions will not change again
func (s *Store) Finalize(ctx context.Context, view string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.views[view]; ok {
		snap.Final = true
	}
	return nil
}

// Get returns a copy of a view's current content
func (s *Store) Get(view string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.views[view]
	if !ok {
		return Snapshot{}, false
	}
	out := *snap
	out.Regions = make(contracts.Regions, len(snap.Regions))
	for region, fragment := range snap.Regions {
		out.Regions[region] = fragment
	}
	return out, true
}

// Region returns one region's fragment
func (s *Store) Region(view, region string) (contracts.Fragment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.views[view]
	if !ok {
		return "", false
	}
	fragment, ok := snap.Regions[region]
	return fragment, ok
}

// List returns the names of all views that have been mounted, sorted
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.views))
	for name := range s.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
