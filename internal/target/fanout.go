package target

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
)

// Named pairs a target with the name used in its errors
type Named struct {
	Name   string
	Target contracts.Target
}

// Fanout mounts every update into all of its targets in order. A failing
// target does not stop the others; their errors are joined.
type Fanout struct {
	targets []Named
}

// NewFanout creates a fan-out over the given targets
func NewFanout(targets ...Named) *Fanout {
	return &Fanout{targets: targets}
}

// Add appends a target
func (f *Fanout) Add(name string, t contracts.Target) {
	f.targets = append(f.targets, Named{Name: name, Target: t})
}

// Len returns the number of targets
func (f *Fanout) Len() int {
	return len(f.targets)
}

func (f *Fanout) Mount(ctx context.Context, view string, regions contracts.Regions) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Target.Mount(ctx, view, regions); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Finalize forwards to every target that implements contracts.Finalizer
func (f *Fanout) Finalize(ctx context.Context, view string) error {
	var errs []error
	for _, t := range f.targets {
		fin, ok := t.Target.(contracts.Finalizer)
		if !ok {
			continue
		}
		if err := fin.Finalize(ctx, view); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}
