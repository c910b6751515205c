package contracts

import "context"

// Fragment is a rendered unit of HTML markup
type Fragment string

// Regions maps a region name on the hosting page to its replacement content
type Regions map[string]Fragment

// Target receives rendered regions for a view.
// Every listed region is replaced wholesale; the last writer wins.
type Target interface {
	Mount(ctx context.Context, view string, regions Regions) error
}

// TargetFunc adapts a function to the Target interface
type TargetFunc func(ctx context.Context, view string, regions Regions) error

func (f TargetFunc) Mount(ctx context.Context, view string, regions Regions) error {
	return f(ctx, view, regions)
}

// Finalizer is implemented by targets that treat a view's last update
// differently, such as keeping it around longer. It is called once after the
// final Mount of a view that has reached a terminal state.
type Finalizer interface {
	Finalize(ctx context.Context, view string) error
}
