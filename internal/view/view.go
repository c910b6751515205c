// Package view glues one poller to the renderer and a render target. A
// controller owns the poller it starts: the single-game controller stops it
// once the game reaches a terminal state.
package view

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fortuna/services/scoreboard-view/internal/render"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// Kind selects the feed shape and page layout of a view
type Kind string

const (
	KindGame  Kind = "game"
	KindBoard Kind = "board"
)

const mountTimeout = 5 * time.Second

// GameFetcher fetches the single-game feed
type GameFetcher interface {
	FetchGame(ctx context.Context, url string) (*models.GameDetail, error)
}

// BoardFetcher fetches the scoreboard feed
type BoardFetcher interface {
	FetchScoreboard(ctx context.Context, url string) (*models.Scoreboard, error)
}

// ErrorHandler receives every failure of a view: fetch, decode, render and mount
type ErrorHandler func(view string, err error)

// LogErrors is the default ErrorHandler
func LogErrors(view string, err error) {
	var renderErr *contracts.RenderError
	var netErr *contracts.NetworkError
	var parseErr *contracts.ParseError

	switch {
	case errors.As(err, &renderErr):
		log.Printf("[%s] Render skipped, keeping previous content: %v", view, err)
	case errors.As(err, &netErr):
		log.Printf("[%s] Feed unavailable: %v", view, err)
	case errors.As(err, &parseErr):
		log.Printf("[%s] Feed payload rejected: %v", view, err)
	default:
		log.Printf("[%s] Error: %v", view, err)
	}
}

// Config is shared by both controllers
type Config struct {
	Name           string
	Endpoint       string
	Interval       time.Duration
	RequestTimeout time.Duration

	Sport    contracts.SportModule
	Renderer *render.Renderer
	Target   contracts.Target
	OnError  ErrorHandler
}

func (c *Config) reportError(err error) {
	if c.OnError != nil {
		c.OnError(c.Name, err)
		return
	}
	LogErrors(c.Name, err)
}

func (c *Config) mount(ctx context.Context, regions contracts.Regions) error {
	ctx, cancel := context.WithTimeout(ctx, mountTimeout)
	defer cancel()
	return c.Target.Mount(ctx, c.Name, regions)
}

func (c *Config) finalize(ctx context.Context) error {
	fin, ok := c.Target.(contracts.Finalizer)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, mountTimeout)
	defer cancel()
	return fin.Finalize(ctx, c.Name)
}
