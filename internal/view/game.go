package view

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/fortuna/services/scoreboard-view/internal/poller"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// GameController keeps the single-game page of one game up to date
type GameController struct {
	cfg     Config
	fetcher GameFetcher

	mu       sync.Mutex
	handle   *poller.Handle
	finished bool
}

// NewGameController creates a controller for a single-game view
func NewGameController(cfg Config, fetcher GameFetcher) *GameController {
	return &GameController{cfg: cfg, fetcher: fetcher}
}

func (c *GameController) Name() string {
	return c.cfg.Name
}

// Start begins polling. The returned handle is stopped by the controller once
// the game is final.
func (c *GameController) Start(ctx context.Context) (*poller.Handle, error) {
	h, err := poller.Start(ctx, c.cfg.Endpoint, c.cfg.Interval,
		c.fetcher.FetchGame,
		func(detail *models.GameDetail) { c.handleSnapshot(ctx, detail) },
		c.cfg.reportError,
		poller.WithName(c.cfg.Name),
		poller.WithRequestTimeout(c.cfg.RequestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.cfg.Name, err)
	}

	c.mu.Lock()
	c.handle = h
	finished := c.finished
	c.mu.Unlock()

	// The first snapshot can arrive before Start returns
	if finished {
		h.Stop()
	}
	return h, nil
}

func (c *GameController) handleSnapshot(ctx context.Context, detail *models.GameDetail) {
	c.cfg.Sport.NormalizeDetail(detail)

	view, err := c.cfg.Renderer.RenderSingle(detail)
	if err != nil {
		c.cfg.reportError(err)
		return
	}
	if err := c.cfg.Sport.ValidateGame(detail.Boxscore); err != nil {
		c.cfg.reportError(&contracts.RenderError{Field: "boxscore", Reason: err.Error()})
	} else if len(view.Regions) > 0 {
		if err := c.cfg.mount(ctx, view.Regions); err != nil {
			c.cfg.reportError(fmt.Errorf("mount: %w", err))
		}
	}

	// A terminal game stops the view even when its last snapshot was rejected
	if !view.Continue {
		log.Printf("[%s] Game %s is %s, stopping poller", c.cfg.Name, detail.Boxscore.GameID, detail.Boxscore.GameStatus)
		if err := c.cfg.finalize(ctx); err != nil {
			c.cfg.reportError(fmt.Errorf("finalize: %w", err))
		}
		c.stop()
	}
}

func (c *GameController) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.finished = true
	if c.handle != nil {
		c.handle.Stop()
	}
}
