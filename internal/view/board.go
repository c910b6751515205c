package view

import (
	"context"
	"fmt"

	"github.com/fortuna/services/scoreboard-view/internal/hiding"
	"github.com/fortuna/services/scoreboard-view/internal/poller"
	"github.com/fortuna/services/scoreboard-view/internal/render"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// BoardController keeps the scoreboard page up to date. It never stops on its own.
type BoardController struct {
	cfg     Config
	fetcher BoardFetcher
	filter  models.GameStatus
	policy  *hiding.Policy
}

// NewBoardController creates a controller for a scoreboard view. A nil policy
// keeps the feed's hidden flags as they are.
func NewBoardController(cfg Config, fetcher BoardFetcher, filter models.GameStatus, policy *hiding.Policy) *BoardController {
	return &BoardController{
		cfg:     cfg,
		fetcher: fetcher,
		filter:  filter,
		policy:  policy,
	}
}

func (c *BoardController) Name() string {
	return c.cfg.Name
}

// Start begins polling the scoreboard
func (c *BoardController) Start(ctx context.Context) (*poller.Handle, error) {
	h, err := poller.Start(ctx, c.cfg.Endpoint, c.cfg.Interval,
		c.fetcher.FetchScoreboard,
		func(board *models.Scoreboard) { c.handleSnapshot(ctx, board) },
		c.cfg.reportError,
		poller.WithName(c.cfg.Name),
		poller.WithRequestTimeout(c.cfg.RequestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.cfg.Name, err)
	}
	return h, nil
}

func (c *BoardController) handleSnapshot(ctx context.Context, board *models.Scoreboard) {
	games := board.Games
	if err := render.ValidateGames(games); err != nil {
		c.cfg.reportError(err)
		return
	}

	// Games the sport module rejects are left off the board
	valid := games[:0]
	for i := range games {
		c.cfg.Sport.NormalizeGame(&games[i])
		if err := c.cfg.Sport.ValidateGame(&games[i]); err != nil {
			c.cfg.reportError(fmt.Errorf("game %s: %w", games[i].GameID, err))
			continue
		}
		valid = append(valid, games[i])
	}

	if c.policy != nil {
		c.policy.Apply(valid)
	}

	fragment, err := c.cfg.Renderer.RenderCollection(valid, c.filter)
	if err != nil {
		c.cfg.reportError(err)
		return
	}

	if err := c.cfg.mount(ctx, contracts.Regions{render.RegionGames: fragment}); err != nil {
		c.cfg.reportError(fmt.Errorf("mount: %w", err))
	}
}
