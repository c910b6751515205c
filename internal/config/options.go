// Package config loads process options from flags, the environment and .env,
// and the optional views file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fortuna/services/scoreboard-view/internal/hiding"
	"github.com/fortuna/services/scoreboard-view/internal/render"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Options are the process-level settings
type Options struct {
	Addr     string `long:"addr" env:"SERVER_ADDR" default:":8080" description:"HTTP listen address"`
	RedisURL string `long:"redis-url" env:"REDIS_URL" description:"Redis URL; empty disables the Redis targets"`

	BoardURL string   `long:"board-url" env:"BOARD_URL" description:"Scoreboard feed URL; empty disables the default board view"`
	GameURL  string   `long:"game-url" env:"GAME_URL" description:"Single-game feed URL template containing {gameId}"`
	GameIDs  []string `long:"game-id" env:"GAME_IDS" env-delim:"," description:"Game ids to follow, one single-game view each"`

	BoardInterval  time.Duration `long:"board-interval" env:"BOARD_INTERVAL" description:"Scoreboard poll interval (sport default when unset)"`
	GameInterval   time.Duration `long:"game-interval" env:"GAME_INTERVAL" description:"Single-game poll interval (sport default when unset)"`
	RequestTimeout time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" description:"Per-fetch timeout (sport default when unset)"`
	StatusFilter   int           `long:"status-filter" env:"STATUS_FILTER" default:"0" description:"Scoreboard status filter: 0 all, 1 scheduled, 2 in progress, 3 final"`

	HideScores         string `long:"hide-scores" env:"HIDE_SCORES" choice:"on" choice:"off" description:"Score hiding policy; unset keeps the feed's hidden flags"`
	HideAfterPeriod    int    `long:"hide-after-period" env:"HIDE_AFTER_PERIOD" default:"4" description:"Hide close games from this period on"`
	MaxScoreDifference int    `long:"max-score-difference" env:"MAX_SCORE_DIFFERENCE" default:"0" description:"Hide games within this margin"`

	SkipDescription string   `long:"skip-description" env:"SKIP_DESCRIPTION" description:"Also leave out actions whose description is exactly this text"`
	DetailsPath     string   `long:"details-path" env:"DETAILS_PATH" default:"/NBA/game/" description:"Link prefix of scoreboard cards"`
	CORSOrigins     []string `long:"cors-origin" env:"CORS_ORIGINS" env-delim:"," description:"Allowed CORS origins"`

	ViewsFile string `long:"views" env:"VIEWS_FILE" description:"Optional YAML/JSON/TOML file with view definitions"`
}

// ParseOptions loads .env if present, then parses flags and environment
func ParseOptions() (Options, error) {
	_ = godotenv.Load()
	return parseArgs(os.Args[1:])
}

func parseArgs(args []string) (Options, error) {
	opts := Options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ApplyPollingDefaults fills unset intervals from a sport's polling config
func (o *Options) ApplyPollingDefaults(pc contracts.PollingConfig) {
	if o.BoardInterval == 0 {
		o.BoardInterval = pc.BoardInterval
	}
	if o.GameInterval == 0 {
		o.GameInterval = pc.GameInterval
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = pc.RequestTimeout
	}
}

// Validate checks the options that do not depend on the views file
func (o Options) Validate() error {
	if o.StatusFilter < 0 || o.StatusFilter > 3 {
		return fmt.Errorf("status filter must be between 0 and 3, got %d", o.StatusFilter)
	}
	if o.BoardInterval <= 0 || o.GameInterval <= 0 {
		return errors.New("poll intervals must be positive")
	}
	if len(o.GameIDs) > 0 && strings.TrimSpace(o.GameURL) == "" {
		return errors.New("game ids require a game URL template")
	}
	if o.MaxScoreDifference < 0 {
		return errors.New("max score difference must not be negative")
	}
	return nil
}

// HidePolicy returns the configured policy, or nil when hiding is not configured
func (o Options) HidePolicy() *hiding.Policy {
	if o.HideScores == "" {
		return nil
	}
	return &hiding.Policy{
		Enabled:            o.HideScores == "on",
		HideAfterPeriod:    o.HideAfterPeriod,
		MaxScoreDifference: o.MaxScoreDifference,
	}
}

// RenderOptions builds the renderer options
func (o Options) RenderOptions() render.Options {
	opts := render.Options{DetailsPath: o.DetailsPath}
	if o.SkipDescription != "" {
		opts.SkipDescription = render.SkipAny(render.SkipAbsent, render.SkipLiteral(o.SkipDescription))
	}
	return opts
}
