package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fortuna/services/scoreboard-view/internal/providers/feed"
	"github.com/fortuna/services/scoreboard-view/internal/view"
	"github.com/spf13/viper"
)

// ViewDef describes one polled view
type ViewDef struct {
	Name         string        `mapstructure:"name"`
	Kind         view.Kind     `mapstructure:"kind"`
	Sport        string        `mapstructure:"sport"`
	Endpoint     string        `mapstructure:"endpoint"`
	GameID       string        `mapstructure:"game_id"`
	Interval     time.Duration `mapstructure:"interval"`
	StatusFilter int           `mapstructure:"status_filter"`
}

// ViewDefaults fill in what a view entry leaves out
type ViewDefaults struct {
	BoardInterval time.Duration `mapstructure:"board_interval"`
	GameInterval  time.Duration `mapstructure:"game_interval"`
	GameURL       string        `mapstructure:"game_url"`
}

// ViewsFile is the content of the views file
type ViewsFile struct {
	Defaults ViewDefaults `mapstructure:"defaults"`
	Views    []ViewDef    `mapstructure:"views"`
}

// LoadViews reads a views file. The file's defaults section starts from
// defaults and can be overridden from the environment, e.g.
// SCOREBOARD_VIEW_DEFAULTS_GAME_URL.
func LoadViews(path string, defaults ViewDefaults) (*ViewsFile, error) {
	v := viper.New()

	v.SetConfigFile(path)

	v.SetDefault("defaults.board_interval", defaults.BoardInterval.String())
	v.SetDefault("defaults.game_interval", defaults.GameInterval.String())
	v.SetDefault("defaults.game_url", defaults.GameURL)

	v.SetEnvPrefix("SCOREBOARD_VIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read views file: %w", err)
	}

	var file ViewsFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal views file: %w", err)
	}
	return &file, nil
}

// ViewDefaults returns the defaults implied by the options
func (o Options) ViewDefaults() ViewDefaults {
	return ViewDefaults{
		BoardInterval: o.BoardInterval,
		GameInterval:  o.GameInterval,
		GameURL:       o.GameURL,
	}
}

// Views merges the views implied by the options with those of the views file
// and resolves every endpoint and interval
func Views(opts Options, file *ViewsFile) ([]ViewDef, error) {
	defaults := opts.ViewDefaults()

	var defs []ViewDef
	if opts.BoardURL != "" {
		defs = append(defs, ViewDef{
			Name:         "board",
			Kind:         view.KindBoard,
			Endpoint:     opts.BoardURL,
			StatusFilter: opts.StatusFilter,
		})
	}
	for _, id := range opts.GameIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		defs = append(defs, ViewDef{Name: "game-" + id, Kind: view.KindGame, GameID: id})
	}

	if file != nil {
		if file.Defaults.BoardInterval > 0 {
			defaults.BoardInterval = file.Defaults.BoardInterval
		}
		if file.Defaults.GameInterval > 0 {
			defaults.GameInterval = file.Defaults.GameInterval
		}
		if file.Defaults.GameURL != "" {
			defaults.GameURL = file.Defaults.GameURL
		}
		defs = append(defs, file.Views...)
	}

	seen := make(map[string]bool, len(defs))
	for i := range defs {
		def := &defs[i]
		if err := resolve(def, defaults); err != nil {
			return nil, fmt.Errorf("view %d (%s): %w", i, def.Name, err)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("duplicate view name %q", def.Name)
		}
		seen[def.Name] = true
	}

	if len(defs) == 0 {
		return nil, fmt.Errorf("no views configured")
	}
	return defs, nil
}

func resolve(def *ViewDef, defaults ViewDefaults) error {
	switch def.Kind {
	case view.KindBoard:
		if def.Interval <= 0 {
			def.Interval = defaults.BoardInterval
		}
		if def.StatusFilter < 0 || def.StatusFilter > 3 {
			return fmt.Errorf("status_filter must be between 0 and 3")
		}
	case view.KindGame:
		if def.Interval <= 0 {
			def.Interval = defaults.GameInterval
		}
		if def.Endpoint == "" && def.GameID != "" {
			if defaults.GameURL == "" {
				return fmt.Errorf("game_id %s needs a game URL template", def.GameID)
			}
			def.Endpoint = feed.GameURL(defaults.GameURL, def.GameID)
		}
		if def.Name == "" && def.GameID != "" {
			def.Name = "game-" + def.GameID
		}
	default:
		return fmt.Errorf("unknown kind %q", def.Kind)
	}

	if def.Name == "" {
		def.Name = string(def.Kind)
	}
	if def.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if def.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}
