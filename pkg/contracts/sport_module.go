package contracts

import (
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// SportModule is the pluggable interface for sport-specific snapshot handling
type SportModule interface {
	// Identification
	GetSportKey() string    // "basketball_nba"
	GetDisplayName() string // "NBA"

	// Configuration
	GetPollingConfig() PollingConfig
	IsEnabled() bool

	// Normalization of feed values for display
	NormalizeGame(game *models.Game)           // scoreboard entries
	NormalizeDetail(detail *models.GameDetail) // single-game box score and play-by-play

	// Validation
	ValidateGame(game *models.Game) error

	// Display helpers
	PeriodLabel(period int) string
	GetTeamAbbreviation(fullName string) string
}

// PollingConfig defines sport-specific polling behavior
type PollingConfig struct {
	GameInterval   time.Duration // single-game view, 30s for NBA
	BoardInterval  time.Duration // scoreboard view, 60s for NBA
	RequestTimeout time.Duration // per-fetch deadline
	Enabled        bool          // Feature flag per sport
}
