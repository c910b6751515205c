package basketball_nba

import (
	"fmt"
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// NBAModule implements SportModule for the NBA live feed
type NBAModule struct {
	enabled bool
}

// New creates a new NBA sport module
func New() *NBAModule {
	return &NBAModule{enabled: true}
}

func (m *NBAModule) GetSportKey() string {
	return "basketball_nba"
}

func (m *NBAModule) GetDisplayName() string {
	return "NBA"
}

func (m *NBAModule) GetPollingConfig() contracts.PollingConfig {
	return contracts.PollingConfig{
		GameInterval:   30 * time.Second,
		BoardInterval:  60 * time.Second,
		RequestTimeout: 10 * time.Second,
		Enabled:        m.enabled,
	}
}

func (m *NBAModule) IsEnabled() bool {
	return m.enabled
}

// NormalizeGame prepares a scoreboard entry for display
func (m *NBAModule) NormalizeGame(game *models.Game) {
	if game == nil {
		return
	}
	game.GameClock = formatGameClock(game.GameClock)
	fillTricode(game.HomeTeam)
	fillTricode(game.AwayTeam)
}

// NormalizeDetail prepares a single-game box score and its play-by-play for display
func (m *NBAModule) NormalizeDetail(detail *models.GameDetail) {
	if detail == nil {
		return
	}

	if detail.Boxscore != nil {
		m.NormalizeGame(detail.Boxscore)
		detail.Boxscore.GameStatusText = normalizeStatusText(detail.Boxscore)
	}

	for i := range detail.Actions {
		detail.Actions[i].Clock = formatGameClock(detail.Actions[i].Clock)
	}
}

// ValidateGame validates NBA-specific game data
func (m *NBAModule) ValidateGame(game *models.Game) error {
	if game.Period < 0 {
		return fmt.Errorf("invalid NBA period: %d", game.Period)
	}

	if game.HomeTeam == nil || game.AwayTeam == nil {
		return fmt.Errorf("missing teams")
	}

	if game.HomeTeam.Score < 0 || game.AwayTeam.Score < 0 {
		return fmt.Errorf("negative score")
	}

	return nil
}

// PeriodLabel returns the NBA label for a period number
func (m *NBAModule) PeriodLabel(period int) string {
	return getPeriodLabel(period)
}

// GetTeamAbbreviation returns team tricode for a team name
func (m *NBAModule) GetTeamAbbreviation(name string) string {
	return GetTeamAbbreviation(name)
}

func fillTricode(team *models.Team) {
	if team == nil || team.TeamTricode != "" {
		return
	}
	team.TeamTricode = GetTeamAbbreviation(team.TeamName)
}
