// Package hiding decides which scoreboard games have their scores hidden.
package hiding

import "github.com/fortuna/services/scoreboard-view/pkg/models"

// Defaults for a policy built from partial configuration
const (
	DefaultHideAfterPeriod    = 4
	DefaultMaxScoreDifference = 0
)

// Policy hides close games late in the game so a viewer catching up later is
// not spoiled. A game is hidden when it has started, its period is at least
// HideAfterPeriod and the margin is at most MaxScoreDifference.
type Policy struct {
	Enabled            bool
	HideAfterPeriod    int
	MaxScoreDifference int
}

// Default returns an enabled policy with the default thresholds
func Default() Policy {
	return Policy{
		Enabled:            true,
		HideAfterPeriod:    DefaultHideAfterPeriod,
		MaxScoreDifference: DefaultMaxScoreDifference,
	}
}

// ShouldHide reports whether the policy hides a game
func (p Policy) ShouldHide(game *models.Game) bool {
	if !p.Enabled || game == nil || game.GameStatus <= models.StatusScheduled {
		return false
	}
	if game.HomeTeam == nil || game.AwayTeam == nil {
		return false
	}
	return game.Period >= p.HideAfterPeriod && game.ScoreDifference() <= p.MaxScoreDifference
}

// Apply sets the hidden flag on every started game and clears it on the rest.
// A disabled policy clears the flag everywhere.
func (p Policy) Apply(games []models.Game) int {
	hidden := 0
	for i := range games {
		games[i].Hidden = p.ShouldHide(&games[i])
		if games[i].Hidden {
			hidden++
		}
	}
	return hidden
}
