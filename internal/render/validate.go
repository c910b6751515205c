package render

import (
	"fmt"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

func missing(field string) error {
	return &contracts.RenderError{Field: field, Reason: "missing"}
}

func validateDetail(detail *models.GameDetail) error {
	if detail == nil || detail.Boxscore == nil {
		return missing("boxscore")
	}
	game := detail.Boxscore
	if game.GameStatus == 0 {
		return missing("boxscore.gameStatus")
	}
	if game.HomeTeam == nil {
		return missing("boxscore.homeTeam")
	}
	if game.AwayTeam == nil {
		return missing("boxscore.awayTeam")
	}
	return nil
}

// ValidateGames checks the structure every scoreboard card needs
func ValidateGames(games []models.Game) error {
	return validateGames(games)
}

func validateGames(games []models.Game) error {
	for i := range games {
		if err := validateGame(fmt.Sprintf("games[%d]", i), &games[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateGame(prefix string, game *models.Game) error {
	if game == nil {
		return missing(prefix)
	}
	if game.GameID == "" {
		return missing(prefix + ".gameId")
	}
	if game.GameStatus == 0 {
		return missing(prefix + ".gameStatus")
	}
	if game.HomeTeam == nil {
		return missing(prefix + ".homeTeam")
	}
	if game.AwayTeam == nil {
		return missing(prefix + ".awayTeam")
	}
	return nil
}
