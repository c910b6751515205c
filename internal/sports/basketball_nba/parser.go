package basketball_nba

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// formatGameClock converts the feed's ISO-8601 duration clock to display form.
//
//	PT05M23.00S -> 5:23
//	PT00M07.40S -> 7.40
//
// Values that are not in that form are returned unchanged.
func formatGameClock(raw string) string {
	if !strings.HasPrefix(raw, "PT") {
		return raw
	}

	clock := strings.TrimSuffix(strings.TrimPrefix(raw, "PT"), "S")
	minutesStr, rest, ok := strings.Cut(clock, "M")
	if !ok {
		return raw
	}
	secondsStr, fractionStr, _ := strings.Cut(rest, ".")

	minutes, err := strconv.Atoi(minutesStr)
	if err != nil {
		return raw
	}
	seconds, err := strconv.Atoi(secondsStr)
	if err != nil {
		return raw
	}
	fraction := 0
	if fractionStr != "" {
		if fraction, err = strconv.Atoi(fractionStr); err != nil {
			return raw
		}
	}

	// Under a minute the clock shows tenths/hundredths instead of minutes
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%d.%02d", seconds, fraction)
}

// normalizeStatusText replaces a running clock in the status line of a live game.
// The clock has its own region on the single-game view.
func normalizeStatusText(game *models.Game) string {
	if game.GameStatus == models.StatusInProgress && strings.Contains(game.GameStatusText, ":") {
		return "In Progress"
	}
	return game.GameStatusText
}

// getPeriodLabel returns NBA-specific period label
func getPeriodLabel(period int) string {
	switch period {
	case 1:
		return "Q1"
	case 2:
		return "Q2"
	case 3:
		return "Q3"
	case 4:
		return "Q4"
	default:
		if period > 4 {
			return fmt.Sprintf("OT%d", period-4)
		}
		return fmt.Sprintf("Q%d", period)
	}
}
