package models

// GameStatus represents the server-reported state of a game
type GameStatus int

const (
	StatusScheduled  GameStatus = 1
	StatusInProgress GameStatus = 2
	StatusFinal      GameStatus = 3
)

// Known reports whether the status is one of the three values the feed defines
func (s GameStatus) Known() bool {
	return s >= StatusScheduled && s <= StatusFinal
}

// Terminal reports whether a game in this status will not change again
func (s GameStatus) Terminal() bool {
	return s == StatusFinal
}

func (s GameStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusInProgress:
		return "in_progress"
	case StatusFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Team is one side of a game as reported by the live feed
type Team struct {
	TeamName          string   `json:"teamName"`
	TeamTricode       string   `json:"teamTricode"` // "LAL"
	Score             FlexInt  `json:"score"`
	TimeoutsRemaining FlexInt  `json:"timeoutsRemaining"`
	InBonus           FlexBool `json:"inBonus"` // 0/1 on the wire
}

// Game is a point-in-time snapshot of one game
type Game struct {
	GameID         string     `json:"gameId"`
	GameStatus     GameStatus `json:"gameStatus"`
	GameStatusText string     `json:"gameStatusText"` // "Q3 5:21", "Final", "7:30 pm ET"
	Period         int        `json:"period"`
	GameClock      string     `json:"gameClock,omitempty"`
	HomeTeam       *Team      `json:"homeTeam"`
	AwayTeam       *Team      `json:"awayTeam"`
	Hidden         bool       `json:"hidden"` // scores must not be shown
}

// ScoreDifference returns the absolute margin between the two teams
func (g *Game) ScoreDifference() int {
	if g.HomeTeam == nil || g.AwayTeam == nil {
		return 0
	}
	diff := int(g.HomeTeam.Score) - int(g.AwayTeam.Score)
	if diff < 0 {
		return -diff
	}
	return diff
}
