package models

// GameDetail is the single-game feed: the current box score plus the play-by-play
type GameDetail struct {
	Boxscore *Game    `json:"boxscore"`
	Actions  []Action `json:"actions"`
}

// LastAction returns the most recent action, or nil when none were reported
func (d *GameDetail) LastAction() *Action {
	if len(d.Actions) == 0 {
		return nil
	}
	return &d.Actions[len(d.Actions)-1]
}

// Action is one play-by-play entry, ascending by occurrence
type Action struct {
	Period      int     `json:"period"`
	Clock       string  `json:"clock"`
	Description Text    `json:"description"`
	ScoreHome   FlexInt `json:"scoreHome"`
	ScoreAway   FlexInt `json:"scoreAway"`
}

// Scoreboard is the collection feed for the day's games
type Scoreboard struct {
	Games []Game `json:"games"`
}
