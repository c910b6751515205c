package basketball_nba

import "strings"

// NBA tricodes keyed by the live feed's team name (nickname only)
var nbaTricodes = map[string]string{
	"Hawks":         "ATL",
	"Celtics":       "BOS",
	"Nets":          "BKN",
	"Hornets":       "CHA",
	"Bulls":         "CHI",
	"Cavaliers":     "CLE",
	"Mavericks":     "DAL",
	"Nuggets":       "DEN",
	"Pistons":       "DET",
	"Warriors":      "GSW",
	"Rockets":       "HOU",
	"Pacers":        "IND",
	"Clippers":      "LAC",
	"Lakers":        "LAL",
	"Grizzlies":     "MEM",
	"Heat":          "MIA",
	"Bucks":         "MIL",
	"Timberwolves":  "MIN",
	"Pelicans":      "NOP",
	"Knicks":        "NYK",
	"Thunder":       "OKC",
	"Magic":         "ORL",
	"76ers":         "PHI",
	"Suns":          "PHX",
	"Trail Blazers": "POR",
	"Kings":         "SAC",
	"Spurs":         "SAS",
	"Raptors":       "TOR",
	"Jazz":          "UTA",
	"Wizards":       "WAS",
}

// Reverse mapping for lookups
// GetTeamAbbreviation returns the tricode for a team name.
// Full names ("Los Angeles Lakers") resolve through their nickname.
func GetTeamAbbreviation(name string) string {
	name = strings.TrimSpace(name)
	if tricode, ok := nbaTricodes[name]; ok {
		return tricode
	}
	for nickname, tricode := range nbaTricodes {
		if strings.HasSuffix(name, " "+nickname) {
			return tricode
		}
	}
	return name // Return original if not found
}
