package render

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// markup writes HTML and keeps the first write error
type markup struct {
	w   io.Writer
	err error
}

func (m *markup) raw(parts ...string) {
	for _, p := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, p)
	}
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func component(write func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		write(m)
		return m.err
	})
}

func textComponent(s string) templ.Component {
	return component(func(m *markup) { m.text(s) })
}

func periodComponent(period int) templ.Component {
	return textComponent(fmt.Sprintf("Period: %d", period))
}

func clockComponent(clock string) templ.Component {
	return textComponent("Game Clock: " + clock)
}

func lastActionComponent(description string) templ.Component {
	return textComponent("Last action: " + description)
}

func placeholderComponent(message string) templ.Component {
	return component(func(m *markup) {
		m.raw("<h5>")
		m.text(message)
		m.raw("</h5>")
	})
}

func scoreText(team *models.Team, hidden bool) string {
	if hidden {
		return "-"
	}
	return strconv.Itoa(int(team.Score))
}

func teamStateText(team *models.Team) (timeouts string, bonus bool) {
	return "Timeouts: " + strconv.Itoa(int(team.TimeoutsRemaining)), bool(team.InBonus)
}

// teamRow writes the away | middle | home row every layout shares
func teamRow(m *markup, tag, away, middle, home string) {
	m.raw(`<div class="row card-title"><div class="col"><`, tag, `>`)
	m.text(away)
	m.raw(`</`, tag, `></div><div class="col">`)
	if middle != "" {
		m.raw(`<h6>`)
		m.text(middle)
		m.raw(`</h6>`)
	}
	m.raw(`</div><div class="col"><`, tag, `>`)
	m.text(home)
	m.raw(`</`, tag, `></div></div>`)
}

func teamStateRow(m *markup, away, home *models.Team) {
	m.raw(`<div class="row card-title">`)
	for i, team := range []*models.Team{away, home} {
		if i == 1 {
			m.raw(`<div class="col"></div>`)
		}
		timeouts, bonus := teamStateText(team)
		m.raw(`<div class="col"><p>`)
		m.text(timeouts)
		m.raw(`<br>`)
		if bonus {
			m.raw(`Bonus`)
		}
		m.raw(`</p></div>`)
	}
	m.raw(`</div>`)
}

func cardTitle(m *markup, title string) {
	m.raw(`<h5 class="card-title">`)
	m.text(title)
	m.raw(`</h5>`)
}

func detailsLink(m *markup, detailsPath, gameID string) {
	m.raw(`<div class="row"><a href="`)
	m.text(detailsPath + url.PathEscape(gameID))
	m.raw(`" class="btn btn-info">Details</a></div>`)
}

// gameDetailComponent is the score block of the single-game page
func gameDetailComponent(game *models.Game) templ.Component {
	return component(func(m *markup) {
		away, home := game.AwayTeam, game.HomeTeam
		m.raw(`<div class="col-lg-6">`)
		teamRow(m, "h4", away.TeamName, "", home.TeamName)
		teamRow(m, "h4", scoreText(away, game.Hidden), "", scoreText(home, game.Hidden))
		if game.GameStatus == models.StatusInProgress {
			teamStateRow(m, away, home)
		}
		m.raw(`</div>`)
	})
}

func gameCardComponent(game *models.Game, detailsPath string) templ.Component {
	return component(func(m *markup) { writeGameCard(m, game, detailsPath) })
}

func collectionComponent(games []models.Game, detailsPath string) templ.Component {
	return component(func(m *markup) {
		for i := range games {
			writeGameCard(m, &games[i], detailsPath)
		}
	})
}

// writeGameCard writes one scoreboard card; an unknown status writes nothing
func writeGameCard(m *markup, game *models.Game, detailsPath string) {
	variant := SelectVariant(game)
	if variant == VariantUnknown {
		return
	}

	away, home := game.AwayTeam, game.HomeTeam
	m.raw(`<div class="col-lg-6 border rounded bg-secondary" data-variant="`, variant.String(), `">`)

	switch variant {
	case VariantHidden:
		m.raw(`<div class="card-body container" align="center">`)
		cardTitle(m, "Hidden")
		teamRow(m, "h5", away.TeamTricode, "", home.TeamTricode)
		teamRow(m, "h4", scoreText(away, true), "", scoreText(home, true))
		detailsLink(m, detailsPath, game.GameID)

	case VariantPregame:
		m.raw(`<div class="card-body container" align="center">`)
		teamRow(m, "h5", away.TeamName, "vs.", home.TeamName)
		m.raw(`<div class="row"><div class="col"><h5>`)
		m.text(game.GameStatusText)
		m.raw(`</h5></div></div>`)

	case VariantInProgress:
		m.raw(`<div class="card-body container">`)
		cardTitle(m, game.GameStatusText)
		teamRow(m, "h4", away.TeamTricode, "", home.TeamTricode)
		teamRow(m, "h4", scoreText(away, false), "", scoreText(home, false))
		teamStateRow(m, away, home)
		detailsLink(m, detailsPath, game.GameID)

	case VariantFinal:
		m.raw(`<div class="card-body container" align="center">`)
		cardTitle(m, game.GameStatusText)
		teamRow(m, "h5", away.TeamTricode, "", home.TeamTricode)
		teamRow(m, "h4", scoreText(away, false), "", scoreText(home, false))
		detailsLink(m, detailsPath, game.GameID)
	}

	m.raw(`</div></div>`)
}

// actionsComponent writes one header per section and one line per kept action
func actionsComponent(sections []Section, skip DescriptionFilter, hideScores bool) templ.Component {
	return component(func(m *markup) {
		for _, section := range sections {
			m.raw(`<h4 id="period_`, strconv.Itoa(section.Period), `">`)
			m.text(fmt.Sprintf("Period %d", section.Period))
			m.raw(`</h4>`)

			for _, action := range section.Actions {
				if skip(action.Description) {
					continue
				}
				line := fmt.Sprintf("Clock: %s | %s", action.Clock, action.Description.String())
				if !hideScores {
					line += fmt.Sprintf(" | Score: (%d - %d)", action.ScoreAway, action.ScoreHome)
				}
				m.raw(`<p>`)
				m.text(line)
				m.raw(`</p>`)
			}
		}
	})
}

func periodLinksComponent(sections []Section, label func(int) string) templ.Component {
	return component(func(m *markup) {
		for _, section := range sections {
			period := strconv.Itoa(section.Period)
			m.raw(`<a href="#period_`, period, `" class="btn btn-info m-1"`)
			if label != nil {
				m.raw(` title="`)
				m.text(label(section.Period))
				m.raw(`"`)
			}
			m.raw(`>Period `, period, `</a>`)
		}
	})
}
