// Package render turns score snapshots into HTML fragments for the regions of
// the scoreboard pages. Every function here is pure: the output depends only on
// the snapshot passed in, and the same snapshot always renders byte-identical
// fragments.
package render

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// Region names on the single-game page
const (
	RegionStatus     = "status"
	RegionGame       = "game"
	RegionActions    = "actions"
	RegionLinks      = "links"
	RegionPeriod     = "period"
	RegionClock      = "clock"
	RegionLastAction = "last_action"
)

// RegionGames is the only region on the scoreboard page
const RegionGames = "games"

// DefaultDetailsPath prefixes the game id in a card's details link
const DefaultDetailsPath = "/NBA/game/"

// Variant is the card layout chosen for one game
type Variant int

const (
	VariantUnknown Variant = iota
	VariantHidden
	VariantPregame
	VariantInProgress
	VariantFinal
)

func (v Variant) String() string {
	switch v {
	case VariantHidden:
		return "hidden"
	case VariantPregame:
		return "pregame"
	case VariantInProgress:
		return "in_progress"
	case VariantFinal:
		return "final"
	default:
		return "unknown"
	}
}

// SelectVariant picks the layout for a game. Hidden wins over every status.
func SelectVariant(game *models.Game) Variant {
	if game.Hidden {
		return VariantHidden
	}
	switch game.GameStatus {
	case models.StatusScheduled:
		return VariantPregame
	case models.StatusInProgress:
		return VariantInProgress
	case models.StatusFinal:
		return VariantFinal
	default:
		return VariantUnknown
	}
}

// ShouldContinue reports whether a single-game view should keep polling
func ShouldContinue(status models.GameStatus) bool {
	return !status.Terminal()
}

// Placeholder returns the empty-state message for a status filter.
// Filter 0 and unknown filters have none.
func Placeholder(filter models.GameStatus) (string, bool) {
	switch filter {
	case models.StatusScheduled:
		return "No scheduled games to display right now...", true
	case models.StatusInProgress:
		return "There are currently no games in progress...", true
	case models.StatusFinal:
		return "No finished games to display yet...", true
	default:
		return "", false
	}
}

// Options configures a Renderer
type Options struct {
	DetailsPath     string            // link prefix for game cards, DefaultDetailsPath when empty
	SkipDescription DescriptionFilter // actions left out of the play-by-play, SkipAbsent when nil
	PeriodLabel     func(period int) string // title of each period link, none when nil
}

// Renderer renders snapshots with fixed options
type Renderer struct {
	opts Options
}

// New creates a renderer
func New(opts Options) *Renderer {
	if opts.DetailsPath == "" {
		opts.DetailsPath = DefaultDetailsPath
	}
	if opts.SkipDescription == nil {
		opts.SkipDescription = SkipAbsent
	}
	return &Renderer{opts: opts}
}

// SingleView is the rendered single-game page
type SingleView struct {
	Variant  Variant
	Regions  contracts.Regions
	Continue bool // false once the game is terminal; the caller stops polling
}

// EventsView is the rendered play-by-play
type EventsView struct {
	Actions contracts.Fragment
	Links   contracts.Fragment
	Headers int // number of period sections emitted
}

// RenderSingle renders every region of the single-game page.
// Live-state regions (period, clock, last action) are only filled while the
// game is in progress and are emptied once it is final. An unknown status
// renders no regions.
func (r *Renderer) RenderSingle(detail *models.GameDetail) (SingleView, error) {
	if err := validateDetail(detail); err != nil {
		return SingleView{}, err
	}

	game := detail.Boxscore
	view := SingleView{
		Variant:  SelectVariant(game),
		Continue: ShouldContinue(game.GameStatus),
	}
	if !game.GameStatus.Known() {
		return view, nil
	}

	events, err := r.renderEvents(detail.Actions, game.Hidden)
	if err != nil {
		return SingleView{}, err
	}

	regions := contracts.Regions{
		RegionActions:    events.Actions,
		RegionLinks:      events.Links,
		RegionPeriod:     "",
		RegionClock:      "",
		RegionLastAction: "",
	}

	if regions[RegionStatus], err = renderFragment(textComponent(game.GameStatusText)); err != nil {
		return SingleView{}, err
	}
	if regions[RegionGame], err = renderFragment(gameDetailComponent(game)); err != nil {
		return SingleView{}, err
	}

	if game.GameStatus == models.StatusInProgress {
		if regions[RegionPeriod], err = renderFragment(periodComponent(game.Period)); err != nil {
			return SingleView{}, err
		}
		if regions[RegionClock], err = renderFragment(clockComponent(game.GameClock)); err != nil {
			return SingleView{}, err
		}
		if last := detail.LastAction(); last != nil {
			if regions[RegionLastAction], err = renderFragment(lastActionComponent(last.Description.String())); err != nil {
				return SingleView{}, err
			}
		}
	}

	view.Regions = regions
	return view, nil
}

// RenderCollection renders the scoreboard. A non-zero filter keeps only games
// in that status, in their original order. When the filter leaves nothing, the
// filter's placeholder is rendered; filter 0 never produces a placeholder.
func (r *Renderer) RenderCollection(games []models.Game, filter models.GameStatus) (contracts.Fragment, error) {
	if err := validateGames(games); err != nil {
		return "", err
	}

	selected := FilterGames(games, filter)
	if len(selected) == 0 {
		message, ok := Placeholder(filter)
		if !ok {
			return "", nil
		}
		return renderFragment(placeholderComponent(message))
	}

	return renderFragment(collectionComponent(selected, r.opts.DetailsPath))
}

// RenderGame renders a single scoreboard card
func (r *Renderer) RenderGame(game *models.Game) (contracts.Fragment, error) {
	if err := validateGame("game", game); err != nil {
		return "", err
	}
	return renderFragment(gameCardComponent(game, r.opts.DetailsPath))
}

// RenderEvents renders the play-by-play grouped by contiguous period runs
func (r *Renderer) RenderEvents(actions []models.Action) (EventsView, error) {
	return r.renderEvents(actions, false)
}

func (r *Renderer) renderEvents(actions []models.Action, hideScores bool) (EventsView, error) {
	sections := GroupByPeriod(actions)

	actionsHTML, err := renderFragment(actionsComponent(sections, r.opts.SkipDescription, hideScores))
	if err != nil {
		return EventsView{}, err
	}
	linksHTML, err := renderFragment(periodLinksComponent(sections, r.opts.PeriodLabel))
	if err != nil {
		return EventsView{}, err
	}

	return EventsView{
		Actions: actionsHTML,
		Links:   linksHTML,
		Headers: len(sections),
	}, nil
}

// FilterGames keeps games in the given status, preserving order. Filter 0 keeps all.
func FilterGames(games []models.Game, filter models.GameStatus) []models.Game {
	if filter == 0 {
		return games
	}
	selected := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.GameStatus == filter {
			selected = append(selected, g)
		}
	}
	return selected
}

// Section is one contiguous run of actions in the same period
type Section struct {
	Period  int
	Actions []models.Action
}

// GroupByPeriod splits actions into contiguous equal-period runs in the given
// order. A period that reappears later starts a new section.
func GroupByPeriod(actions []models.Action) []Section {
	var sections []Section
	for _, action := range actions {
		if len(sections) == 0 || sections[len(sections)-1].Period != action.Period {
			sections = append(sections, Section{Period: action.Period})
		}
		last := &sections[len(sections)-1]
		last.Actions = append(last.Actions, action)
	}
	return sections
}

func renderFragment(c templ.Component) (contracts.Fragment, error) {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return contracts.Fragment(buf.String()), nil
}
