package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

func testGame(id string, status models.GameStatus, home, away int) models.Game {
	return models.Game{
		GameID:         id,
		GameStatus:     status,
		GameStatusText: "Q4 1:02",
		Period:         4,
		GameClock:      "1:02",
		HomeTeam: &models.Team{
			TeamName: "Lakers", TeamTricode: "LAL",
			Score: models.FlexInt(home), TimeoutsRemaining: 2, InBonus: true,
		},
		AwayTeam: &models.Team{
			TeamName: "Celtics", TeamTricode: "BOS",
			Score: models.FlexInt(away), TimeoutsRemaining: 1,
		},
	}
}

func testAction(period int, clock, description string, home, away int) models.Action {
	return models.Action{
		Period:      period,
		Clock:       clock,
		Description: models.NewText(description),
		ScoreHome:   models.FlexInt(home),
		ScoreAway:   models.FlexInt(away),
	}
}

func TestSelectVariant(t *testing.T) {
	tests := []struct {
		name   string
		hidden bool
		status models.GameStatus
		want   Variant
	}{
		{"scheduled", false, models.StatusScheduled, VariantPregame},
		{"in progress", false, models.StatusInProgress, VariantInProgress},
		{"final", false, models.StatusFinal, VariantFinal},
		{"hidden scheduled", true, models.StatusScheduled, VariantHidden},
		{"hidden in progress", true, models.StatusInProgress, VariantHidden},
		{"hidden final", true, models.StatusFinal, VariantHidden},
		{"unknown status", false, 7, VariantUnknown},
		{"hidden unknown status", true, 7, VariantHidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGame("g", tt.status, 0, 0)
			g.Hidden = tt.hidden
			if got := SelectVariant(&g); got != tt.want {
				t.Errorf("SelectVariant() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHiddenGamesNeverShowScores(t *testing.T) {
	r := New(Options{})

	for _, status := range []models.GameStatus{models.StatusScheduled, models.StatusInProgress, models.StatusFinal} {
		g := testGame("game-hidden", status, 101, 99)
		g.Hidden = true

		card, err := r.RenderGame(&g)
		if err != nil {
			t.Fatalf("RenderGame failed: %v", err)
		}
		if strings.Contains(string(card), "101") || strings.Contains(string(card), "99") {
			t.Errorf("status %d: hidden card shows a score: %s", status, card)
		}
		if !strings.Contains(string(card), "Hidden") {
			t.Errorf("status %d: expected hidden card, got %s", status, card)
		}

		board, err := r.RenderCollection([]models.Game{g}, 0)
		if err != nil {
			t.Fatalf("RenderCollection failed: %v", err)
		}
		if strings.Contains(string(board), "101") || strings.Contains(string(board), "99") {
			t.Errorf("status %d: hidden scoreboard shows a score: %s", status, board)
		}

		detail := &models.GameDetail{
			Boxscore: &g,
			Actions:  []models.Action{testAction(4, "1:02", "Layup", 101, 99)},
		}
		view, err := r.RenderSingle(detail)
		if err != nil {
			t.Fatalf("RenderSingle failed: %v", err)
		}
		for region, fragment := range view.Regions {
			if strings.Contains(string(fragment), "101") || strings.Contains(string(fragment), "99") {
				t.Errorf("status %d: hidden single view shows a score in %s: %s", status, region, fragment)
			}
		}
	}
}

func TestShouldContinue(t *testing.T) {
	r := New(Options{})

	for status, want := range map[models.GameStatus]bool{
		models.StatusScheduled:  true,
		models.StatusInProgress: true,
		models.StatusFinal:      false,
	} {
		g := testGame("g", status, 10, 12)
		view, err := r.RenderSingle(&models.GameDetail{Boxscore: &g})
		if err != nil {
			t.Fatalf("RenderSingle failed: %v", err)
		}
		if view.Continue != want {
			t.Errorf("status %d: Continue = %v, want %v", status, view.Continue, want)
		}
		if ShouldContinue(status) != want {
			t.Errorf("ShouldContinue(%d) = %v, want %v", status, ShouldContinue(status), want)
		}
	}
}

func TestRenderSingle_InProgressSurfacesLiveState(t *testing.T) {
	r := New(Options{})
	g := testGame("g", models.StatusInProgress, 88, 90)
	detail := &models.GameDetail{
		Boxscore: &g,
		Actions: []models.Action{
			testAction(4, "1:30", "Tatum 3PT Jump Shot", 88, 90),
			testAction(4, "1:02", "James Driving Layup", 90, 90),
		},
	}

	view, err := r.RenderSingle(detail)
	if err != nil {
		t.Fatalf("RenderSingle failed: %v", err)
	}

	if view.Variant != VariantInProgress {
		t.Errorf("Expected in-progress variant, got %s", view.Variant)
	}
	want := map[string]contracts.Fragment{
		RegionStatus:     "Q4 1:02",
		RegionPeriod:     "Period: 4",
		RegionClock:      "Game Clock: 1:02",
		RegionLastAction: "Last action: James Driving Layup",
	}
	for region, fragment := range want {
		if view.Regions[region] != fragment {
			t.Errorf("region %s = %q, want %q", region, view.Regions[region], fragment)
		}
	}
	if !strings.Contains(string(view.Regions[RegionGame]), "Timeouts: 2") {
		t.Errorf("Expected timeouts in game region, got %s", view.Regions[RegionGame])
	}
	if !strings.Contains(string(view.Regions[RegionGame]), "Bonus") {
		t.Errorf("Expected bonus marker in game region, got %s", view.Regions[RegionGame])
	}
}

func TestRenderSingle_FinalClearsLiveState(t *testing.T) {
	r := New(Options{})
	g := testGame("g", models.StatusFinal, 110, 104)
	g.GameStatusText = "Final"
	detail := &models.GameDetail{
		Boxscore: &g,
		Actions:  []models.Action{testAction(4, "0.00", "Game End", 110, 104)},
	}

	view, err := r.RenderSingle(detail)
	if err != nil {
		t.Fatalf("RenderSingle failed: %v", err)
	}

	for _, region := range []string{RegionPeriod, RegionClock, RegionLastAction} {
		fragment, ok := view.Regions[region]
		if !ok || fragment != "" {
			t.Errorf("Expected region %s to be cleared, got %q (present=%v)", region, fragment, ok)
		}
	}
	if strings.Contains(string(view.Regions[RegionGame]), "Timeouts") {
		t.Errorf("Expected no live state in final game region, got %s", view.Regions[RegionGame])
	}
	if !strings.Contains(string(view.Regions[RegionGame]), "110") {
		t.Errorf("Expected final score in game region, got %s", view.Regions[RegionGame])
	}
}

func TestRenderSingle_UnknownStatusRendersNothing(t *testing.T) {
	r := New(Options{})
	g := testGame("g", 9, 1, 2)

	view, err := r.RenderSingle(&models.GameDetail{Boxscore: &g})
	if err != nil {
		t.Fatalf("RenderSingle failed: %v", err)
	}
	if view.Variant != VariantUnknown {
		t.Errorf("Expected unknown variant, got %s", view.Variant)
	}
	if len(view.Regions) != 0 {
		t.Errorf("Expected no regions for unknown status, got %v", view.Regions)
	}
	if !view.Continue {
		t.Error("Expected polling to continue for an unknown status")
	}
}

func TestRenderSingle_StructuralErrors(t *testing.T) {
	r := New(Options{})
	noHome := testGame("g", models.StatusInProgress, 0, 0)
	noHome.HomeTeam = nil
	noStatus := testGame("g", 0, 0, 0)

	tests := []struct {
		name   string
		detail *models.GameDetail
		field  string
	}{
		{"nil detail", nil, "boxscore"},
		{"no boxscore", &models.GameDetail{}, "boxscore"},
		{"no home team", &models.GameDetail{Boxscore: &noHome}, "boxscore.homeTeam"},
		{"no status", &models.GameDetail{Boxscore: &noStatus}, "boxscore.gameStatus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.RenderSingle(tt.detail)
			var renderErr *contracts.RenderError
			if !errors.As(err, &renderErr) {
				t.Fatalf("Expected RenderError, got %v", err)
			}
			if renderErr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, renderErr.Field)
			}
		})
	}
}

func TestRenderCollection_FilterKeepsOrder(t *testing.T) {
	r := New(Options{})
	games := []models.Game{
		testGame("alpha", models.StatusScheduled, 0, 0),
		testGame("bravo", models.StatusInProgress, 50, 48),
		testGame("charlie", models.StatusFinal, 120, 111),
		testGame("delta", models.StatusInProgress, 30, 33),
	}

	board, err := r.RenderCollection(games, models.StatusInProgress)
	if err != nil {
		t.Fatalf("RenderCollection failed: %v", err)
	}
	html := string(board)

	if strings.Contains(html, "/NBA/game/alpha") || strings.Contains(html, "/NBA/game/charlie") {
		t.Errorf("Expected only in-progress games, got %s", html)
	}
	bravo := strings.Index(html, "/NBA/game/bravo")
	delta := strings.Index(html, "/NBA/game/delta")
	if bravo < 0 || delta < 0 {
		t.Fatalf("Expected both in-progress games, got %s", html)
	}
	if bravo > delta {
		t.Error("Expected original relative order to be kept")
	}
	if strings.Count(html, `data-variant="in_progress"`) != 2 {
		t.Errorf("Expected 2 in-progress cards, got %s", html)
	}
}

func TestRenderCollection_Placeholders(t *testing.T) {
	r := New(Options{})
	onlyFinal := []models.Game{testGame("final", models.StatusFinal, 99, 98)}

	tests := []struct {
		filter models.GameStatus
		games  []models.Game
		want   contracts.Fragment
	}{
		{models.StatusScheduled, onlyFinal, "<h5>No scheduled games to display right now...</h5>"},
		{models.StatusInProgress, onlyFinal, "<h5>There are currently no games in progress...</h5>"},
		{models.StatusFinal, nil, "<h5>No finished games to display yet...</h5>"},
	}

	for _, tt := range tests {
		got, err := r.RenderCollection(tt.games, tt.filter)
		if err != nil {
			t.Fatalf("RenderCollection failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("filter %d: got %q, want %q", tt.filter, got, tt.want)
		}
	}
}

// Filter 0 and unknown filters have no placeholder; an empty result renders nothing
func TestRenderCollection_NoPlaceholderWithoutKnownFilter(t *testing.T) {
	r := New(Options{})

	for _, filter := range []models.GameStatus{0, 5} {
		got, err := r.RenderCollection(nil, filter)
		if err != nil {
			t.Fatalf("RenderCollection failed: %v", err)
		}
		if got != "" {
			t.Errorf("filter %d: expected empty fragment, got %q", filter, got)
		}
	}

	if _, ok := Placeholder(0); ok {
		t.Error("Expected no placeholder for filter 0")
	}
}

func TestRenderCollection_UnknownStatusItemRendersNothing(t *testing.T) {
	r := New(Options{})
	games := []models.Game{testGame("odd", 4, 1, 1)}

	got, err := r.RenderCollection(games, 0)
	if err != nil {
		t.Fatalf("RenderCollection failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected nothing for an unknown status, got %q", got)
	}
}

func TestRenderCollection_StructuralError(t *testing.T) {
	r := New(Options{})
	broken := testGame("", models.StatusFinal, 1, 2)

	_, err := r.RenderCollection([]models.Game{testGame("ok", models.StatusFinal, 1, 2), broken}, 0)

	var renderErr *contracts.RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected RenderError, got %v", err)
	}
	if renderErr.Field != "games[1].gameId" {
		t.Errorf("Expected field games[1].gameId, got %s", renderErr.Field)
	}
}

func TestRenderEvents_GroupsContiguousPeriods(t *testing.T) {
	r := New(Options{})
	actions := []models.Action{
		testAction(1, "11:40", "Jump Ball", 0, 0),
		testAction(1, "10:02", "Layup", 2, 0),
		testAction(2, "12:00", "Period Start", 20, 22),
		testAction(2, "9:15", "Dunk", 24, 22),
		testAction(3, "11:11", "Free Throw", 50, 49),
	}

	view, err := r.RenderEvents(actions)
	if err != nil {
		t.Fatalf("RenderEvents failed: %v", err)
	}
	html := string(view.Actions)

	if view.Headers != 3 || strings.Count(html, "<h4") != 3 {
		t.Fatalf("Expected 3 headers, got %d: %s", view.Headers, html)
	}

	h1 := strings.Index(html, `<h4 id="period_1">Period 1</h4>`)
	h2 := strings.Index(html, `<h4 id="period_2">Period 2</h4>`)
	h3 := strings.Index(html, `<h4 id="period_3">Period 3</h4>`)
	if !(h1 == 0 && h1 < h2 && h2 < h3) {
		t.Fatalf("Expected headers in order 1,2,3 at the start of each run, got %d,%d,%d", h1, h2, h3)
	}

	// Each header immediately precedes the first line of its run
	for _, want := range []string{
		`Period 1</h4><p>Clock: 11:40 | Jump Ball | Score: (0 - 0)</p>`,
		`Period 2</h4><p>Clock: 12:00 | Period Start | Score: (22 - 20)</p>`,
		`Period 3</h4><p>Clock: 11:11 | Free Throw | Score: (49 - 50)</p>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in %s", want, html)
		}
	}
	if i := strings.Index(html, "Dunk"); i < h2 || i > h3 {
		t.Error("Expected period 2 action inside the period 2 section")
	}

	links := string(view.Links)
	if strings.Count(links, `class="btn btn-info m-1"`) != 3 || !strings.HasPrefix(links, `<a href="#period_1"`) {
		t.Errorf("Unexpected period links: %s", links)
	}
}

func TestRenderEvents_PeriodLinkTitles(t *testing.T) {
	r := New(Options{PeriodLabel: func(period int) string {
		if period > 4 {
			return fmt.Sprintf("OT%d", period-4)
		}
		return fmt.Sprintf("Q%d", period)
	}})

	view, err := r.RenderEvents([]models.Action{
		testAction(4, "0:01", "Jumper", 100, 100),
		testAction(5, "4:59", "Tip", 102, 100),
	})
	if err != nil {
		t.Fatalf("RenderEvents failed: %v", err)
	}

	want := `<a href="#period_4" class="btn btn-info m-1" title="Q4">Period 4</a>` +
		`<a href="#period_5" class="btn btn-info m-1" title="OT1">Period 5</a>`
	if string(view.Links) != want {
		t.Errorf("Unexpected period links:\n got %s\nwant %s", view.Links, want)
	}
	if !strings.Contains(string(view.Actions), `<h4 id="period_5">Period 5</h4>`) {
		t.Errorf("Expected headers to keep the period number, got %s", view.Actions)
	}
}

func TestRenderEvents_RepeatedPeriodStartsNewSection(t *testing.T) {
	sections := GroupByPeriod([]models.Action{
		{Period: 1}, {Period: 2}, {Period: 1},
	})
	if len(sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(sections))
	}
	if sections[2].Period != 1 {
		t.Errorf("Expected last section for period 1, got %d", sections[2].Period)
	}
}

func TestRenderEvents_SkippedActionStillOpensSection(t *testing.T) {
	r := New(Options{})
	actions := []models.Action{
		testAction(1, "0.00", "Period End", 20, 22),
		{Period: 2, Clock: "12:00", ScoreHome: 20, ScoreAway: 22}, // null description
		testAction(2, "11:30", "Jumper", 22, 22),
	}

	view, err := r.RenderEvents(actions)
	if err != nil {
		t.Fatalf("RenderEvents failed: %v", err)
	}
	html := string(view.Actions)

	if !strings.Contains(html, `Period 2</h4><p>Clock: 11:30 | Jumper`) {
		t.Errorf("Expected period 2 header followed by the next described action, got %s", html)
	}
	if strings.Contains(html, "Clock: 12:00") {
		t.Errorf("Expected action without description to be skipped, got %s", html)
	}
}

func TestRenderEvents_LiteralSentinel(t *testing.T) {
	r := New(Options{SkipDescription: SkipAny(SkipAbsent, SkipLiteral("10"))})
	actions := []models.Action{
		testAction(1, "11:00", "10", 0, 0),
		testAction(1, "10:00", "Turnover", 0, 0),
		{Period: 1, Clock: "9:00"},
	}

	view, err := r.RenderEvents(actions)
	if err != nil {
		t.Fatalf("RenderEvents failed: %v", err)
	}
	html := string(view.Actions)

	if strings.Contains(html, "11:00") || strings.Contains(html, "9:00") {
		t.Errorf("Expected sentinel and absent descriptions skipped, got %s", html)
	}
	if !strings.Contains(html, "Turnover") {
		t.Errorf("Expected regular action kept, got %s", html)
	}

	// With the default filter the literal is ordinary text
	view, _ = New(Options{}).RenderEvents(actions)
	if !strings.Contains(string(view.Actions), "Clock: 11:00 | 10 |") {
		t.Errorf("Expected literal 10 rendered by default, got %s", view.Actions)
	}
}

func TestRender_EscapesFeedText(t *testing.T) {
	r := New(Options{})
	g := testGame("g&1", models.StatusFinal, 1, 2)
	g.GameStatusText = "<script>alert(1)</script>"

	card, err := r.RenderGame(&g)
	if err != nil {
		t.Fatalf("RenderGame failed: %v", err)
	}
	if strings.Contains(string(card), "<script>") {
		t.Errorf("Expected feed text to be escaped, got %s", card)
	}
	if !strings.Contains(string(card), `href="/NBA/game/g&amp;1"`) {
		t.Errorf("Expected escaped details link, got %s", card)
	}
}

func TestRender_IsIdempotent(t *testing.T) {
	r := New(Options{DetailsPath: "/games/"})
	g := testGame("g", models.StatusInProgress, 70, 71)
	detail := &models.GameDetail{
		Boxscore: &g,
		Actions: []models.Action{
			testAction(1, "11:40", "Jump Ball", 0, 0),
			testAction(3, "4:10", "Hook Shot", 70, 71),
		},
	}

	first, err := r.RenderSingle(detail)
	if err != nil {
		t.Fatalf("RenderSingle failed: %v", err)
	}
	second, _ := r.RenderSingle(detail)

	if len(first.Regions) != len(second.Regions) {
		t.Fatalf("Region count differs: %d vs %d", len(first.Regions), len(second.Regions))
	}
	for region, fragment := range first.Regions {
		if second.Regions[region] != fragment {
			t.Errorf("region %s differs between renders", region)
		}
	}

	games := []models.Game{g, testGame("h", models.StatusFinal, 1, 2)}
	a, _ := r.RenderCollection(games, 0)
	b, _ := r.RenderCollection(games, 0)
	if a != b {
		t.Error("Expected byte-identical collection output")
	}
}
