package tui

import (
	"strings"
	"testing"

	"github.com/tinytelemetry/variantscope/internal/linkview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func TestNewDashboardModel_DefaultViews(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	m := NewDashboardModel(linkview.New(q, linkview.Options{}), q)

	if got := len(m.views); got != 2 {
		t.Fatalf("default views = %d, want 2", got)
	}
	if got := m.currentViewTitle(); got != "Linked" {
		t.Fatalf("current view title = %q, want Linked", got)
	}
	if got := len(m.decks); got != 4 {
		t.Fatalf("linked view decks = %d, want 4", got)
	}
	if !m.sidebarVisible {
		t.Fatal("expected sidebar to be visible by default")
	}
	if m.activeSection != SectionDecks {
		t.Fatalf("initial section = %v, want decks", m.activeSection)
	}
}

func TestViewSwitch_PreservesDeckState(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.activeDeckIdx = 3
	m.deckSelIdx[3] = 2

	m.nextView()
	if got := m.currentViewTitle(); got != "Heat Map" {
		t.Fatalf("view after ] = %q, want Heat Map", got)
	}
	m.prevView()

	if got := m.activeDeckIdx; got != 3 {
		t.Fatalf("active deck = %d, want preserved", got)
	}
	if got := m.deckSelIdx[3]; got != 2 {
		t.Fatalf("deck cursor = %d, want preserved", got)
	}
}

func TestInactiveViewDecksReceiveSnapshots(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	drain(t, m, m.requestChange(linkview.SetCountry("Brazil")))

	m.nextView()
	heat, ok := m.decks[0].(*HeatmapDeck)
	if !ok {
		t.Fatalf("first deck of Heat Map view is %T", m.decks[0])
	}
	if heat.view != m.snapshot.Heatmap {
		t.Fatal("heat map deck of the inactive view missed the snapshot")
	}
}

func TestSidebarActivation_SelectsCountryAndView(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.activeSection = SectionSidebar

	m.sidebarCursor = 1 // Brazil
	drain(t, m, m.activateSidebarCursor())
	if got := m.snapshot.Selection.Country; got != "Brazil" {
		t.Fatalf("selected country = %q, want Brazil", got)
	}
	if got := m.snapshot.Selection.Variant; got != "20J.Gamma" {
		t.Fatalf("variant = %q, want first option of Brazil", got)
	}

	// Views follow the countries in the sidebar.
	m.sidebarCursor = len(m.countries) + 1
	m.activateSidebarCursor()
	if got := m.currentViewTitle(); got != m.views[1].Title {
		t.Fatalf("active view = %q, want %q", got, m.views[1].Title)
	}
}

func TestSidebarActivation_CurrentCountryIsNoop(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.sidebarCursor = 0 // Afghanistan, already selected

	if cmd := m.activateSidebarCursor(); cmd != nil {
		t.Fatal("re-selecting the current country should not queue a change")
	}
}

func TestSidebarCursorMovesOverCountriesWithoutQueuing(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.activeSection = SectionSidebar

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Fatal("moving over countries should not queue a change")
	}
	if m.sidebarCursor != 1 {
		t.Fatalf("sidebar cursor = %d, want 1", m.sidebarCursor)
	}
	if len(m.pending) != 0 || m.inFlight {
		t.Fatal("change queued while scrolling the country list")
	}
}

func TestCountryFilter_TypeAndEnterSelectsMatch(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	m.Update(keyRunes("/"))
	if !m.filterActive {
		t.Fatal("/ should open the country filter")
	}
	for _, r := range "bra" {
		m.Update(keyRunes(string(r)))
	}
	if got := m.visibleCountries(); len(got) != 1 || got[0] != "Brazil" {
		t.Fatalf("visible countries = %v, want [Brazil]", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	if m.filterActive {
		t.Fatal("filter still open after Enter")
	}
	if got := m.snapshot.Selection.Country; got != "Brazil" {
		t.Fatalf("country = %q, want Brazil", got)
	}
}

func TestCountryFilter_EscapeClears(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(keyRunes("/"))
	m.Update(keyRunes("c"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.filterActive {
		t.Fatal("filter still open after Esc")
	}
	if got := m.filterInput.Value(); got != "" {
		t.Fatalf("filter text = %q, want empty", got)
	}
	if len(m.pending) != 0 || m.inFlight {
		t.Fatal("Esc queued a change")
	}
}

func TestBestCountryMatch(t *testing.T) {
	t.Parallel()

	countries := []string{"Afghanistan", "Brazil", "Chad", "United Kingdom", "United States"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"exact ignores case", "brazil", "Brazil"},
		{"prefix", "uni", "United Kingdom"},
		{"substring", "states", "United States"},
		{"closest by edit distance", "Brazl", "Brazil"},
		{"blank", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := bestCountryMatch(tt.text, countries); got != tt.want {
				t.Fatalf("bestCountryMatch(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNextMetricCycles(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	start := m.snapshot.Selection.Metric

	_, cmd := m.Update(keyRunes("M"))
	drain(t, m, cmd)

	if got, want := m.snapshot.Selection.Metric, nextMetric(start); got != want {
		t.Fatalf("metric = %q, want %q", got, want)
	}
	if got := nextMetric(metricOrder[len(metricOrder)-1]); got != metricOrder[0] {
		t.Fatalf("nextMetric wraps to %q, want %q", got, metricOrder[0])
	}
}

func TestInspectKey_OpensRecordModal(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(keyRunes("i"))

	top, ok := m.TopModal().(*RecordModal)
	if !ok {
		t.Fatalf("top modal = %T, want *RecordModal", m.TopModal())
	}
	if top.variant != m.snapshot.Selection.Variant {
		t.Fatalf("record modal variant = %q, want %q", top.variant, m.snapshot.Selection.Variant)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.HasModal() {
		t.Fatal("Esc should close the record modal")
	}
}

func TestPushModal_DeduplicatesByID(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.PushModal(NewHelpModal(m))
	m.PushModal(NewHelpModal(m))

	if got := len(m.modalStack); got != 1 {
		t.Fatalf("modal stack = %d, want 1", got)
	}
}

func TestView_RendersDashboard(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"Countries", "Afghanistan", "Top Variants", "Heat Map"} {
		if !containsPlain(out, want) {
			t.Fatalf("dashboard view missing %q", want)
		}
	}
}

func TestView_TooSmall(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	if out := m.View(); containsPlain(out, "Top Variants") {
		t.Fatal("decks rendered in a terminal below the minimum size")
	}
}

// containsPlain reports whether the rendered output contains s once
// styling escapes are removed.
func containsPlain(rendered, s string) bool {
	return strings.Contains(ansi.Strip(rendered), s)
}
