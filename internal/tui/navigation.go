package tui

import (
	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress dispatches key events: modal stack first, then inline
// handlers (country filter), then global dashboard shortcuts.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// Modal on stack gets the event first.
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleKey(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	return m.handleGlobalKeys(msg)
}

// handleGlobalKeys handles dashboard-level shortcuts.
// Only reached when no modal is on the stack and no inline handler is active.
func (m *DashboardModel) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Escape):
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.focusSelectedCountry()
		}
		return m, nil

	case key.Matches(msg, k.Help):
		m.PushModal(NewHelpModal(m))
		return m, nil

	case key.Matches(msg, k.Filter):
		m.activeSection = SectionFilter
		m.filterActive = true
		m.sidebarVisible = true
		m.filterInput.Focus()
		return m, nil

	case key.Matches(msg, k.ToggleSidebar):
		m.sidebarVisible = !m.sidebarVisible
		if !m.sidebarVisible && m.activeSection == SectionSidebar {
			m.activeSection = SectionDecks
		}
		m.clampSidebarCursor()
		return m, nil

	case key.Matches(msg, k.NextView):
		m.nextView()
		return m, nil

	case key.Matches(msg, k.PrevView):
		m.prevView()
		return m, nil

	case key.Matches(msg, k.VariantPicker):
		if m.snapshot != nil && len(m.snapshot.Variants) > 0 {
			m.PushModal(NewVariantPicker(m.snapshot, m.modalContext()))
		}
		return m, nil

	case key.Matches(msg, k.MetricPicker):
		if m.snapshot != nil {
			m.PushModal(NewMetricPicker(m.snapshot, m.modalContext()))
		}
		return m, nil

	case key.Matches(msg, k.NextMetric):
		if m.snapshot == nil {
			return m, nil
		}
		return m, m.requestChange(linkview.SetMetric(nextMetric(m.snapshot.Selection.Metric)))

	case key.Matches(msg, k.Inspect):
		if m.snapshot != nil && m.snapshot.Selection.Variant != "" {
			m.PushModal(NewRecordModal(m, m.snapshot.Selection.Variant))
		}
		return m, nil

	case key.Matches(msg, k.Reload):
		return m, m.startLoad()
	}

	// Sidebar navigation
	if m.activeSection == SectionSidebar && m.sidebarVisible {
		switch {
		case key.Matches(msg, k.Up):
			return m, m.moveSidebarCursor(-1)
		case key.Matches(msg, k.Down):
			return m, m.moveSidebarCursor(1)
		case key.Matches(msg, k.PageUp):
			return m, m.moveSidebarCursor(-m.countryRows())
		case key.Matches(msg, k.PageDown):
			return m, m.moveSidebarCursor(m.countryRows())
		case key.Matches(msg, k.Home):
			m.sidebarCursor = 0
			m.clampSidebarCursor()
			return m, nil
		case key.Matches(msg, k.Enter):
			return m, m.activateSidebarCursor()
		}
	}

	switch {
	case key.Matches(msg, k.NextSection):
		m.nextSection()
		return m, nil

	case key.Matches(msg, k.PrevSection):
		m.prevSection()
		return m, nil

	case key.Matches(msg, k.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, k.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, k.Home):
		if m.activeSection == SectionDecks && m.activeDeckIdx < len(m.decks) {
			m.deckSelIdx[m.activeDeckIdx] = 0
		}
		return m, nil

	case key.Matches(msg, k.End):
		if m.activeSection == SectionDecks && m.activeDeckIdx < len(m.decks) {
			m.deckSelIdx[m.activeDeckIdx] = max(0, m.decks[m.activeDeckIdx].ItemCount()-1)
		}
		return m, nil

	case key.Matches(msg, k.Enter):
		return m.selectFocusedItem()
	}

	return m, nil
}

// nextSection moves focus forward: sidebar, then each deck in turn.
func (m *DashboardModel) nextSection() {
	switch m.activeSection {
	case SectionSidebar, SectionFilter:
		m.activeSection = SectionDecks
		m.activeDeckIdx = 0
	case SectionDecks:
		if m.activeDeckIdx < len(m.decks)-1 {
			m.activeDeckIdx++
			return
		}
		if m.sidebarVisible {
			m.activeSection = SectionSidebar
			m.focusSelectedCountry()
			return
		}
		m.activeDeckIdx = 0
	}
}

// prevSection moves focus backward.
func (m *DashboardModel) prevSection() {
	switch m.activeSection {
	case SectionSidebar, SectionFilter:
		m.activeSection = SectionDecks
		m.activeDeckIdx = max(0, len(m.decks)-1)
	case SectionDecks:
		if m.activeDeckIdx > 0 {
			m.activeDeckIdx--
			return
		}
		if m.sidebarVisible {
			m.activeSection = SectionSidebar
			m.focusSelectedCountry()
			return
		}
		m.activeDeckIdx = max(0, len(m.decks)-1)
	}
}

// moveSelection moves the cursor within the active section
func (m *DashboardModel) moveSelection(delta int) {
	if m.activeSection == SectionSidebar {
		m.moveSidebarCursor(delta)
		return
	}

	if m.activeSection != SectionDecks || m.activeDeckIdx >= len(m.decks) {
		return
	}

	maxItems := m.decks[m.activeDeckIdx].ItemCount()
	if maxItems == 0 {
		return
	}

	m.deckSelIdx[m.activeDeckIdx] = clampIndex(m.deckSelIdx[m.activeDeckIdx]+delta, maxItems)
}

// selectFocusedItem runs the focused deck's action for its cursor item.
func (m *DashboardModel) selectFocusedItem() (tea.Model, tea.Cmd) {
	if m.activeSection == SectionDecks && m.activeDeckIdx < len(m.decks) {
		cmd := m.decks[m.activeDeckIdx].OnSelect(m.viewContext(), m.deckSelIdx[m.activeDeckIdx])
		return m, cmd
	}
	return m, nil
}

// nextMetric cycles through the metrics in selector order.
func nextMetric(cur model.Metric) model.Metric {
	for i, mt := range metricOrder {
		if mt == cur {
			return metricOrder[(i+1)%len(metricOrder)]
		}
	}
	return metricOrder[0]
}

// metricOrder is the order metrics are offered in pickers.
var metricOrder = []model.Metric{
	model.MetricMortalityRate,
	model.MetricDuration,
	model.MetricGrowthRate,
	model.MetricTotalCases,
	model.MetricTotalDeaths,
}
