package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/variantscope/internal/linkview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 22

// sidebarFixedRows counts the header and spacer rows around the two lists.
const sidebarFixedRows = 5

type sidebarItemKind int

const (
	sidebarItemCountry sidebarItemKind = iota
	sidebarItemView
)

type sidebarItem struct {
	kind    sidebarItemKind
	viewIdx int
	country string
}

// visibleCountries returns the countries matching the quick filter.
func (m *DashboardModel) visibleCountries() []string {
	term := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if term == "" {
		return m.countries
	}
	out := make([]string, 0, len(m.countries))
	for _, c := range m.countries {
		if strings.Contains(strings.ToLower(c), term) {
			out = append(out, c)
		}
	}
	return out
}

func (m *DashboardModel) sidebarItems() []sidebarItem {
	countries := m.visibleCountries()
	items := make([]sidebarItem, 0, len(countries)+len(m.views))

	for _, c := range countries {
		items = append(items, sidebarItem{kind: sidebarItemCountry, country: c})
	}
	for i := range m.views {
		items = append(items, sidebarItem{kind: sidebarItemView, viewIdx: i})
	}
	return items
}

// countryRows is how many countries fit in the sidebar at once.
func (m *DashboardModel) countryRows() int {
	h := m.height - 2 - sidebarFixedRows - len(m.views)
	if h < 1 {
		return 1
	}
	return h
}

func (m *DashboardModel) clampSidebarCursor() {
	items := m.sidebarItems()
	if len(items) == 0 {
		m.sidebarCursor = 0
		m.sidebarOffset = 0
		return
	}
	m.sidebarCursor = clampIndex(m.sidebarCursor, len(items))

	// Keep the cursor inside the scrolling country window.
	n := len(m.visibleCountries())
	rows := m.countryRows()
	if m.sidebarCursor < n {
		if m.sidebarCursor < m.sidebarOffset {
			m.sidebarOffset = m.sidebarCursor
		}
		if m.sidebarCursor >= m.sidebarOffset+rows {
			m.sidebarOffset = m.sidebarCursor - rows + 1
		}
	}
	if m.sidebarOffset > max(0, n-rows) {
		m.sidebarOffset = max(0, n-rows)
	}
	if m.sidebarOffset < 0 {
		m.sidebarOffset = 0
	}
}

func (m *DashboardModel) moveSidebarCursor(delta int) tea.Cmd {
	items := m.sidebarItems()
	if len(items) == 0 {
		return nil
	}
	m.sidebarCursor += delta
	m.clampSidebarCursor()

	// Views switch as the cursor passes over them; countries wait for Enter
	// so scrolling the list does not queue a change per row.
	if item := items[m.sidebarCursor]; item.kind == sidebarItemView {
		return m.applySidebarItem(item)
	}
	return nil
}

// focusSelectedCountry moves the sidebar cursor onto the selected country.
func (m *DashboardModel) focusSelectedCountry() {
	if m.snapshot == nil {
		return
	}
	for i, c := range m.visibleCountries() {
		if c == m.snapshot.Selection.Country {
			m.sidebarCursor = i
			break
		}
	}
	m.clampSidebarCursor()
}

func (m *DashboardModel) activateSidebarCursor() tea.Cmd {
	items := m.sidebarItems()
	if len(items) == 0 {
		return nil
	}
	m.clampSidebarCursor()
	return m.applySidebarItem(items[m.sidebarCursor])
}

func (m *DashboardModel) applySidebarItem(item sidebarItem) tea.Cmd {
	switch item.kind {
	case sidebarItemView:
		m.activateView(item.viewIdx)
		return nil
	case sidebarItemCountry:
		if m.snapshot != nil && m.snapshot.Selection.Country == item.country {
			return nil
		}
		return m.requestChange(linkview.SetCountry(item.country))
	}
	return nil
}

func (m *DashboardModel) buildSidebarLines() ([]string, map[int]int) {
	rowToCursor := make(map[int]int)
	countries := m.visibleCountries()
	rows := m.countryRows()
	lines := make([]string, 0, rows+len(m.views)+sidebarFixedRows)

	selected := ""
	if m.snapshot != nil {
		selected = m.snapshot.Selection.Country
	}

	header := "Countries"
	if len(countries) > rows {
		header = fmt.Sprintf("Countries %d/%d", min(m.sidebarOffset+rows, len(countries)), len(countries))
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(header))
	lines = append(lines, "")

	if len(countries) == 0 {
		empty := "  (no countries)"
		if m.filterInput.Value() != "" {
			empty = "  (no matches)"
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorGray).Render(empty))
	}

	end := min(len(countries), m.sidebarOffset+rows)
	for i := m.sidebarOffset; i < end; i++ {
		c := countries[i]
		label := "  " + c
		if c == selected {
			label = "> " + c
		}
		maxLabelWidth := sidebarWidth - 4
		if lipgloss.Width(label) > maxLabelWidth && maxLabelWidth > 3 {
			label = string([]rune(label)[:maxLabelWidth-1]) + "~"
		}

		rowToCursor[len(lines)] = i
		if m.activeSection == SectionSidebar && m.sidebarCursor == i {
			label = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(label)
		}
		lines = append(lines, label)
	}

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Views"))
	lines = append(lines, "")

	for i, vw := range m.views {
		cursor := len(countries) + i
		label := "  " + vw.Title
		if m.activeViewIdx == i {
			label = "> " + vw.Title
		}
		rowToCursor[len(lines)] = cursor
		if m.activeSection == SectionSidebar && m.sidebarCursor == cursor {
			label = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(label)
		}
		lines = append(lines, label)
	}

	return lines, rowToCursor
}

func (m *DashboardModel) sidebarCursorAtMouseRow(y int) (int, bool) {
	_, rowToCursor := m.buildSidebarLines()

	// Bubble Tea mouse row can include border/padding rows depending on renderer.
	for _, offset := range []int{0, -1, -2, 1} {
		row := y + offset
		if row < 0 {
			continue
		}
		if idx, ok := rowToCursor[row]; ok {
			return idx, true
		}
	}
	return 0, false
}

// renderSidebar renders the country selector and view list.
func (m *DashboardModel) renderSidebar(height int) string {
	style := lipgloss.NewStyle().
		Width(sidebarWidth-2).
		Height(height).
		MaxHeight(height+2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	if m.activeSection == SectionSidebar {
		style = style.BorderForeground(ColorBlue)
	}

	lines, _ := m.buildSidebarLines()
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
