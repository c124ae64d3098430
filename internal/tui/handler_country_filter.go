package tui

import (
	"strings"

	"github.com/tinytelemetry/variantscope/internal/linkview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// countryFilterHandler drives the inline country quick filter. Typing
// narrows the sidebar list; Enter selects the best match.
type countryFilterHandler struct{}

func (h countryFilterHandler) HandleKey(m *DashboardModel, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "escape", "esc":
		m.closeFilter()
		m.filterInput.SetValue("")
		m.focusSelectedCountry()
		return true, nil
	case "enter":
		match := bestCountryMatch(m.filterInput.Value(), m.countries)
		m.closeFilter()
		m.filterInput.SetValue("")
		if match == "" {
			return true, nil
		}
		m.activeSection = SectionSidebar
		for i, c := range m.visibleCountries() {
			if c == match {
				m.sidebarCursor = i
				break
			}
		}
		m.clampSidebarCursor()
		if m.snapshot != nil && m.snapshot.Selection.Country == match {
			return true, nil
		}
		return true, m.requestChange(linkview.SetCountry(match))
	case "up", "down":
		return true, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.sidebarCursor = 0
		m.sidebarOffset = 0
		m.clampSidebarCursor()
		return true, cmd
	}
}

func (h countryFilterHandler) HandleMouse(_ *DashboardModel, _ tea.MouseMsg) (bool, tea.Cmd) {
	return true, nil // swallow mouse events during filter input
}

func (m *DashboardModel) closeFilter() {
	m.filterActive = false
	m.filterInput.Blur()
	if m.activeSection == SectionFilter {
		m.activeSection = SectionDecks
	}
}

// bestCountryMatch resolves filter text to a country: an exact
// (case-insensitive) name, then a prefix, then a substring, and finally the
// closest name by edit distance.
func bestCountryMatch(text string, countries []string) string {
	term := strings.ToLower(strings.TrimSpace(text))
	if term == "" || len(countries) == 0 {
		return ""
	}

	var prefix, substr string
	for _, c := range countries {
		lc := strings.ToLower(c)
		switch {
		case lc == term:
			return c
		case prefix == "" && strings.HasPrefix(lc, term):
			prefix = c
		case substr == "" && strings.Contains(lc, term):
			substr = c
		}
	}
	if prefix != "" {
		return prefix
	}
	if substr != "" {
		return substr
	}
	return linkview.Suggest(text, countries)
}

// renderFilter renders the country filter input row.
func (m *DashboardModel) renderFilter() string {
	content := m.filterInput.View()
	if term := strings.TrimSpace(m.filterInput.Value()); term != "" {
		matches := len(m.visibleCountries())
		if matches == 0 {
			if s := linkview.Suggest(term, m.countries); s != "" {
				content += " | no match, Enter picks " + s
			}
		} else {
			content += " | " + pluralize(matches, "match", "matches")
		}
	}

	return lipgloss.NewStyle().
		Foreground(ColorGreen).
		Padding(0, 1).
		MaxWidth(m.contentWidth()).
		Render("Country: " + content)
}
