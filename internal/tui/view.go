package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// contentWidth returns the width available for main content, accounting for sidebar.
func (m *DashboardModel) contentWidth() int {
	if m.sidebarVisible {
		w := m.width - sidebarWidth
		if w < 40 {
			w = 40
		}
		return w
	}
	return m.width
}

// layoutHeights computes the vertical layout so rendering and mouse hit
// testing share a single source of truth.
func (m *DashboardModel) layoutHeights() (decksHeight, filterHeight int) {
	statusLineHeight := 1
	usableHeight := m.height - statusLineHeight

	if m.filterActive {
		filterHeight = 1
	}
	return max(0, usableHeight-filterHeight), filterHeight
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	// If a modal is on the stack, render it full-screen.
	if modal := m.TopModal(); modal != nil {
		return modal.View(m.width, m.height)
	}

	return m.renderDashboard()
}

// renderDashboard renders the main dashboard layout
func (m *DashboardModel) renderDashboard() string {
	if m.height < 20 || m.width < 60 {
		return "Terminal too small. Resize to at least 60x20."
	}

	contentWidth := m.contentWidth()
	decksHeight, _ := m.layoutHeights()

	var sections []string
	if m.snapshot == nil {
		var body string
		if m.loading {
			body = renderLoadingPlaceholder(contentWidth, decksHeight)
		} else {
			body = renderEmptyPlaceholder("No data loaded", m.lastError, contentWidth, decksHeight)
		}
		sections = append(sections, body)
	} else {
		sections = append(sections, m.renderDecksGrid(contentWidth, decksHeight))
	}

	if m.filterActive {
		sections = append(sections, m.renderFilter())
	}
	sections = append(sections, m.renderStatusLine())

	contentArea := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.sidebarVisible {
		sidebar := m.renderSidebar(m.height - 2)
		contentArea = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, contentArea)
	}

	return lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(m.height).
		Render(contentArea)
}

// renderEmptyPlaceholder renders a centered message when there is nothing
// to draw.
func renderEmptyPlaceholder(title, detail string, width, height int) string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("7")).
		Render(title)

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(detail)

	block := lipgloss.JoinVertical(lipgloss.Center, heading, subtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
