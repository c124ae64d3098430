package tui

import (
	"fmt"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/charmbracelet/lipgloss"
)

const brandName = "variantscope"

// errorDisplayDuration is how long an error stays on the status line.
const errorDisplayDuration = 30 * time.Second

// renderBranding renders the product name with a green to blue gradient.
func renderBranding() string {
	from, _ := colorful.Hex("#49E209")
	to, _ := colorful.Hex("#00CAC7")

	runes := []rune(brandName)
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())).
			Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// selectionSummary describes the current selection for the status line.
func (m *DashboardModel) selectionSummary(narrow bool) string {
	if m.snapshot == nil {
		return ""
	}
	sel := m.snapshot.Selection
	if narrow {
		return fmt.Sprintf("%s/%s", sel.Country, sel.Variant)
	}
	return fmt.Sprintf("%s · %s · %s", sel.Country, sel.Variant, sel.Metric.Label())
}

// renderStatusLine renders the status/help line at the bottom of the screen
func (m *DashboardModel) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	var leftText, statusText, rightText string

	w := m.contentWidth()
	veryNarrow := w < 60
	narrow := w < 80
	medium := w < 120

	// Left: focused section.
	var sectionName string
	switch m.activeSection {
	case SectionDecks:
		if m.activeDeckIdx < len(m.decks) {
			sectionName = m.decks[m.activeDeckIdx].Title()
			if viewTitle := m.currentViewTitle(); viewTitle != "" {
				sectionName = viewTitle + "/" + sectionName
			}
		}
	case SectionSidebar:
		sectionName = "Countries"
	case SectionFilter:
		sectionName = "Find"
	}
	if sectionName != "" && !m.filterActive {
		if veryNarrow {
			leftText = sectionName[:min(5, len(sectionName))]
		} else {
			leftText = fmt.Sprintf("[%s]", sectionName)
		}
	}

	// Center: selection while browsing, key hints otherwise.
	switch {
	case m.filterActive:
		statusText = "Type a country • Enter: Select • ESC: Cancel"
		if narrow {
			statusText = "Enter: Select • ESC: Cancel"
		}
	case m.HasModal():
		statusText = "ESC: Close"
	case veryNarrow:
		statusText = m.selectionSummary(true)
	case narrow:
		statusText = m.selectionSummary(true) + " • ?: Help"
	case medium:
		statusText = m.selectionSummary(false) + " • v/m: Pick • ?: Help"
	default:
		statusText = m.selectionSummary(false) + " • Tab: Navigate • Enter: Select • v: Variant • m: Metric • /: Find • ?: Help • q: Quit"
	}

	// Right: errors, dataset summary, data source, branding.
	var rightParts []string
	if m.lastError != "" && time.Since(m.lastErrorAt) < errorDisplayDuration {
		errStyle := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorRed)
		msg := "error"
		if !narrow {
			msg = truncate(m.lastError, 40)
		}
		rightParts = append(rightParts, errStyle.Render(msg))
	}
	if m.inFlight || m.loading {
		rightParts = append(rightParts, "…")
	}
	if !veryNarrow && m.summary.Records > 0 {
		if narrow {
			rightParts = append(rightParts, formatCount(m.summary.Records))
		} else {
			rightParts = append(rightParts, fmt.Sprintf("%s rows · %s countries", formatCount(m.summary.Records), formatCount(m.summary.Countries)))
		}
	}
	if m.dataSource != "" && !veryNarrow {
		dotColor := ColorGreen
		if m.lastError != "" {
			dotColor = ColorOrange
		}
		dot := lipgloss.NewStyle().Background(ColorNavy).Foreground(dotColor).Render("●")
		rightParts = append(rightParts, dot+" "+m.dataSource)
	}
	if w >= 100 {
		rightParts = append(rightParts, renderBranding())
	}
	rightText = strings.Join(rightParts, "  ")

	leftWidth := lipgloss.Width(leftText) + 2
	rightWidth := lipgloss.Width(rightText) + 2

	if leftWidth+rightWidth >= w {
		if w < 20 {
			return baseStyle.Width(w).Render(leftText)
		}
		leftWidth = min(leftWidth, w/3)
		rightWidth = min(rightWidth, w/3)
	}
	centerWidth := max(0, w-leftWidth-rightWidth)

	leftStyle := baseStyle.Align(lipgloss.Left).Width(leftWidth)
	centerStyle := baseStyle.Align(lipgloss.Center).Width(centerWidth)
	rightStyle := baseStyle.Align(lipgloss.Right).Width(rightWidth).MaxWidth(rightWidth)

	leftText = truncate(leftText, leftWidth)
	statusText = truncate(statusText, max(0, centerWidth-1))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(leftText),
		centerStyle.Render(statusText),
		rightStyle.Render(rightText),
	)
}
