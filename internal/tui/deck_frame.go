package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// deckFrame is the chrome shared by every deck: a bordered box with a
// title row, an optional right-aligned stat, a body and a one-line footer.
type deckFrame struct {
	title  string
	stats  string
	footer string
}

// bodyHeight is the number of lines left for the body inside a deck of the
// given inner height.
func (f deckFrame) bodyHeight(height int) int {
	h := height - 1
	if f.footer != "" {
		h--
	}
	return max(1, h)
}

func (f deckFrame) render(body string, width, height int, active bool) string {
	style := sectionStyle.Width(width).Height(height).MaxHeight(height + 2)
	if active {
		style = activeSectionStyle.Width(width).Height(height).MaxHeight(height + 2)
	}

	headerText := f.title
	if f.stats != "" {
		spacerWidth := width - lipgloss.Width(f.title) - lipgloss.Width(f.stats) - 1
		if spacerWidth > 0 {
			headerText = f.title + strings.Repeat(" ", spacerWidth) + f.stats
		}
	}
	title := deckTitleStyle.Render(truncate(headerText, width))

	bh := f.bodyHeight(height)
	bodyBlock := lipgloss.NewStyle().
		Height(bh).
		MaxHeight(bh).
		MaxWidth(width).
		Render(body)

	parts := []string{title, bodyBlock}
	if f.footer != "" {
		parts = append(parts, helpStyle.Render(truncate(f.footer, width)))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// truncate shortens s to at most width cells, marking the cut with "~".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "~")
}

// padRight pads s with spaces to exactly width cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}
