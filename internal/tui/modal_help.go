package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// renderHelpModal renders the help modal using the provided viewport.
func renderHelpModal(vp *viewport.Model, keys KeyMap, width, height int) string {
	modalWidth := width - 8
	modalHeight := height - 4

	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	vp.Width = contentWidth
	vp.Height = contentHeight
	vp.SetContent(lipgloss.NewStyle().Width(contentWidth - 2).Render(helpContent(keys)))

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(vp.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Help")

	statusBar := renderModalStatusBar("up/down/Wheel: Scroll", "PgUp/PgDn: Page", "?: Toggle Help", "ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// helpContent lists the key bindings from the key map followed by a short
// guide to the decks.
func helpContent(keys KeyMap) string {
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"NAVIGATION", []key.Binding{keys.NextSection, keys.PrevSection, keys.Up, keys.Down, keys.Home, keys.End, keys.PageUp, keys.PageDown, keys.Enter, keys.NextView, keys.PrevView}},
		{"SELECTION", []key.Binding{keys.Filter, keys.VariantPicker, keys.MetricPicker, keys.NextMetric, keys.Inspect, keys.Reload}},
		{"GENERAL", []key.Binding{keys.ToggleSidebar, keys.Help, keys.Escape, keys.Quit, keys.ForceQuit}},
	}

	var b strings.Builder
	b.WriteString("Variant Dashboard Help\n\n")
	for _, g := range groups {
		b.WriteString(g.title + ":\n")
		for _, kb := range g.bindings {
			h := kb.Help()
			b.WriteString(fmt.Sprintf("  %-14s - %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(`DECKS:
  Top Variants   - Variants of the country ranked by the metric.
                   Enter selects the bar's variant.
  Scatter        - Metric (x) against total deaths (y). The selected
                   variant is blue; Enter selects the point's variant.
  Heat Map       - Every metric per variant, one colour ramp per row.
                   Enter selects the column's variant.
  Variant        - The variant selector. Enter on the current variant
                   opens its record.

SIDEBAR:
  Countries      - Enter or click selects the country. The variant
                   resets to the first one recorded there.
  Views          - Linked (all decks) and Heat Map.

Selecting anything updates every deck that depends on it.
`)
	return b.String()
}
