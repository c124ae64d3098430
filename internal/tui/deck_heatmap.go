package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/variantscope/internal/linkview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	heatmapLabelWidth = 11
	heatmapMaxCell    = 6
)

// HeatmapDeck shows every metric across the variants of the selected
// country, one colour ramp per metric row.
type HeatmapDeck struct {
	view *linkview.HeatmapView

	grid    string
	gridKey heatmapKey
}

type heatmapKey struct {
	width  int
	cursor int
	active bool
}

// NewHeatmapDeck creates a new heat map deck.
func NewHeatmapDeck() *HeatmapDeck {
	return &HeatmapDeck{}
}

func (d *HeatmapDeck) ID() string    { return "heatmap" }
func (d *HeatmapDeck) Title() string { return "Heat Map" }

func (d *HeatmapDeck) ApplySnapshot(snap *linkview.Snapshot, inv linkview.Invalidation) {
	if inv.Has(linkview.ViewHeatmap) || d.view != snap.Heatmap {
		d.view = snap.Heatmap
		d.grid = ""
	}
}

func (d *HeatmapDeck) FocusIndex() int {
	if d.view == nil {
		return -1
	}
	return d.view.Column(d.view.SelectedVariant)
}

func (d *HeatmapDeck) ContentLines(_ ViewContext) int {
	return 8
}

func (d *HeatmapDeck) ItemCount() int {
	if d.view == nil {
		return 0
	}
	return len(d.view.Variants)
}

func (d *HeatmapDeck) OnSelect(_ ViewContext, selIdx int) tea.Cmd {
	if d.view == nil || selIdx < 0 || selIdx >= len(d.view.Variants) {
		return nil
	}
	v := d.view.Variants[selIdx]
	if v == d.view.SelectedVariant {
		return nil
	}
	return applyChange(linkview.SetVariant(v))
}

func (d *HeatmapDeck) Render(_ ViewContext, width, height int, active bool, selIdx int) string {
	frame := deckFrame{title: "Heat Map"}
	if d.view == nil {
		return frame.render(renderLoadingPlaceholder(width, frame.bodyHeight(height)), width, height, active)
	}
	if len(d.view.Variants) == 0 {
		return frame.render(helpStyle.Render("No variants recorded"), width, height, active)
	}

	frame.stats = pluralize(len(d.view.Variants), "variant", "variants")
	if selIdx >= 0 && selIdx < len(d.view.Variants) {
		row := d.view.RowOf(d.view.SelectedMetric)
		if row >= 0 {
			cell := d.view.Rows[row][selIdx]
			frame.footer = fmt.Sprintf("%s  %s  %s", cell.Variant, cell.Metric.ShortLabel(), cell.Tooltip)
		} else {
			frame.footer = d.view.Variants[selIdx]
		}
	}

	key := heatmapKey{width: width, cursor: selIdx, active: active}
	if d.grid == "" || d.gridKey != key {
		d.grid = d.renderGrid(width, selIdx, active)
		d.gridKey = key
	}
	return frame.render(d.grid, width, height, active)
}

// columnWindow returns the cell width and the visible column range so the
// cursor column is always on screen.
func (d *HeatmapDeck) columnWindow(width, cursor int) (cellWidth, start, end int) {
	n := len(d.view.Variants)
	avail := max(1, width-heatmapLabelWidth)
	cellWidth = min(heatmapMaxCell, max(1, avail/n))
	visible := max(1, avail/cellWidth)
	if visible >= n {
		return cellWidth, 0, n
	}
	start = max(0, cursor-visible/2)
	if start+visible > n {
		start = n - visible
	}
	return cellWidth, start, start + visible
}

func (d *HeatmapDeck) renderGrid(width, cursor int, active bool) string {
	cellWidth, start, end := d.columnWindow(width, cursor)
	selectedCol := d.view.Column(d.view.SelectedVariant)

	lines := make([]string, 0, len(d.view.Rows)+1)
	for r, row := range d.view.Rows {
		metric := d.view.Metrics[r]
		label := padRight("  "+metric.ShortLabel(), heatmapLabelWidth)
		labelStyle := lipgloss.NewStyle().Foreground(ColorGray)
		if metric == d.view.SelectedMetric {
			label = padRight("▶ "+metric.ShortLabel(), heatmapLabelWidth)
			labelStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
		}

		var b strings.Builder
		b.WriteString(labelStyle.Render(label))
		for c := start; c < end; c++ {
			cell := row[c]
			mark := " "
			switch {
			case active && c == cursor:
				mark = "◆"
			case c == selectedCol:
				mark = "•"
			}
			text := padRight(strings.Repeat(" ", (cellWidth-1)/2)+mark, cellWidth)
			b.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(cell.Color)).
				Foreground(lipgloss.Color(linkview.TextColorOn(cell.Color))).
				Render(text))
		}
		lines = append(lines, b.String())
	}

	// Marker row pointing at the selected variant's column.
	var marker strings.Builder
	marker.WriteString(strings.Repeat(" ", heatmapLabelWidth))
	for c := start; c < end; c++ {
		if c == selectedCol {
			marker.WriteString(padRight(strings.Repeat(" ", (cellWidth-1)/2)+"▲", cellWidth))
			continue
		}
		marker.WriteString(strings.Repeat(" ", cellWidth))
	}
	scroll := ""
	if start > 0 || end < len(d.view.Variants) {
		scroll = fmt.Sprintf(" %d-%d/%d", start+1, end, len(d.view.Variants))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(ColorBlue).Render(marker.String())+helpStyle.Render(scroll))

	return strings.Join(lines, "\n")
}
