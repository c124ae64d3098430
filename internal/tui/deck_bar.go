package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/variantscope/internal/linkview"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BarDeck draws the top variants of the selected country ranked by the
// selected metric. Enter on a bar selects its variant.
type BarDeck struct {
	view     *linkview.BarView
	selected string

	// Rendered bars, reused until the bar view is invalidated or resized.
	chart      string
	chartWidth int
	chartLines int
}

// NewBarDeck creates a new bar chart deck.
func NewBarDeck() *BarDeck {
	return &BarDeck{}
}

func (d *BarDeck) ID() string    { return "bar" }
func (d *BarDeck) Title() string { return "Top Variants" }

func (d *BarDeck) ApplySnapshot(snap *linkview.Snapshot, inv linkview.Invalidation) {
	d.selected = snap.Selection.Variant
	if inv.Has(linkview.ViewBar) || d.view != snap.Bar {
		d.view = snap.Bar
		d.chart = ""
	}
}

func (d *BarDeck) FocusIndex() int {
	if d.view == nil {
		return -1
	}
	return d.view.IndexOf(d.selected)
}

func (d *BarDeck) ContentLines(ctx ViewContext) int {
	if ctx.ContentWidth < 80 {
		return 8
	}
	return 12
}

func (d *BarDeck) ItemCount() int {
	if d.view == nil {
		return 0
	}
	return len(d.view.Bars)
}

func (d *BarDeck) OnSelect(_ ViewContext, selIdx int) tea.Cmd {
	if d.view == nil || selIdx < 0 || selIdx >= len(d.view.Bars) {
		return nil
	}
	v := d.view.Bars[selIdx].Variant
	if v == d.selected {
		return nil
	}
	return applyChange(linkview.SelectBar(v))
}

func (d *BarDeck) Render(ctx ViewContext, width, height int, active bool, selIdx int) string {
	frame := deckFrame{title: "Top Variants"}
	if d.view == nil {
		return frame.render(renderLoadingPlaceholder(width, frame.bodyHeight(height)), width, height, active)
	}

	frame.title = fmt.Sprintf("Top Variants by %s", d.view.YLabel)
	frame.stats = "max " + formatMetric(d.view.Metric, d.view.YMax)
	if len(d.view.Bars) == 0 {
		return frame.render(helpStyle.Render("No variants recorded"), width, height, active)
	}

	if selIdx >= 0 && selIdx < len(d.view.Bars) {
		b := d.view.Bars[selIdx]
		frame.footer = fmt.Sprintf("%s: %s  %s", b.Variant, formatMetric(d.view.Metric, b.Value), b.Tooltip)
	}

	return frame.render(d.renderContent(width, frame.bodyHeight(height), selIdx, active), width, height, active)
}

// barLayout returns the width of one bar and the gap between bars.
func (d *BarDeck) barLayout(width int) (barWidth, gap int) {
	n := len(d.view.Bars)
	gap = 1
	barWidth = (width - gap*(n-1)) / n
	if barWidth < 1 {
		barWidth = 1
	}
	if barWidth > 8 {
		barWidth = 8
	}
	return barWidth, gap
}

func (d *BarDeck) renderContent(width, lines, selIdx int, active bool) string {
	// One line under the chart carries the bar labels.
	chartLines := max(2, lines-1)
	barWidth, gap := d.barLayout(width)

	if d.chart == "" || d.chartWidth != width || d.chartLines != chartLines {
		d.chart = d.drawChart(barWidth, gap, chartLines)
		d.chartWidth = width
		d.chartLines = chartLines
	}

	labels := make([]string, 0, len(d.view.Bars))
	for i, b := range d.view.Bars {
		label := fmt.Sprintf("%d", i+1)
		if barWidth >= 4 {
			label = b.Variant
		}
		label = padRight(label, barWidth)

		style := lipgloss.NewStyle().Foreground(ColorGray)
		if b.Variant == d.selected {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Bold(true).Underline(true)
		}
		if active && i == selIdx {
			style = selectedRowStyle
		}
		labels = append(labels, style.Render(label))
	}

	return lipgloss.JoinVertical(lipgloss.Left, d.chart, strings.Join(labels, strings.Repeat(" ", gap)))
}

func (d *BarDeck) drawChart(barWidth, gap, lines int) string {
	n := len(d.view.Bars)
	chartWidth := n*barWidth + (n-1)*gap

	bc := barchart.New(chartWidth, lines,
		barchart.WithBarGap(gap),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
		barchart.WithMaxValue(d.view.Span()),
	)

	for _, b := range d.view.Bars {
		color := lipgloss.Color(b.Color)
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: b.Variant, Value: max(0, b.Value), Style: lipgloss.NewStyle().Foreground(color).Background(color)},
			},
		})
	}

	bc.Draw()
	return bc.View()
}
