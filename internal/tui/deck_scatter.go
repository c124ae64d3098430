package tui

import (
	"fmt"

	"github.com/tinytelemetry/variantscope/internal/linkview"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	scatterPointRune  = '●'
	scatterCursorRune = '◆'
)

// ScatterDeck plots the selected metric against total deaths for every
// variant of the selected country. The selected variant is drawn on top.
type ScatterDeck struct {
	view *linkview.ScatterView

	chart    string
	chartKey scatterKey
}

type scatterKey struct {
	width, height int
	cursor        int
}

// NewScatterDeck creates a new scatter deck.
func NewScatterDeck() *ScatterDeck {
	return &ScatterDeck{}
}

func (d *ScatterDeck) ID() string    { return "scatter" }
func (d *ScatterDeck) Title() string { return "Scatter" }

func (d *ScatterDeck) ApplySnapshot(snap *linkview.Snapshot, inv linkview.Invalidation) {
	if inv.Has(linkview.ViewScatter) || d.view != snap.Scatter {
		d.view = snap.Scatter
		d.chart = ""
	}
}

func (d *ScatterDeck) FocusIndex() int {
	if d.view == nil {
		return -1
	}
	for i, p := range d.view.Points {
		if p.Highlighted {
			return i
		}
	}
	return -1
}

func (d *ScatterDeck) ContentLines(ctx ViewContext) int {
	if ctx.ContentWidth < 80 {
		return 8
	}
	return 12
}

func (d *ScatterDeck) ItemCount() int {
	if d.view == nil {
		return 0
	}
	return len(d.view.Points)
}

func (d *ScatterDeck) OnSelect(_ ViewContext, selIdx int) tea.Cmd {
	if d.view == nil || selIdx < 0 || selIdx >= len(d.view.Points) {
		return nil
	}
	p := d.view.Points[selIdx]
	if p.Highlighted {
		return nil
	}
	return applyChange(linkview.SetVariant(p.Variant))
}

func (d *ScatterDeck) Render(_ ViewContext, width, height int, active bool, selIdx int) string {
	frame := deckFrame{title: "Scatter"}
	if d.view == nil {
		return frame.render(renderLoadingPlaceholder(width, frame.bodyHeight(height)), width, height, active)
	}

	frame.title = fmt.Sprintf("%s vs %s", d.view.XLabel, d.view.YLabel)
	if len(d.view.Points) == 0 {
		return frame.render(helpStyle.Render("No variants recorded"), width, height, active)
	}

	cursor := -1
	if active {
		cursor = selIdx
	}
	if selIdx >= 0 && selIdx < len(d.view.Points) {
		p := d.view.Points[selIdx]
		frame.footer = fmt.Sprintf("%s  x=%.4g  deaths=%.2f", p.Tooltip, p.X, p.Y)
	}

	lines := frame.bodyHeight(height)
	key := scatterKey{width: width, height: lines, cursor: cursor}
	if d.chart == "" || d.chartKey != key {
		d.chart = d.drawChart(width, lines, cursor)
		d.chartKey = key
	}
	return frame.render(d.chart, width, height, active)
}

func (d *ScatterDeck) drawChart(width, height, cursor int) string {
	lc := linechart.New(max(10, width), max(4, height),
		0, d.view.XSpan(), 0, d.view.YSpan(),
		linechart.WithXYSteps(2, 2),
	)
	lc.DrawXYAxisAndLabel()

	// Points are ordered with the highlighted variant last so it wins
	// any cell it shares with another point.
	for _, p := range d.view.Points {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
		lc.DrawRuneWithStyle(canvas.Float64Point{X: p.X, Y: p.Y}, scatterPointRune, style)
	}
	if cursor >= 0 && cursor < len(d.view.Points) {
		p := d.view.Points[cursor]
		lc.DrawRuneWithStyle(canvas.Float64Point{X: p.X, Y: p.Y}, scatterCursorRune, lipgloss.NewStyle().Foreground(ColorYellow))
	}

	return lc.View()
}
