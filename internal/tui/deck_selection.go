package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectionDeck is the variant selector: the variants recorded for the
// selected country, with the current one marked. Enter on another variant
// selects it; Enter on the current one opens its record.
type SelectionDeck struct {
	pushRecordModal func(variant string) tea.Cmd

	country  string
	metric   model.Metric
	variants []string
	selected string
	record   model.VariantRecord
	hasRec   bool
}

// NewSelectionDeck creates a new variant selector deck.
func NewSelectionDeck(pushRecordModal func(variant string) tea.Cmd) *SelectionDeck {
	return &SelectionDeck{pushRecordModal: pushRecordModal}
}

func (d *SelectionDeck) ID() string    { return "selection" }
func (d *SelectionDeck) Title() string { return "Variant" }

func (d *SelectionDeck) ApplySnapshot(snap *linkview.Snapshot, _ linkview.Invalidation) {
	d.country = snap.Selection.Country
	d.metric = snap.Selection.Metric
	d.variants = snap.Variants
	d.selected = snap.Selection.Variant
	d.record, d.hasRec = snap.SelectedRecord()
}

func (d *SelectionDeck) FocusIndex() int {
	for i, v := range d.variants {
		if v == d.selected {
			return i
		}
	}
	return -1
}

func (d *SelectionDeck) ContentLines(ctx ViewContext) int {
	if ctx.ContentWidth < 80 {
		return 8
	}
	return 12
}

func (d *SelectionDeck) ItemCount() int {
	return len(d.variants)
}

func (d *SelectionDeck) OnSelect(_ ViewContext, selIdx int) tea.Cmd {
	if selIdx < 0 || selIdx >= len(d.variants) {
		return nil
	}
	v := d.variants[selIdx]
	if v == d.selected {
		if d.pushRecordModal == nil {
			return nil
		}
		return d.pushRecordModal(v)
	}
	return applyChange(linkview.SetVariant(v))
}

func (d *SelectionDeck) Render(_ ViewContext, width, height int, active bool, selIdx int) string {
	frame := deckFrame{title: "Variant"}
	if d.country == "" {
		return frame.render(renderLoadingPlaceholder(width, frame.bodyHeight(height)), width, height, active)
	}

	frame.title = "Variant · " + d.country
	frame.stats = fmt.Sprintf("%d/%d", min(selIdx+1, len(d.variants)), len(d.variants))
	if d.hasRec {
		frame.footer = fmt.Sprintf("%s %s", d.metric.Label(), formatMetric(d.metric, d.metric.Value(d.record)))
	}

	return frame.render(d.renderContent(width, frame.bodyHeight(height), selIdx, active), width, height, active)
}

func (d *SelectionDeck) renderContent(width, lines, selIdx int, active bool) string {
	if len(d.variants) == 0 {
		return helpStyle.Render("No variants recorded")
	}

	// Scroll so the cursor stays visible.
	start := 0
	if selIdx >= lines {
		start = selIdx - lines + 1
	}
	end := min(len(d.variants), start+lines)

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		v := d.variants[i]
		prefix := "  "
		if v == d.selected {
			prefix = "> "
		}
		line := padRight(prefix+v, width)

		switch {
		case active && i == selIdx:
			line = selectedRowStyle.Render(line)
		case v == d.selected:
			line = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(line)
		default:
			line = lipgloss.NewStyle().Foreground(ColorWhite).Render(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
