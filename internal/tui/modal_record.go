package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RecordModal shows every field of one variant's record in the selected
// country.
type RecordModal struct {
	dashboard *DashboardModel
	ctx       ModalContext
	viewport  viewport.Model
	variant   string
	content   string
}

// NewRecordModal creates a details modal for variant.
func NewRecordModal(m *DashboardModel, variant string) *RecordModal {
	r := &RecordModal{
		dashboard: m,
		ctx:       m.modalContext(),
		viewport:  viewport.New(80, 20),
		variant:   variant,
	}
	r.Refresh()
	return r
}

func (r *RecordModal) ID() string { return "record" }

// Refresh rebuilds the content from the dashboard's current snapshot. When
// the country changed and no longer has this variant, the modal follows the
// new selection.
func (r *RecordModal) Refresh() {
	snap := r.dashboard.snapshot
	if snap == nil {
		r.content = "No data loaded."
		return
	}
	for _, rec := range snap.Records {
		if rec.Variant == r.variant {
			r.content = formatRecordDetails(rec, snap.Selection.Metric)
			return
		}
	}
	if rec, ok := snap.SelectedRecord(); ok {
		r.variant = rec.Variant
		r.content = formatRecordDetails(rec, snap.Selection.Metric)
		return
	}
	r.content = fmt.Sprintf("%s is not recorded for %s.", r.variant, snap.Selection.Country)
}

func (r *RecordModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	return updateScrollModal(&r.viewport, r.ctx, msg, "escape", "esc", "i", "q")
}

func (r *RecordModal) View(width, height int) string {
	return renderSingleModalView(&r.viewport, "Record Details", r.content, width, height)
}

// formatRecordDetails lays out a record as aligned label/value lines. The
// metric currently plotted is marked.
func formatRecordDetails(rec model.VariantRecord, current model.Metric) string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorWhite)
	markStyle := lipgloss.NewStyle().Foreground(ColorYellow)

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	line("Country:", rec.Country)
	line("Variant:", rec.Variant)
	b.WriteString("\n")

	for _, m := range metricOrder {
		value := fmt.Sprintf("%g", m.Value(rec))
		if m == current {
			value += markStyle.Render("  (plotted)")
		}
		line(m.Label()+":", value)
	}
	b.WriteString("\n")

	line("First sequenced:", formatDate(rec.FirstSeq))
	line("Last sequenced:", formatDate(rec.LastSeq))

	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("January 02, 2006")
}
