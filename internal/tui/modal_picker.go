package tui

import (
	"strings"

	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerModal lets the user choose one option from a list. Picking the
// current option closes the modal without queuing a change.
type PickerModal struct {
	id      string
	title   string
	ctx     ModalContext
	options []string
	labels  []string
	current int
	cursor  int
	change  func(option string) linkview.Change
}

// NewVariantPicker offers the variants recorded for the selected country.
func NewVariantPicker(snap *linkview.Snapshot, ctx ModalContext) *PickerModal {
	p := &PickerModal{
		id:      "picker-variant",
		title:   "Variant · " + snap.Selection.Country,
		ctx:     ctx,
		options: append([]string(nil), snap.Variants...),
		labels:  append([]string(nil), snap.Variants...),
		change:  linkview.SetVariant,
	}
	p.setCurrent(snap.Selection.Variant)
	return p
}

// NewMetricPicker offers every metric by its axis label.
func NewMetricPicker(snap *linkview.Snapshot, ctx ModalContext) *PickerModal {
	p := &PickerModal{
		id:    "picker-metric",
		title: "Metric",
		ctx:   ctx,
		change: func(option string) linkview.Change {
			return linkview.SetMetric(model.Metric(option))
		},
	}
	for _, m := range metricOrder {
		p.options = append(p.options, string(m))
		p.labels = append(p.labels, m.Label())
	}
	p.setCurrent(string(snap.Selection.Metric))
	return p
}

func (p *PickerModal) setCurrent(option string) {
	p.current = -1
	for i, o := range p.options {
		if o == option {
			p.current = i
			p.cursor = i
			return
		}
	}
}

func (p *PickerModal) ID() string { return p.id }

func (p *PickerModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "escape", "esc", "q":
			return true, nil
		case "up", "k":
			p.move(-1)
		case "down", "j":
			p.move(1)
		case "home":
			p.cursor = 0
		case "end":
			p.cursor = max(0, len(p.options)-1)
		case "enter":
			return true, p.pick()
		}
		return false, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if p.ctx.ReverseScrollWheel {
				p.move(1)
			} else {
				p.move(-1)
			}
		case tea.MouseButtonWheelDown:
			if p.ctx.ReverseScrollWheel {
				p.move(-1)
			} else {
				p.move(1)
			}
		}
	}
	return false, nil
}

func (p *PickerModal) move(delta int) {
	p.cursor = clampIndex(p.cursor+delta, len(p.options))
}

// pick returns the change for the cursor option, or nil when it is already
// selected.
func (p *PickerModal) pick() tea.Cmd {
	if p.cursor < 0 || p.cursor >= len(p.options) || p.cursor == p.current {
		return nil
	}
	return applyChange(p.change(p.options[p.cursor]))
}

func (p *PickerModal) View(width, height int) string {
	modalWidth := min(max(30, width/2), width-4)
	listHeight := max(3, min(len(p.options), height-10))

	start := 0
	if p.cursor >= listHeight {
		start = p.cursor - listHeight + 1
	}
	end := min(len(p.options), start+listHeight)

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		prefix := "  "
		if i == p.current {
			prefix = "> "
		}
		line := padRight(prefix+p.labels[i], modalWidth-4)
		switch {
		case i == p.cursor:
			line = selectedRowStyle.Render(line)
		case i == p.current:
			line = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(line)
		}
		rows = append(rows, line)
	}

	header := lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(p.title)
	status := renderModalStatusBar("up/down: Move", "Enter: Select", "ESC: Cancel")
	body := lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n"), "", status)

	box := lipgloss.NewStyle().
		Width(modalWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 1).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
