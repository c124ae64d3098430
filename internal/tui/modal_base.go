package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renderSingleModalView renders a simple scrollable modal with the given content.
func renderSingleModalView(vp *viewport.Model, title, content string, width, height int) string {
	modalWidth := width - 8   // 4 chars margin on each side
	modalHeight := height - 6 // 3 lines margin top and bottom

	// Account for borders and headers
	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	vp.Width = contentWidth
	vp.Height = contentHeight
	vp.SetContent(lipgloss.NewStyle().Width(contentWidth - 2).Render(content))

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
		Render(title)

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, renderModalStatusBar())

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// renderModalStatusBar renders the status bar for modals
func renderModalStatusBar(items ...string) string {
	if len(items) == 0 {
		items = []string{"up/down/Wheel: Scroll", "PgUp/PgDn: Page", "ESC: Close"}
	}

	return lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(strings.Join(items, " | "))
}

// updateScrollModal handles the keys and wheel events shared by read-only
// viewport modals. It reports pop=true when one of closeKeys is pressed.
func updateScrollModal(vp *viewport.Model, ctx ModalContext, msg tea.Msg, closeKeys ...string) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k := msg.String()
		for _, c := range closeKeys {
			if k == c {
				return true, nil
			}
		}
		switch k {
		case "up", "k":
			vp.ScrollUp(1)
			return false, nil
		case "down", "j":
			vp.ScrollDown(1)
			return false, nil
		case "pgup":
			vp.HalfPageUp()
			return false, nil
		case "pgdown":
			vp.HalfPageDown()
			return false, nil
		}
		var cmd tea.Cmd
		*vp, cmd = vp.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if ctx.ReverseScrollWheel {
				vp.ScrollDown(1)
			} else {
				vp.ScrollUp(1)
			}
		case tea.MouseButtonWheelDown:
			if ctx.ReverseScrollWheel {
				vp.ScrollUp(1)
			} else {
				vp.ScrollDown(1)
			}
		}
	}
	return false, nil
}
