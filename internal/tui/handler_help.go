package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpModal displays the key bindings and deck guide.
type HelpModal struct {
	ctx      ModalContext
	viewport viewport.Model
	keys     KeyMap
}

func NewHelpModal(m *DashboardModel) *HelpModal {
	return &HelpModal{
		ctx:      m.modalContext(),
		viewport: viewport.New(80, 20),
		keys:     m.keys,
	}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	return updateScrollModal(&h.viewport, h.ctx, msg, "?", "escape", "esc", "q")
}

func (h *HelpModal) View(width, height int) string {
	return renderHelpModal(&h.viewport, h.keys, width, height)
}
