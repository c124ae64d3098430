package tui

import (
	"github.com/tinytelemetry/variantscope/internal/linkview"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewContext provides read-only context to decks for rendering,
// replacing direct access to *DashboardModel.
type ViewContext struct {
	ContentWidth  int
	ContentHeight int
	Snapshot      *linkview.Snapshot // nil until the first load completes
	Loading       bool               // a change is being applied
}

// ModalContext provides read-only context to modals for rendering.
type ModalContext struct {
	ReverseScrollWheel bool
}

// Action identifies what a deck or modal wants the dashboard to do.
type Action int

const (
	ActionApplyChange Action = iota // Payload: linkview.Change
	ActionPushModal                 // Payload: Modal
)

// ActionMsg is returned by deck OnSelect and modal Update to communicate
// with the dashboard without mutating it directly.
type ActionMsg struct {
	Action  Action
	Payload any
}

// actionMsg wraps ActionMsg as a tea.Msg.
func actionMsg(a ActionMsg) tea.Cmd {
	return func() tea.Msg { return a }
}

// applyChange asks the dashboard to queue a selection change.
func applyChange(c linkview.Change) tea.Cmd {
	return actionMsg(ActionMsg{Action: ActionApplyChange, Payload: c})
}
