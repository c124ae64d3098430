package tui

import (
	"github.com/tinytelemetry/variantscope/internal/linkview"

	tea "github.com/charmbracelet/bubbletea"
)

// Deck is a pluggable dashboard deck.
type Deck interface {
	ID() string
	Title() string
	Render(ctx ViewContext, width, height int, active bool, selIdx int) string
	ContentLines(ctx ViewContext) int
	ItemCount() int
	OnSelect(ctx ViewContext, selIdx int) tea.Cmd // returns nil or an ActionMsg cmd
}

// LinkedDeck is a deck fed from snapshots. ApplySnapshot receives every new
// snapshot together with the views the change invalidated; decks drop cached
// output only when a view they draw from was invalidated.
type LinkedDeck interface {
	Deck
	ApplySnapshot(snap *linkview.Snapshot, inv linkview.Invalidation)
	// FocusIndex is the item that represents the current selection, or -1.
	FocusIndex() int
}
