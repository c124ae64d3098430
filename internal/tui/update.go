package tui

import (
	"log"

	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// snapshotLoadedMsg carries a freshly built initial snapshot.
type snapshotLoadedMsg struct {
	gen        uint64
	snap       *linkview.Snapshot
	summary    model.DatasetSummary
	hasSummary bool
	err        error
}

// changeAppliedMsg carries the result of applying one queued change.
type changeAppliedMsg struct {
	gen    uint64
	change linkview.Change
	snap   *linkview.Snapshot
	inv    linkview.Invalidation
	err    error
}

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampSidebarCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case ActionMsg:
		switch msg.Action {
		case ActionApplyChange:
			if c, ok := msg.Payload.(linkview.Change); ok {
				return m, m.requestChange(c)
			}
		case ActionPushModal:
			if modal, ok := msg.Payload.(Modal); ok {
				m.PushModal(modal)
			}
		}
		return m, nil

	case snapshotLoadedMsg:
		if msg.gen != m.generation {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("tui: initial load: %v", msg.err)
			m.setError(msg.err)
			return m, nil
		}
		if msg.hasSummary {
			m.summary = msg.summary
		}
		m.setSnapshot(msg.snap, linkview.ViewAll)
		return m, m.dispatchNext()

	case changeAppliedMsg:
		if msg.gen != m.generation {
			// A reload superseded this change; its queue is already gone.
			return m, nil
		}
		m.inFlight = false
		if msg.err != nil {
			log.Printf("tui: apply %s: %v", msg.change.Kind, msg.err)
			m.setError(msg.err)
		} else if msg.snap != m.snapshot {
			if msg.change.Kind == linkview.ChangeCountry {
				m.dropVariantChanges()
			}
			m.setSnapshot(msg.snap, msg.inv)
		}
		return m, m.dispatchNext()

	case SpinnerTickMsg:
		return m.handleSpinnerTick()
	}

	return m, nil
}

// startLoad builds the initial snapshot from scratch. Any change still in
// flight belongs to the previous generation and is dropped when it lands.
func (m *DashboardModel) startLoad() tea.Cmd {
	m.generation++
	m.pending = nil
	m.inFlight = false
	m.loading = true

	gen := m.generation
	engine := m.engine
	querier := m.querier
	load := func() tea.Msg {
		if engine == nil {
			return snapshotLoadedMsg{gen: gen, err: linkview.ErrEmptyDataset}
		}
		msg := snapshotLoadedMsg{gen: gen}
		msg.snap, msg.err = engine.Initial()
		if msg.err != nil {
			return msg
		}
		if querier != nil {
			if summary, err := querier.Summary(); err == nil {
				msg.summary = summary
				msg.hasSummary = true
			} else {
				log.Printf("tui: summary: %v", err)
			}
		}
		return msg
	}
	return tea.Batch(load, m.startSpinnerIfNeeded())
}

// requestChange queues a selection change and starts it when nothing else
// is being applied. Consecutive changes of the same kind collapse so only
// the latest one is applied.
func (m *DashboardModel) requestChange(c linkview.Change) tea.Cmd {
	if n := len(m.pending); n > 0 && m.pending[n-1].Kind == c.Kind {
		m.pending[n-1] = c
	} else {
		m.pending = append(m.pending, c)
	}
	if m.inFlight || m.loading {
		return nil
	}
	return m.dispatchNext()
}

// dropVariantChanges discards queued variant and bar picks. They were made
// against the previous country's variants.
func (m *DashboardModel) dropVariantChanges() {
	kept := m.pending[:0]
	for _, c := range m.pending {
		if c.Kind == linkview.ChangeVariant || c.Kind == linkview.ChangeBar {
			log.Printf("tui: dropping queued %s change for %q after country switch", c.Kind, c.Variant)
			continue
		}
		kept = append(kept, c)
	}
	m.pending = kept
}

// dispatchNext applies the oldest queued change against the current
// snapshot.
func (m *DashboardModel) dispatchNext() tea.Cmd {
	if m.inFlight || len(m.pending) == 0 {
		return nil
	}
	if m.snapshot == nil {
		m.pending = nil
		return nil
	}

	c := m.pending[0]
	m.pending = m.pending[1:]
	m.inFlight = true

	gen := m.generation
	engine := m.engine
	prev := m.snapshot
	apply := func() tea.Msg {
		snap, inv, err := engine.Apply(prev, c)
		return changeAppliedMsg{gen: gen, change: c, snap: snap, inv: inv, err: err}
	}
	return tea.Batch(apply, m.startSpinnerIfNeeded())
}

// setSnapshot installs a new snapshot and pushes it to every deck.
func (m *DashboardModel) setSnapshot(snap *linkview.Snapshot, inv linkview.Invalidation) {
	if snap == nil {
		return
	}
	m.snapshot = snap
	if m.lastError != "" && inv != 0 {
		m.lastError = ""
	}

	if !equalStrings(m.countries, snap.Countries) {
		m.countries = snap.Countries
	}
	m.clampSidebarCursor()
	m.applySnapshotToDecks(snap, inv)

	// Visibility-aware refresh: only the modal on screen follows along.
	if modal := m.TopModal(); modal != nil {
		if r, ok := modal.(Refreshable); ok {
			r.Refresh()
		}
	}
}

// applySnapshotToDecks feeds the snapshot to every linked deck in every
// view and moves unfocused deck cursors to the current selection.
func (m *DashboardModel) applySnapshotToDecks(snap *linkview.Snapshot, inv linkview.Invalidation) {
	m.persistActiveViewState()
	for vi := range m.views {
		vw := &m.views[vi]
		for di, d := range vw.Decks {
			ld, ok := d.(LinkedDeck)
			if !ok {
				continue
			}
			ld.ApplySnapshot(snap, inv)

			focused := vi == m.activeViewIdx && di == vw.ActiveDeckIdx && m.activeSection == SectionDecks
			if idx := ld.FocusIndex(); idx >= 0 && !focused {
				vw.DeckSelIdx[di] = idx
			}
			vw.DeckSelIdx[di] = clampIndex(vw.DeckSelIdx[di], ld.ItemCount())
		}
	}
	if m.activeViewIdx >= 0 && m.activeViewIdx < len(m.views) {
		m.deckSelIdx = append([]int(nil), m.views[m.activeViewIdx].DeckSelIdx...)
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// handleMouseEvent processes mouse interactions
func (m *DashboardModel) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Modal on stack gets the mouse event first.
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleMouse(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		return m.handleMouseClick(msg.X, msg.Y)

	case tea.MouseButtonWheelUp:
		if m.reverseScrollWheel {
			m.moveSelection(1)
		} else {
			m.moveSelection(-1)
		}
		return m, nil

	case tea.MouseButtonWheelDown:
		if m.reverseScrollWheel {
			m.moveSelection(-1)
		} else {
			m.moveSelection(1)
		}
		return m, nil
	}

	return m, nil
}

// handleMouseClick focuses the clicked section. Clicking a sidebar row
// activates it; clicking a deck focuses it.
func (m *DashboardModel) handleMouseClick(x, y int) (tea.Model, tea.Cmd) {
	if m.width <= 0 || m.height <= 0 {
		return m, nil
	}

	if m.sidebarVisible {
		if x < sidebarWidth {
			m.activeSection = SectionSidebar
			if idx, ok := m.sidebarCursorAtMouseRow(y); ok {
				m.sidebarCursor = idx
				return m, m.activateSidebarCursor()
			}
			return m, nil
		}
		x -= sidebarWidth
	}

	decksHeight, _ := m.layoutHeights()
	if y < decksHeight {
		if idx, ok := m.deckAt(m.contentWidth(), decksHeight, x, y); ok {
			m.activeSection = SectionDecks
			m.activeDeckIdx = idx
		}
	}
	return m, nil
}
