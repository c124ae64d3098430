package tui

import (
	"time"

	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Section represents different dashboard sections
type Section int

const (
	SectionSidebar Section = iota // country and view lists
	SectionDecks                  // a deck is focused
	SectionFilter                 // country quick filter
)

// SidebarState holds the country selector and view list.
type SidebarState struct {
	countries      []string // from the latest snapshot
	sidebarCursor  int      // unified cursor (countries then views)
	sidebarOffset  int      // first visible country row
	sidebarVisible bool     // toggled with 'a'
}

// FilterState holds the country quick filter input.
type FilterState struct {
	filterInput  textinput.Model
	filterActive bool
}

// ModalStackState holds the modal stack that replaces boolean flag explosion.
type ModalStackState struct {
	modalStack []Modal
}

// NavigationState holds deck and section navigation state.
type NavigationState struct {
	activeSection Section
	activeDeckIdx int
	decks         []Deck
	deckSelIdx    []int
	views         []ViewState
	activeViewIdx int
}

// ViewState represents one right-side view composed of independent decks.
type ViewState struct {
	ID            string
	Title         string
	Decks         []Deck
	DeckSelIdx    []int
	ActiveDeckIdx int
}

// DeckDeps provides dependencies for deck constructors, replacing *DashboardModel.
type DeckDeps struct {
	PushRecordModal func(variant string) tea.Cmd
}

// ViewSpec defines how to build a view and its decks.
type ViewSpec struct {
	ID    string
	Title string
	Build func(deps DeckDeps) []Deck
}

// ChangeState serializes selection changes: one change is applied at a
// time and later changes wait in the queue. Results carrying an older
// generation than the model's are discarded.
type ChangeState struct {
	pending    []linkview.Change
	inFlight   bool
	generation uint64
}

// DashboardModel represents the main TUI model.
// Sub-state is organized into embedded structs for readability.
type DashboardModel struct {
	SidebarState
	FilterState
	ModalStackState
	NavigationState
	ChangeState

	// Window dimensions
	width  int
	height int

	engine   *linkview.Engine
	querier  model.VariantQuerier
	snapshot *linkview.Snapshot
	summary  model.DatasetSummary
	loading  bool // initial load or reload in progress
	spinning bool // a spinner tick is scheduled

	reverseScrollWheel bool
	dataSource         string // "Socket" or "DuckDB", shown in the status line

	// Last error for status line display (auto-clears after 30s).
	lastError   string
	lastErrorAt time.Time

	// Inline handlers (NOT modals, part of the dashboard layout).
	inlineHandlers []inlineHandlerEntry

	keys KeyMap
}

// Option configures a DashboardModel.
type Option func(*DashboardModel)

// WithReverseScrollWheel flips the mouse wheel direction.
func WithReverseScrollWheel(reverse bool) Option {
	return func(m *DashboardModel) { m.reverseScrollWheel = reverse }
}

// WithDataSource sets the data source label shown in the status line.
func WithDataSource(name string) Option {
	return func(m *DashboardModel) { m.dataSource = name }
}

// NewDashboardModel creates a new dashboard model. The querier is used for
// the dataset summary; selection state flows through the engine.
func NewDashboardModel(engine *linkview.Engine, querier model.VariantQuerier, opts ...Option) *DashboardModel {
	filterInput := textinput.New()
	filterInput.Placeholder = "Type a country name..."
	filterInput.CharLimit = 80

	m := &DashboardModel{
		SidebarState: SidebarState{
			sidebarVisible: true,
		},
		FilterState: FilterState{
			filterInput: filterInput,
		},
		NavigationState: NavigationState{
			activeSection: SectionDecks,
		},
		engine:  engine,
		querier: querier,
		loading: true,
		keys:    DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.SetViews(DefaultViewSpecs())

	m.inlineHandlers = []inlineHandlerEntry{
		{isActive: func(m *DashboardModel) bool { return m.filterActive }, handler: countryFilterHandler{}},
	}

	return m
}

// SetViews configures right-side views and activates the first one.
func (m *DashboardModel) SetViews(specs []ViewSpec) {
	deps := DeckDeps{
		PushRecordModal: m.pushRecordModalCmd,
	}

	views := make([]ViewState, 0, len(specs))
	for _, spec := range specs {
		if spec.Build == nil {
			continue
		}
		decks := spec.Build(deps)
		views = append(views, ViewState{
			ID:         spec.ID,
			Title:      spec.Title,
			Decks:      append([]Deck(nil), decks...),
			DeckSelIdx: make([]int, len(decks)),
		})
	}

	if len(views) == 0 {
		m.views = nil
		m.decks = nil
		m.deckSelIdx = nil
		m.activeDeckIdx = 0
		m.activeViewIdx = 0
		return
	}

	m.views = views
	m.activeViewIdx = -1
	m.activateView(0)

	if m.snapshot != nil {
		m.applySnapshotToDecks(m.snapshot, linkview.ViewAll)
	}
}

// DefaultViewSpecs declares built-in views and their decks.
func DefaultViewSpecs() []ViewSpec {
	return []ViewSpec{
		{
			ID:    "linked",
			Title: "Linked",
			Build: func(deps DeckDeps) []Deck {
				return []Deck{
					NewBarDeck(),
					NewScatterDeck(),
					NewHeatmapDeck(),
					NewSelectionDeck(deps.PushRecordModal),
				}
			},
		},
		{
			ID:    "heatmap",
			Title: "Heat Map",
			Build: func(deps DeckDeps) []Deck {
				return []Deck{
					NewHeatmapDeck(),
					NewBarDeck(),
				}
			},
		},
	}
}

// pushRecordModalCmd returns a tea.Cmd that opens the details of one
// variant's record.
func (m *DashboardModel) pushRecordModalCmd(variant string) tea.Cmd {
	return func() tea.Msg {
		return ActionMsg{Action: ActionPushModal, Payload: NewRecordModal(m, variant)}
	}
}

func (m *DashboardModel) persistActiveViewState() {
	if len(m.views) == 0 || m.activeViewIdx < 0 || m.activeViewIdx >= len(m.views) {
		return
	}

	vw := &m.views[m.activeViewIdx]
	vw.Decks = append([]Deck(nil), m.decks...)
	vw.DeckSelIdx = append([]int(nil), m.deckSelIdx...)
	vw.ActiveDeckIdx = m.activeDeckIdx
}

func (m *DashboardModel) activateView(idx int) {
	if len(m.views) == 0 || idx < 0 || idx >= len(m.views) {
		return
	}

	if idx != m.activeViewIdx || len(m.decks) > 0 || len(m.deckSelIdx) > 0 {
		m.persistActiveViewState()
	}
	m.activeViewIdx = idx

	vw := &m.views[m.activeViewIdx]
	if len(vw.DeckSelIdx) != len(vw.Decks) {
		vw.DeckSelIdx = make([]int, len(vw.Decks))
	}

	m.decks = append([]Deck(nil), vw.Decks...)
	m.deckSelIdx = append([]int(nil), vw.DeckSelIdx...)

	if len(m.decks) == 0 {
		m.activeDeckIdx = 0
		return
	}

	if vw.ActiveDeckIdx < 0 || vw.ActiveDeckIdx >= len(m.decks) {
		vw.ActiveDeckIdx = 0
	}
	m.activeDeckIdx = vw.ActiveDeckIdx
}

func (m *DashboardModel) nextView() {
	if len(m.views) <= 1 {
		return
	}
	m.activateView((m.activeViewIdx + 1) % len(m.views))
}

func (m *DashboardModel) prevView() {
	if len(m.views) <= 1 {
		return
	}
	m.activateView((m.activeViewIdx - 1 + len(m.views)) % len(m.views))
}

func (m *DashboardModel) currentViewTitle() string {
	if len(m.views) == 0 || m.activeViewIdx < 0 || m.activeViewIdx >= len(m.views) {
		return ""
	}
	return m.views[m.activeViewIdx].Title
}

// viewContext builds a ViewContext for deck rendering.
func (m *DashboardModel) viewContext() ViewContext {
	return ViewContext{
		ContentWidth:  m.contentWidth(),
		ContentHeight: m.height,
		Snapshot:      m.snapshot,
		Loading:       m.loading || m.inFlight,
	}
}

func (m *DashboardModel) modalContext() ModalContext {
	return ModalContext{ReverseScrollWheel: m.reverseScrollWheel}
}

// Snapshot returns the snapshot currently on screen.
func (m *DashboardModel) Snapshot() *linkview.Snapshot {
	return m.snapshot
}

// DashboardPage adapts DashboardModel to the Page interface.
type DashboardPage struct {
	Model *DashboardModel
}

// NewDashboardPage wraps a DashboardModel as a Page.
func NewDashboardPage(m *DashboardModel) *DashboardPage {
	return &DashboardPage{Model: m}
}

func (p *DashboardPage) ID() string { return "dashboard" }

func (p *DashboardPage) Init() tea.Cmd {
	return p.Model.Init()
}

func (p *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	_, cmd := p.Model.Update(msg)
	return cmd, nil
}

func (p *DashboardPage) View(width, height int) string {
	p.Model.width = width
	p.Model.height = height
	return p.Model.View()
}

// Init starts the initial snapshot load.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tea.EnableMouseCellMotion() },
		m.startLoad(),
	)
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *DashboardModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *DashboardModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *DashboardModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *DashboardModel) HasModal() bool {
	return len(m.modalStack) > 0
}

func (m *DashboardModel) setError(err error) {
	if err == nil {
		return
	}
	m.lastError = err.Error()
	m.lastErrorAt = time.Now()
}
