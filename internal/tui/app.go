package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is one full-screen screen of the dashboard program.
type Page interface {
	ID() string
	Init() tea.Cmd
	// Update returns a non-nil PageNav to switch to another page.
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav asks the App to show the page with the given ID.
type PageNav struct {
	PageID string
}

// App is the top-level Bubble Tea model. It owns the terminal size and
// routes messages to the active page.
type App struct {
	order      []string
	pages      map[string]Page
	activePage string
	width      int
	height     int
}

// NewApp creates an App over pages. The first page is shown at start.
func NewApp(pages ...Page) *App {
	a := &App{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		if _, dup := a.pages[p.ID()]; dup {
			continue
		}
		a.pages[p.ID()] = p
		a.order = append(a.order, p.ID())
	}
	if len(a.order) > 0 {
		a.activePage = a.order[0]
	}
	return a
}

// ActivePage returns the ID of the page on screen.
func (a *App) ActivePage() string { return a.activePage }

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Every page tracks the size, so a page switch never renders at 0x0.
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
		cmds := make([]tea.Cmd, 0, len(a.order))
		for _, id := range a.order {
			cmd, _ := a.pages[id].Update(wsm)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)
	if nav == nil || nav.PageID == a.activePage {
		return a, cmd
	}
	next, exists := a.pages[nav.PageID]
	if !exists {
		return a, cmd
	}
	a.activePage = nav.PageID
	return a, tea.Batch(cmd, next.Init())
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
