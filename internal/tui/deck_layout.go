package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// calculateRequiredDecksHeight calculates how much vertical space the decks need
func (m *DashboardModel) calculateRequiredDecksHeight() int {
	if len(m.decks) == 0 {
		return 3
	}
	return m.deckAreaHeight()
}

func (m *DashboardModel) deckColumnCount() int {
	if len(m.decks) <= 1 {
		return 1
	}
	return 2
}

func (m *DashboardModel) deckHeight(idx int) int {
	h := m.decks[idx].ContentLines(m.viewContext()) + 3
	if h < 4 {
		return 4
	}
	return h
}

func (m *DashboardModel) deckRowHeights() []int {
	if len(m.decks) == 0 {
		return nil
	}

	cols := m.deckColumnCount()
	rows := (len(m.decks) + cols - 1) / cols
	heights := make([]int, rows)

	for row := 0; row < rows; row++ {
		rowHeight := 4
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(m.decks) {
				break
			}
			rowHeight = max(rowHeight, m.deckHeight(idx))
		}
		heights[row] = rowHeight
	}

	return heights
}

func (m *DashboardModel) deckAreaHeight() int {
	total := 0
	for _, h := range m.deckRowHeights() {
		total += h
	}
	return total
}

// deckRowHeightsFor splits height across deck rows. Rows share the space
// in proportion to the lines their decks ask for.
func (m *DashboardModel) deckRowHeightsFor(height int) []int {
	required := m.deckRowHeights()
	if len(required) == 0 {
		return nil
	}

	totalReq := 0
	for _, h := range required {
		totalReq += h
	}
	if totalReq <= 0 {
		return required
	}

	rows := len(required)
	scaled := make([]int, rows)
	used := 0
	for i, h := range required {
		scaled[i] = max(3, height*h/totalReq)
		used += scaled[i]
	}
	// Give the last row any remaining lines.
	scaled[rows-1] = max(3, scaled[rows-1]+height-used)

	return scaled
}

func (m *DashboardModel) deckAt(contentWidth int, decksHeight int, x int, y int) (int, bool) {
	if len(m.decks) == 0 || x < 0 || y < 0 {
		return 0, false
	}

	cols := m.deckColumnCount()
	deckWidth := contentWidth
	colGap := 0
	if cols > 1 {
		colGap = 1
		deckWidth = max(1, (contentWidth-colGap)/cols)
	}

	rowY := 0
	for row, rowHeight := range m.deckRowHeightsFor(decksHeight) {
		if y < rowY+rowHeight {
			col := 0
			if cols > 1 {
				col = min(x/(deckWidth+colGap), cols-1)
			}
			idx := row*cols + col
			if idx >= len(m.decks) {
				return 0, false
			}
			return idx, true
		}
		rowY += rowHeight
	}

	return 0, false
}

// renderDecksGrid renders a two-column deck grid (single-column when only one deck).
func (m *DashboardModel) renderDecksGrid(width int, height int) string {
	if width < 20 {
		return "Terminal too narrow"
	}

	if len(m.decks) == 0 {
		return "No decks registered"
	}

	cols := m.deckColumnCount()
	rowHeights := m.deckRowHeightsFor(height)

	// Each deck adds 2 chars for borders (left+right) on top of its Width.
	borderWidth := 2
	deckWidth := width - borderWidth
	colGap := 0
	if cols > 1 {
		colGap = 1
		deckWidth = (width - colGap - cols*borderWidth) / cols
		if deckWidth < 25 {
			deckWidth = 25
		}
	}

	blankDeck := func(h int) string {
		return lipgloss.NewStyle().Width(deckWidth).Height(h).Render("")
	}

	ctx := m.viewContext()
	renderedRows := make([]string, 0, len(rowHeights))
	for row, rowHeight := range rowHeights {
		// Render height excludes the top and bottom border.
		innerHeight := max(1, rowHeight-2)
		rowDecks := make([]string, 0, cols)
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(m.decks) {
				if cols > 1 {
					rowDecks = append(rowDecks, blankDeck(innerHeight))
				}
				continue
			}
			active := m.activeSection == SectionDecks && m.activeDeckIdx == idx
			rowDecks = append(rowDecks, m.decks[idx].Render(ctx, deckWidth, innerHeight, active, m.deckSelIdx[idx]))
		}

		rowView := rowDecks[0]
		if len(rowDecks) > 1 {
			withGaps := make([]string, 0, len(rowDecks)*2-1)
			for i, d := range rowDecks {
				if i > 0 {
					withGaps = append(withGaps, " ")
				}
				withGaps = append(withGaps, d)
			}
			rowView = lipgloss.JoinHorizontal(lipgloss.Top, withGaps...)
		}
		renderedRows = append(renderedRows, rowView)
	}

	result := lipgloss.JoinVertical(lipgloss.Left, renderedRows...)

	return lipgloss.NewStyle().
		Height(height).
		MaxHeight(height).
		Width(width).
		Render(result)
}
