package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/state"
)

// renderMain renders header, command bar and the active view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area for the current view.
func (m Model) renderContent() string {
	contentHeight := m.height - chromeHeight
	styles := m.theme.Styles()

	if m.st.Loading && len(m.st.Tools) == 0 {
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Loading tools..."))
	}
	if m.st.Error != nil && len(m.st.Tools) == 0 {
		msg := styles.DangerText.Bold(true).Render(m.st.Error.Message) + "\n" +
			styles.MutedText.Render(m.st.Error.Details) + "\n\n" +
			styles.FaintText.Render("press r to retry")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	switch m.st.CurrentView {
	case state.ViewList:
		return m.renderList(contentHeight)
	case state.ViewCompare:
		return m.renderCompare(contentHeight)
	default:
		return m.renderGrid(contentHeight)
	}
}

// gridColumns is the number of cards per grid row.
func (m Model) gridColumns() int {
	return max(m.width/CardMinWidth, 1)
}

// pageSize is the number of rows that fit on screen in the current view.
func (m Model) pageSize() int {
	height := m.height - chromeHeight
	if m.st.CurrentView == state.ViewGrid {
		return max((height-2)/CardHeight, 1)
	}
	return max(height-2, 1)
}

// renderGrid renders the filtered tools as a grid of cards, scrolled so the
// cursor row stays visible.
func (m Model) renderGrid(height int) string {
	tools := m.st.FilteredTools
	title := m.catalogTitle()
	if len(tools) == 0 {
		empty := m.theme.Styles().MutedText.Render("No tools match the current filters")
		return m.renderTitledBox(title, "\n"+empty, m.width, height, true)
	}

	cols := m.gridColumns()
	cardWidth := (m.width - 2) / cols
	rows := m.pageSize()
	first := max(m.cursor/cols-rows+1, 0)

	var lines []string
	for row := first; row < first+rows; row++ {
		start := row * cols
		if start >= len(tools) {
			break
		}
		end := min(start+cols, len(tools))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			card, err := NewCard(&tools[i], CardOptions{
				Theme:       m.theme,
				Width:       cardWidth,
				Focused:     i == m.cursor,
				Selected:    m.st.IsSelected(tools[i].ID),
				CompareMode: m.st.CompareMode,
			})
			if err != nil {
				continue
			}
			cards = append(cards, card.View())
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

// renderList renders the list pane next to the detail pane.
func (m Model) renderList(height int) string {
	listWidth := m.width * 40 / 100
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width * 30 / 100
	}
	detailWidth := m.width - listWidth

	listFocused := m.focusedPane == paneList
	listPane := m.renderTitledBox(m.catalogTitle(), m.renderRows(listWidth-2, height-2), listWidth, height, listFocused)

	detail := m.detailViewport.View()
	if m.currentTool() == nil {
		detail = m.theme.Styles().MutedText.Render("Select a tool")
	}
	detailPane := m.renderTitledBox("Details", detail, detailWidth, height, !listFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// renderRows renders one list line per visible tool.
func (m Model) renderRows(width, rows int) string {
	tools := m.st.FilteredTools
	if len(tools) == 0 {
		return m.theme.Styles().MutedText.Render("No tools match the current filters")
	}
	first := max(m.cursor-rows+1, 0)
	last := min(first+rows, len(tools))

	lines := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		card, err := NewCard(&tools[i], CardOptions{
			Theme:       m.theme,
			Width:       width,
			Focused:     i == m.cursor,
			Selected:    m.st.IsSelected(tools[i].ID),
			CompareMode: m.st.CompareMode,
		})
		if err != nil {
			continue
		}
		lines = append(lines, card.Row())
	}
	return strings.Join(lines, "\n")
}

// catalogTitle returns the pane title with the active filter summary.
func (m Model) catalogTitle() string {
	total := len(m.st.Tools)
	visible := len(m.st.FilteredTools)
	if visible == total {
		return fmt.Sprintf("Tools (%d)", total)
	}
	return fmt.Sprintf("Tools (%d/%d)", visible, total)
}

// updateDetailViewport refreshes the detail pane for the current tool.
func (m *Model) updateDetailViewport() {
	height := m.height - chromeHeight
	width := m.width - m.width*40/100
	if m.width >= LayoutExtraWideWidth {
		width = m.width - m.width*30/100
	}
	m.detailViewport.Width = max(width-2, 0)
	m.detailViewport.Height = max(height-2, 0)

	tool := m.currentTool()
	if tool == nil {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(*tool, width-4, m.theme.SurfaceAlt))
	m.detailViewport.GotoTop()
}

// selectedTools returns the compare selection in catalog order.
func selectedTools(st state.State) []catalog.Tool {
	ids := st.SelectedIDs()
	tools := make([]catalog.Tool, 0, len(ids))
	for _, id := range ids {
		if tool, ok := catalog.Find(st.Tools, id); ok {
			tools = append(tools, tool)
		}
	}
	return tools
}
