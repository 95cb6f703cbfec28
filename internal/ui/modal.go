package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/state"
)

// renderModal renders the open modal centered over the screen.
func (m Model) renderModal() string {
	styles := m.theme.Styles()
	width := min(max(m.width*70/100, 40), m.width)

	var title, body string
	switch m.st.Modal.Type {
	case state.ModalCompare:
		tools := make([]catalog.Tool, 0, len(m.st.Modal.ToolIDs))
		for _, id := range m.st.Modal.ToolIDs {
			if tool, ok := catalog.Find(m.st.Tools, id); ok {
				tools = append(tools, tool)
			}
		}
		title = fmt.Sprintf("Compare %d tools", len(tools))
		body = m.renderCompareTable(tools, width-6, m.theme.Background, -1)
	default:
		tool := m.modalTool()
		if tool == nil {
			title, body = "Details", styles.MutedText.Render("Tool no longer in catalog")
			break
		}
		title = tool.Name
		body = m.renderDetailContent(*tool, width-6, m.theme.Background)
	}

	hint := styles.FaintText.Render("esc close · o website · space compare")
	content := styles.AccentText.Bold(true).Render(title) + "\n" +
		styles.FaintText.Render(strings.Repeat("─", max(width-6, 1))) + "\n" +
		body + "\n\n" + hint

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width - 2).
		MaxHeight(m.height)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
