package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// handleSearchKey edits the search query. Enter applies it, esc abandons
// the edit and keeps the previous query.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.filters.Search = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyView()
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue(m.filters.Search)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// renderSearchBar renders the search input in place of the command bar.
func (m Model) renderSearchBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	m.searchInput.PromptStyle = styles.AccentText
	m.searchInput.TextStyle = styles.Text
	m.searchInput.PlaceholderStyle = styles.FaintText

	hint := bg.Render("enter", styles.AccentText) + bg.Sep(":") + bg.Render("Apply", styles.MutedText) +
		bg.Spaces(2) +
		bg.Render("esc", styles.AccentText) + bg.Sep(":") + bg.Render("Cancel", styles.MutedText)

	return styles.Footer.Width(m.width).Render(m.searchInput.View() + bg.Spaces(2) + hint)
}
