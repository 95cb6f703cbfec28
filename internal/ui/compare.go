package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/catalog"
)

// compareRow is one attribute row of the comparison table.
type compareRow struct {
	label string
	value func(catalog.Tool) string
}

var compareRows = []compareRow{
	{"Type", func(t catalog.Tool) string { return titleCase(orDash(t.Type)) }},
	{"Category", func(t catalog.Tool) string { return titleCase(orDash(t.Category)) }},
	{"Price", func(t catalog.Tool) string { return titleCase(orDash(t.Price)) }},
	{"Status", func(t catalog.Tool) string { return titleCase(orDash(t.Status)) }},
	{"Rating", func(t catalog.Tool) string { return fmt.Sprintf("%.1f", t.Rating) }},
	{"Users", func(t catalog.Tool) string { return formatUsers(t.Users) }},
	{"Updated", func(t catalog.Tool) string { return orDash(t.Updated) }},
	{"Languages", func(t catalog.Tool) string { return joinOrDash(t.SupportedLanguages) }},
	{"Platforms", func(t catalog.Tool) string { return joinOrDash(t.Platforms) }},
	{"Features", func(t catalog.Tool) string { return joinOrDash(t.Features) }},
}

// renderCompare renders the compare view: one column per selected tool.
func (m Model) renderCompare(height int) string {
	tools := selectedTools(m.st)
	title := fmt.Sprintf("Compare (%d)", len(tools))
	if len(tools) == 0 {
		empty := m.theme.Styles().MutedText.Render("Select tools with Space to compare them")
		return m.renderTitledBox(title, "\n"+empty, m.width, height, true)
	}
	table := m.renderCompareTable(tools, m.width-2, m.theme.FocusBg, m.cursor)
	return m.renderTitledBox(title, table, m.width, height, true)
}

// renderCompareTable lays tools out side by side. The column at highlight is
// drawn with the selection colors; pass -1 for none.
func (m Model) renderCompareTable(tools []catalog.Tool, width int, bgColor string, highlight int) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	labelWidth := 11
	colWidth := max((width-labelWidth)/max(len(tools), 1), 8)
	best := bestRated(tools)

	var b strings.Builder
	b.WriteString(bg.Render(padRight("", labelWidth), styles.MutedText))
	for i, tool := range tools {
		style := styles.Text.Bold(true)
		if i == highlight {
			style = lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Bold(true)
		}
		name := tool.Name
		if i == best {
			name += " ★"
		}
		b.WriteString(style.Render(padRight(truncate(name, colWidth-1), colWidth)))
	}
	b.WriteString("\n")
	b.WriteString(bg.Render(strings.Repeat("─", labelWidth+colWidth*len(tools)), styles.FaintText))
	b.WriteString("\n")

	for _, row := range compareRows {
		b.WriteString(bg.Render(padRight(row.label, labelWidth), styles.MutedText))
		for _, tool := range tools {
			b.WriteString(styles.Text.Render(padRight(truncate(row.value(tool), colWidth-1), colWidth)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// bestRated returns the index of the highest rated tool, -1 for none.
func bestRated(tools []catalog.Tool) int {
	best := -1
	for i, tool := range tools {
		if best < 0 || tool.Rating > tools[best].Rating {
			best = i
		}
	}
	return best
}
