package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/catalog"
)

// renderDetailContent renders every attribute of tool for the detail pane and
// the details modal.
func (m Model) renderDetailContent(tool catalog.Tool, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	width = max(width, 20)

	var b strings.Builder

	title := bg.Render(tool.Name, styles.Text.Bold(true))
	if tool.Featured() {
		title += bg.Space() + bg.Render("★ featured", styles.WarningText)
	}
	if m.st.IsSelected(tool.ID) {
		title += bg.Space() + bg.Render("✓ compare", styles.SuccessText)
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.StatusStyle(tool.Status).Render(strings.ToUpper(orDash(tool.Status))))
	b.WriteString("\n\n")

	for _, line := range wrapWords(tool.Description, width) {
		b.WriteString(bg.Render(line, styles.Text))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	field := func(label, value string, style lipgloss.Style) {
		b.WriteString(bg.Render(padRight(label+":", 11), styles.MutedText))
		b.WriteString(bg.Render(truncate(value, width-11), style))
		b.WriteString("\n")
	}

	field("Type", titleCase(orDash(tool.Type)), styles.AccentText)
	field("Category", titleCase(orDash(tool.Category)), styles.Text)
	field("Price", titleCase(orDash(tool.Price)), styles.Text)
	field("Rating", fmt.Sprintf("%s %.1f", ratingStars(tool.Rating), tool.Rating), styles.WarningText)
	field("Users", formatUsers(tool.Users), styles.Text)
	field("Updated", orDash(tool.Updated), styles.MutedText)
	field("Website", orDash(tool.Website), styles.InfoText)

	b.WriteString("\n")
	list := func(label string, values []string) {
		b.WriteString(bg.Render(label, styles.AccentText.Bold(true)))
		b.WriteString("\n")
		for _, line := range wrapWords(joinOrDash(values), width) {
			b.WriteString(bg.Render(line, styles.Text))
			b.WriteString("\n")
		}
	}
	list("Features", tool.Features)
	list("Languages", tool.SupportedLanguages)
	list("Platforms", tool.Platforms)

	return strings.TrimRight(b.String(), "\n")
}

// wrapWords breaks text into lines no wider than width.
func wrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
