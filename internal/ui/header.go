package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("toolcat", styles.Logo)}

	switch {
	case m.st.Loading:
		parts = append(parts, bg.Render("Loading tools...", styles.WarningText.Bold(true)))
	case m.st.Error != nil:
		parts = append(parts, bg.Render("● "+m.st.Error.Message, styles.DangerText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● Ready", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Tools:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", len(m.st.FilteredTools), len(m.st.Tools)), styles.Text),
	)

	if n := m.st.SelectedTools.Cardinality(); n > 0 {
		parts = append(parts,
			bg.Render("Compare:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.AccentText))
	}

	if !compact {
		parts = append(parts,
			bg.Render("Avg:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%.1f", m.st.Statistics.AverageRating), styles.WarningText))

		if featured := m.featuredNames(3); featured != "" {
			parts = append(parts, bg.Render("★ "+featured, styles.WarningText))
		}
	}

	if m.width >= LayoutExtraWideWidth && m.source != "" {
		parts = append(parts,
			bg.Render("source", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(m.source, 40), styles.MutedText))
	}

	if m.flash != "" {
		parts = append(parts, bg.Render(m.flash, styles.WarningText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).
		Render(strings.Join(parts, sep))
}

// featuredNames lists up to limit featured tool names.
func (m Model) featuredNames(limit int) string {
	if m.svc == nil {
		return ""
	}
	n := limit
	if m.featuredLimit > 0 {
		n = min(limit, m.featuredLimit)
	}
	tools := m.svc.FeaturedTools(n)
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return strings.Join(names, ", ")
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	if m.searching {
		return m.renderSearchBar()
	}

	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.logs.open:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Refresh"},
			{"esc", "Back"},
		}
	case m.st.CurrentView == state.ViewCompare:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Space", "Toggle"},
			{"m", "Modal"},
			{"x", "Clear"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"t", filterLabel("Type", m.filters.Type)},
			{"p", filterLabel("Price", m.filters.Price)},
			{"C", filterLabel("Category", m.filters.Category)},
			{"s", sortLabel(m.sort)},
			{"v", viewLabel(m.st.CurrentView)},
			{"enter", "Details"},
			{"Space", "Compare"},
			{"c", "Compare view"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.filters.Search != "" {
		segments = append(segments, bg.Render("/"+truncate(m.filters.Search, 18), styles.AccentText))
	}

	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func filterLabel(name, value string) string {
	if value == "" || value == state.FilterAll {
		return name
	}
	return name + "=" + value
}

func sortLabel(key catalog.SortKey) string {
	return "Sort " + titleCase(string(key))
}

func viewLabel(view state.View) string {
	if view == state.ViewList {
		return "Grid"
	}
	return "List"
}
