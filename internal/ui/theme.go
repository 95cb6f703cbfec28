package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette is the raw color set a theme is derived from. Layers run from the
// outermost background (base) to the raised focus layer (raised).
type palette struct {
	base, panel, panelAlt, raised string
	selection, selectionText      string
	border, borderFocus           string
	fg, muted, faint              string
	blue, green, yellow           string
	orange, red, cyan             string
}

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	Background string // Outermost background
	Surface    string // Header, footer and panels
	SurfaceAlt string // Cards and secondary panels
	FocusBg    string // Focused card

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps a lowercase release status to its badge color.
	StatusColors map[string]string
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name:          name,
		Background:    p.base,
		Surface:       p.panel,
		SurfaceAlt:    p.panelAlt,
		FocusBg:       p.raised,
		SelectionBg:   p.selection,
		SelectionText: p.selectionText,
		Border:        p.border,
		BorderFocus:   p.borderFocus,
		Text:          p.fg,
		Muted:         p.muted,
		Faint:         p.faint,
		Accent:        p.blue,
		Success:       p.green,
		Warning:       p.yellow,
		Danger:        p.red,
		Info:          p.cyan,
		StatusColors: map[string]string{
			"stable":     p.green,
			"beta":       p.yellow,
			"alpha":      p.orange,
			"preview":    p.cyan,
			"deprecated": p.red,
		},
	}
}

// StatusColor returns the color for a tool status, falling back to Muted.
func (t Theme) StatusColor(status string) string {
	if color, ok := t.StatusColors[strings.ToLower(strings.TrimSpace(status))]; ok {
		return color
	}
	return t.Muted
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	theme Theme
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	panel := func(bg string) lipgloss.Style {
		return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(t.Text))
	}

	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    panel(t.Surface),
		SurfaceAlt: panel(t.SurfaceAlt),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   panel(t.Surface).Padding(0, 1),
		Footer:   panel(t.Surface).Foreground(lipgloss.Color(t.Muted)).Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color(t.SelectionBg)).Foreground(lipgloss.Color(t.SelectionText)),

		theme: t,
	}
}

// StatusStyle returns a badge style for the given tool status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.StatusColor(status))).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles with every style painted on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Background, &s.Surface, &s.SurfaceAlt,
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Footer, &s.Logo, &s.Selected,
	} {
		*st = st.Background(bg)
	}
	return s
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": newTheme("Nightfox", palette{
		base: "#131a24", panel: "#192330", panelAlt: "#212e3f", raised: "#29394f",
		selection: "#2b3b51", selectionText: "#cdcecf",
		border: "#39506d", borderFocus: "#719cd6",
		fg: "#cdcecf", muted: "#738091", faint: "#71839b",
		blue: "#719cd6", green: "#81b29a", yellow: "#dbc074",
		orange: "#f4a261", red: "#c94f6d", cyan: "#63cdcf",
	}),
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": newTheme("Kanagawa", palette{
		base: "#16161D", panel: "#1F1F28", panelAlt: "#2A2A37", raised: "#363646",
		selection: "#2D4F67", selectionText: "#DCD7BA",
		border: "#54546D", borderFocus: "#7E9CD8",
		fg: "#DCD7BA", muted: "#C8C093", faint: "#727169",
		blue: "#7E9CD8", green: "#98BB6C", yellow: "#E6C384",
		orange: "#FFA066", red: "#E46876", cyan: "#7FB4CA",
	}),
	// Tailwind slate/sky
	"Slate": newTheme("Slate", palette{
		base: "#020617", panel: "#0f172a", panelAlt: "#1e293b", raised: "#283548",
		selection: "#0284c7", selectionText: "#f8fafc",
		border: "#334155", borderFocus: "#38bdf8",
		fg: "#f1f5f9", muted: "#94a3b8", faint: "#64748b",
		blue: "#38bdf8", green: "#22c55e", yellow: "#f59e0b",
		orange: "#fb923c", red: "#ef4444", cyan: "#06b6d4",
	}),
}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
