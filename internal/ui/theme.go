package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named set of hex colors. Every view derives its styles from the
// active theme, so switching themes is just swapping this value.
type Theme struct {
	Name string

	Background string // behind everything
	Surface    string // header, hint bar, modals
	SurfaceAlt string // cards and panels
	FocusBg    string // focused card or row

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

	// Palette colors lists that have no color of their own and tags the
	// category shortcuts. Picked by ID so a list keeps its color across runs.
	Palette []string
}

// PaletteColor returns a stable palette entry for n.
func (t Theme) PaletteColor(n int) string {
	if len(t.Palette) == 0 {
		return t.Accent
	}
	if n < 0 {
		n = -n
	}
	return t.Palette[n%len(t.Palette)]
}

// Styles holds the lipgloss styles built from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	background string
	muted      string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the text and chrome styles for t.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:   fg(t.Accent).Bold(true),

		background: t.Background,
		muted:      t.Muted,
	}
}

// BadgeStyle returns a padded chip style filled with color. An empty color
// falls back to the muted text color.
func (s Styles) BadgeStyle(color string) lipgloss.Style {
	if color == "" {
		color = s.muted
	}
	return fg(readableText(color, s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground paints every style onto bgColor. Without it, styled runs
// inside a filled panel would punch holes through to the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo,
	} {
		*st = st.Background(bg)
	}
	return s
}

var themeOrder = []Theme{vaporTheme(), nightfoxTheme(), slateTheme()}

// DefaultTheme is the theme used when none is saved or the saved one is unknown.
const DefaultTheme = "Vapor"

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	for _, t := range themeOrder {
		if t.Name == name {
			return t
		}
	}
	return themeOrder[0]
}

// NextTheme returns the theme name after current, wrapping around.
func NextTheme(current string) string {
	for i, t := range themeOrder {
		if t.Name == current {
			return themeOrder[(i+1)%len(themeOrder)].Name
		}
	}
	return themeOrder[0].Name
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	for i, t := range themeOrder {
		names[i] = t.Name
	}
	return names
}

// vaporTheme is a deep navy store-front look with a cyan accent.
func vaporTheme() Theme {
	return Theme{
		Name:          "Vapor",
		Background:    "#0e141b",
		Surface:       "#171d25",
		SurfaceAlt:    "#1b2838",
		FocusBg:       "#2a475e",
		SelectionBg:   "#3d6c8d",
		SelectionText: "#ffffff",
		Border:        "#2a3f5a",
		BorderFocus:   "#66c0f4",
		Text:          "#c7d5e0",
		Muted:         "#8f98a0",
		Faint:         "#626f7c",
		Accent:        "#66c0f4",
		Success:       "#a4d007",
		Warning:       "#e5b143",
		Danger:        "#d94141",
		Info:          "#57cbde",
		Palette:       []string{"#66c0f4", "#a4d007", "#e5b143", "#b084e8", "#57cbde", "#f08a4b", "#d94141"},
	}
}

// nightfoxTheme follows https://github.com/EdenEast/nightfox.nvim.
func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		Palette:       []string{"#719cd6", "#81b29a", "#dbc074", "#9d79d6", "#63cdcf", "#f4a261", "#c94f6d"},
	}
}

// slateTheme uses the Tailwind slate and sky scales.
func slateTheme() Theme {
	return Theme{
		Name:          "Slate",
		Background:    "#020617",
		Surface:       "#0f172a",
		SurfaceAlt:    "#1e293b",
		FocusBg:       "#283548",
		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#22c55e",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
		Palette:       []string{"#38bdf8", "#22c55e", "#f59e0b", "#a855f7", "#06b6d4", "#f97316", "#ef4444"},
	}
}
