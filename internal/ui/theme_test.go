package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	for _, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Vapor"); got != "Nightfox" {
		t.Fatalf("NextTheme(Vapor) = %q, want Nightfox", got)
	}
	if got := NextTheme("Slate"); got != "Vapor" {
		t.Fatalf("NextTheme(Slate) = %q, want Vapor", got)
	}
	if got := NextTheme("Unknown"); got != DefaultTheme {
		t.Fatalf("NextTheme(Unknown) = %q, want %s", got, DefaultTheme)
	}
}

func TestGetTheme_FallsBackToDefault(t *testing.T) {
	if got := GetTheme("Kanagawa").Name; got != DefaultTheme {
		t.Fatalf("GetTheme(Kanagawa) = %q, want %s", got, DefaultTheme)
	}
}

func TestWithBackgroundKeepsPrivateColors(t *testing.T) {
	th := GetTheme("Slate")
	s := th.Styles().WithBackground(th.Surface)
	if s.background != th.Background || s.muted != th.Muted {
		t.Fatalf("WithBackground dropped base colors: %q %q", s.background, s.muted)
	}
	if got := s.Text.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("Text background = %v, want %s", got, th.Surface)
	}
}

func TestPaletteColor(t *testing.T) {
	th := GetTheme("Slate")
	if len(th.Palette) == 0 {
		t.Fatal("Slate has no palette")
	}
	if th.PaletteColor(3) != th.PaletteColor(3+len(th.Palette)) {
		t.Fatal("PaletteColor should wrap around the palette")
	}
	if th.PaletteColor(-2) != th.PaletteColor(2) {
		t.Fatal("PaletteColor should accept negative ids")
	}

	empty := Theme{Accent: "#123456"}
	if got := empty.PaletteColor(7); got != "#123456" {
		t.Fatalf("PaletteColor without palette = %q, want accent", got)
	}
}

func TestThemesHaveReadableColors(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for label, c := range map[string]string{
			"background": th.Background,
			"surface":    th.Surface,
			"focus":      th.FocusBg,
			"text":       th.Text,
			"accent":     th.Accent,
		} {
			if !validHex(c) {
				t.Fatalf("%s %s = %q, not a hex color", name, label, c)
			}
		}
		for i, c := range th.Palette {
			if !validHex(c) {
				t.Fatalf("%s palette[%d] = %q, not a hex color", name, i, c)
			}
		}
	}
}
