package ui

import "testing"

func TestNormalizeHex(t *testing.T) {
	tests := map[string]string{
		"#ABC":     "#aabbcc",
		"abc":      "#aabbcc",
		" #1E90FF": "#1e90ff",
		"":         "",
	}
	for in, want := range tests {
		if got := normalizeHex(in); got != want {
			t.Fatalf("normalizeHex(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidHex(t *testing.T) {
	for _, ok := range []string{"#fff", "1e90ff", "#00FF00"} {
		if !validHex(ok) {
			t.Fatalf("validHex(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "#12", "blue", "#gggggg"} {
		if validHex(bad) {
			t.Fatalf("validHex(%q) = true", bad)
		}
	}
}

func TestReadableText(t *testing.T) {
	if got := readableText("#fef08a", "#111111"); got != "#111111" {
		t.Fatalf("light background text = %q, want dark", got)
	}
	if got := readableText("#fef08a", ""); got != "#0f172a" {
		t.Fatalf("light background default = %q", got)
	}
	if got := readableText("#1e293b", "#111111"); got != "#f8fafc" {
		t.Fatalf("dark background text = %q, want light", got)
	}
	if got := readableText("nope", "#111111"); got != "#f8fafc" {
		t.Fatalf("invalid background text = %q, want light", got)
	}
}

func TestTint(t *testing.T) {
	if got := tint("#ff0000", "#000000", 0); got != "#000000" {
		t.Fatalf("tint amount 0 = %q, want base", got)
	}
	if got := tint("#ff0000", "#000000", 1); got != "#ff0000" {
		t.Fatalf("tint amount 1 = %q, want color", got)
	}
	if got := tint("bogus", "#101010", 0.5); got != "#101010" {
		t.Fatalf("tint invalid color = %q, want base", got)
	}
	mid := tint("#ffffff", "#000000", 0.5)
	if mid == "#000000" || mid == "#ffffff" {
		t.Fatalf("tint midpoint = %q, want a blend", mid)
	}
}

func TestListColor(t *testing.T) {
	m := Model{theme: GetTheme(DefaultTheme)}
	custom := "#ABC"
	if got := m.listColor(4, &custom); got != "#aabbcc" {
		t.Fatalf("listColor custom = %q", got)
	}
	bad := "purple"
	if got := m.listColor(4, &bad); got != m.theme.PaletteColor(4) {
		t.Fatalf("listColor invalid = %q, want palette", got)
	}
	if got := m.listColor(4, nil); got != m.theme.PaletteColor(4) {
		t.Fatalf("listColor nil = %q, want palette", got)
	}
}
