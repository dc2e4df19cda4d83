package ui

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// readableText returns whichever of near-white or the dark fallback reads
// better on bg. Invalid colors get the light text.
func readableText(bg, dark string) string {
	c, err := colorful.Hex(normalizeHex(bg))
	if err != nil {
		return "#f8fafc"
	}
	_, _, l := c.Hcl()
	if l > 0.65 {
		if dark == "" {
			return "#0f172a"
		}
		return dark
	}
	return "#f8fafc"
}

// tint blends color toward base by amount (0 keeps base, 1 keeps color). List
// rows use it so a saturated list color still sits quietly on the surface.
func tint(color, base string, amount float64) string {
	c, err := colorful.Hex(normalizeHex(color))
	if err != nil {
		return base
	}
	b, err := colorful.Hex(normalizeHex(base))
	if err != nil {
		return c.Hex()
	}
	return b.BlendLab(c, amount).Clamped().Hex()
}

// validHex reports whether s parses as a #rgb or #rrggbb color.
func validHex(s string) bool {
	_, err := colorful.Hex(normalizeHex(s))
	return err == nil
}

// normalizeHex expands #rgb and adds a missing leading #.
func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	return strings.ToLower(s)
}

// listColor resolves the display color of a list.
func (m Model) listColor(id int, color *string) string {
	if color != nil && validHex(*color) {
		return normalizeHex(*color)
	}
	return m.theme.PaletteColor(id)
}
