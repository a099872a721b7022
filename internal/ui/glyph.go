package ui

import (
	"slices"
	"strings"
)

// DefaultIcon is the icon of new categories.
const DefaultIcon = "Circle"

// Category icons are stored by name.
var glyphs = map[string]string{
	"CheckSquare": "☑",
	"Film":        "🎬",
	"Tv":          "📺",
	"Music":       "♪",
	"Mic":         "🎙",
	"Book":        "📖",
	"Dices":       "🎲",
	"Wine":        "🍷",
	"Gamepad2":    "🎮",
	"Beer":        "🍺",
	"LinkIcon":    "🔗",
	"Circle":      "○",
}

// Glyph returns the symbol for an icon name, or "" when the name is unknown.
func Glyph(icon string) string {
	return glyphs[strings.TrimSpace(icon)]
}

// IconNames lists every known icon name, sorted.
func IconNames() []string {
	names := make([]string, 0, len(glyphs))
	for k := range glyphs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Label prefixes label with the glyph for icon, if any.
func Label(icon, label string) string {
	if g := Glyph(icon); g != "" {
		return g + " " + label
	}
	return label
}
