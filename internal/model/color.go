package model

import "strings"

// Color is a palette entry for a category.
type Color string

// Supported palette entries.
const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorTeal   Color = "teal"
	ColorYellow Color = "yellow"
	ColorIndigo Color = "indigo"
	ColorBrown  Color = "brown"
	ColorGray   Color = "gray"
)

// DefaultColor is used for any tag outside the palette.
const DefaultColor = ColorBlue

// Palette lists the colors in display order.
var Palette = []Color{
	ColorGreen, ColorBlue, ColorOrange, ColorPink, ColorRed, ColorPurple,
	ColorTeal, ColorYellow, ColorIndigo, ColorBrown, ColorGray,
}

// ParseColor maps a stored tag to a palette entry. Unknown tags map to
// DefaultColor.
func ParseColor(tag string) Color {
	c := Color(strings.ToLower(strings.TrimSpace(tag)))
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// Valid reports whether c is a palette entry.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Hex returns the terminal color used to render c.
func (c Color) Hex() string {
	switch ParseColor(string(c)) {
	case ColorGreen:
		return "#34C759"
	case ColorOrange:
		return "#FF9500"
	case ColorPink:
		return "#FF2D55"
	case ColorRed:
		return "#FF3B30"
	case ColorPurple:
		return "#AF52DE"
	case ColorTeal:
		return "#30B0C7"
	case ColorYellow:
		return "#FFCC00"
	case ColorIndigo:
		return "#5856D6"
	case ColorBrown:
		return "#A2845E"
	case ColorGray:
		return "#8E8E93"
	default:
		return "#007AFF"
	}
}
