package model

// Color indices follow the LDraw palette.
const (
	ColorBlack     = 0
	ColorBlue      = 1
	ColorGreen     = 2
	ColorRed       = 4
	ColorYellow    = 14
	ColorWhite     = 15
	ColorLightGray = 7
	ColorDarkGray  = 8

	// ColorCurrent is the sentinel meaning "inherit the color of the
	// enclosing part", or the current editing color at the top level.
	ColorCurrent = 16
)

// ResolveColor returns the effective color of a child reference inside a
// parent of color parent.
func ResolveColor(child, parent int) int {
	if child == ColorCurrent {
		return parent
	}
	return child
}

// colorHex maps the common palette entries to display colors.
var colorHex = map[int]string{
	ColorBlack:     "#05131D",
	ColorBlue:      "#0055BF",
	ColorGreen:     "#257A3E",
	3:              "#008F9B",
	ColorRed:       "#C91A09",
	5:              "#C870A0",
	6:              "#583927",
	ColorLightGray: "#9BA19D",
	ColorDarkGray:  "#6D6E5C",
	ColorYellow:    "#F2CD37",
	ColorWhite:     "#FFFFFF",
}

// ColorHex returns a display color for c, falling back to light gray.
func ColorHex(c int) string {
	if h, ok := colorHex[c]; ok {
		return h
	}
	return colorHex[ColorLightGray]
}
