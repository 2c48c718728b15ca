package render

import "image/color"

var (
	background = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	wallColor  = color.RGBA{0x80, 0x80, 0x80, 0xff}

	// playerColors is indexed by color id and wraps past its length.
	playerColors = []color.RGBA{
		{0x00, 0x00, 0xff, 0xff}, // blue
		{0xff, 0x00, 0xff, 0xff}, // magenta
		{0xff, 0xff, 0x00, 0xff}, // yellow
		{0xff, 0x00, 0x00, 0xff}, // red
		{0x00, 0xff, 0xff, 0xff}, // cyan
		{0xff, 0xaf, 0xaf, 0xff}, // pink
		{0x00, 0xff, 0x00, 0xff}, // green
		{0xff, 0xc8, 0x00, 0xff}, // orange
	}
)

// PlayerColor returns the fill used for pieces of color id.
func PlayerColor(id int) color.RGBA {
	if id < 0 {
		id = -id
	}
	return playerColors[id%len(playerColors)]
}
