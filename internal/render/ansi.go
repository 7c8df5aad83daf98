package render

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"

	// TileWidth is how many screen columns each grid cell occupies.
	// 2 makes cells appear roughly square since terminal chars are ~2:1.
	TileWidth = 2
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// ClearScreen clears the entire screen.
func ClearScreen() string {
	return CSI + "2J"
}

// HideCursor hides the terminal cursor.
func HideCursor() string {
	return CSI + "?25l"
}

// ShowCursor shows the terminal cursor.
func ShowCursor() string {
	return CSI + "?25h"
}

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string {
	return CSI + "?1049h"
}

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string {
	return CSI + "?1049l"
}

// WriteCellSGR writes a single cell's full SGR + character to the builder.
// Uses combined SGR to avoid state leakage between cells.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	if c.Bold {
		sb.WriteString("\x1b[0;1;38;2;")
	} else {
		sb.WriteString("\x1b[0;38;2;")
	}
	sb.WriteString(strconv.Itoa(int(c.FgR)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.FgG)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.FgB)))
	sb.WriteString(";48;2;")
	sb.WriteString(strconv.Itoa(int(c.BgR)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.BgG)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.BgB)))
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}

// ansiPalette holds the RGB value of each basic ANSI color code.
var ansiPalette = map[int][3]uint8{
	30: {0, 0, 0},
	31: {170, 0, 0},
	32: {0, 170, 0},
	33: {170, 170, 0},
	34: {0, 0, 170},
	35: {170, 0, 170},
	36: {0, 170, 170},
	37: {170, 170, 170},
	90: {85, 85, 85},
	91: {255, 85, 85},
	92: {85, 255, 85},
	93: {255, 255, 85},
	94: {85, 85, 255},
	95: {255, 85, 255},
	96: {85, 255, 255},
	97: {255, 255, 255},
}

// AnsiToRGB converts a basic ANSI color code to RGB. Unknown codes map to white (37).
func AnsiToRGB(code int) (uint8, uint8, uint8) {
	rgb, ok := ansiPalette[code]
	if !ok {
		rgb = ansiPalette[37]
	}
	return rgb[0], rgb[1], rgb[2]
}

// SetTitle sets the terminal window title.
func SetTitle(title string) string {
	return ESC + "]0;" + title + "\a"
}

// Bell rings the terminal bell.
func Bell() string {
	return "\a"
}
