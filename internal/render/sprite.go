package render

import "blockfall/internal/game"

// BlockSprite is the TileWidth screen cells that draw one grid cell.
type BlockSprite [TileWidth]Cell

var (
	bgCell     = Cell{Ch: ' ', BgR: 10, BgG: 10, BgB: 15}
	fieldCell  = Cell{Ch: ' ', FgR: 45, FgG: 45, FgB: 55, BgR: 20, BgG: 20, BgB: 28}
	borderCell = Cell{FgR: 140, FgG: 140, FgB: 160, BgR: 10, BgG: 10, BgB: 15}
	textCell   = Cell{FgR: 210, FgG: 210, FgB: 220, BgR: 10, BgG: 10, BgB: 15}
	dimCell    = Cell{FgR: 120, FgG: 120, FgB: 135, BgR: 10, BgG: 10, BgB: 15}
	alertCell  = Cell{FgR: 255, FgG: 90, FgB: 90, BgR: 10, BgG: 10, BgB: 15, Bold: true}
)

// EmptySprite is an unoccupied grid cell: a faint dot in the left half.
func EmptySprite() BlockSprite {
	dot := fieldCell
	dot.Ch = '·'
	return BlockSprite{dot, fieldCell}
}

// SolidSprite draws a block of the given color with a lighter bevel glyph.
func SolidSprite(c game.Color) BlockSprite {
	cell := Cell{
		Ch:  ' ',
		FgR: lighten(c.R), FgG: lighten(c.G), FgB: lighten(c.B),
		BgR: c.R, BgG: c.G, BgB: c.B,
	}
	left := cell
	left.Ch = '▕'
	return BlockSprite{left, cell}
}

func lighten(v uint8) uint8 {
	return uint8(min(int(v)+60, 255))
}
