package render

// Viewport places the playfield and HUD inside the terminal.
type Viewport struct {
	OffsetX, OffsetY int // top-left screen cell of the playfield border (0-based)
	FieldW, FieldH   int // playfield size in screen cells, border included
	HUDX             int // first screen column of the HUD
	Fits             bool
}

// NewViewport centers a cols x rows board plus a HUD of hudW columns in a
// termW x termH terminal. Fits is false when the terminal is too small.
func NewViewport(cols, rows, termW, termH, hudW int) Viewport {
	fieldW := cols*TileWidth + 2
	fieldH := rows + 2
	totalW := fieldW + 2 + hudW

	v := Viewport{
		FieldW: fieldW,
		FieldH: fieldH,
		Fits:   totalW <= termW && fieldH <= termH,
	}
	v.OffsetX = max((termW-totalW)/2, 0)
	v.OffsetY = max((termH-fieldH)/2, 0)
	v.HUDX = v.OffsetX + fieldW + 2
	return v
}

// GridToScreen converts a board cell to the screen cell of its left half.
// Returns -1,-1 if the cell is outside the board.
func (v Viewport) GridToScreen(gx, gy, cols, rows int) (int, int) {
	if gx < 0 || gy < 0 || gx >= cols || gy >= rows {
		return -1, -1
	}
	return v.OffsetX + 1 + gx*TileWidth, v.OffsetY + 1 + gy
}
