package game

// Tile is one cell to draw. X and Y are grid coordinates; the pixel
// position is X*Size, Y*Size.
type Tile struct {
	X, Y  int
	Size  int
	Color Color
}

// Surface is a write-only drawing target owned by a Board.
type Surface interface {
	Clear()
	RenderTile(t Tile)
}

// nopSurface discards everything. Used when a board is built without one.
type nopSurface struct{}

func (nopSurface) Clear()          {}
func (nopSurface) RenderTile(Tile) {}
