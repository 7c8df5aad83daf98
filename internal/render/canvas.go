package render

import (
	"sync"

	"blockfall/internal/game"
)

type layerCell struct {
	filled bool
	color  game.Color
}

// Layer is an immutable snapshot of a Canvas in grid cells.
type Layer struct {
	Cols, Rows int
	cells      []layerCell
}

// At returns the color at grid cell (x, y) and whether anything is drawn there.
func (l Layer) At(x, y int) (game.Color, bool) {
	if x < 0 || y < 0 || x >= l.Cols || y >= l.Rows {
		return game.Color{}, false
	}
	c := l.cells[y*l.Cols+x]
	return c.color, c.filled
}

// Each calls fn for every filled cell in row-major order.
func (l Layer) Each(fn func(x, y int, color game.Color)) {
	for i, c := range l.cells {
		if c.filled {
			fn(i%l.Cols, i/l.Cols, c.color)
		}
	}
}

// Count returns the number of filled cells.
func (l Layer) Count() int {
	n := 0
	for _, c := range l.cells {
		if c.filled {
			n++
		}
	}
	return n
}

// Canvas is an in-memory drawing surface measured in pixels and stored in
// cells of tilePx pixels. Tiles are clipped to the canvas like a bitmap would be.
// It is safe for one writer and many readers.
type Canvas struct {
	mu            sync.RWMutex
	width, height int
	tilePx        int
	cols, rows    int
	cells         []layerCell
	version       uint64
}

// NewCanvas creates a canvas of width x height pixels with tilePx cells.
func NewCanvas(width, height, tilePx int) *Canvas {
	if tilePx < 1 {
		tilePx = 1
	}
	cols, rows := width/tilePx, height/tilePx
	return &Canvas{
		width:  width,
		height: height,
		tilePx: tilePx,
		cols:   cols,
		rows:   rows,
		cells:  make([]layerCell, cols*rows),
	}
}

// NewBoardCanvas sizes a canvas to a board configuration.
func NewBoardCanvas(cfg game.Config) *Canvas {
	return NewCanvas(cfg.Width, cfg.Height, cfg.TileSize)
}

// Clear erases every cell.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cells)
	c.version++
}

// RenderTile fills the cells covered by the tile's pixel rectangle.
func (c *Canvas) RenderTile(t game.Tile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++

	x0, y0 := t.X*t.Size, t.Y*t.Size
	x1, y1 := x0+t.Size, y0+t.Size
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.cols*c.tilePx), min(y1, c.rows*c.tilePx)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for row := y0 / c.tilePx; row <= (y1-1)/c.tilePx; row++ {
		for col := x0 / c.tilePx; col <= (x1-1)/c.tilePx; col++ {
			c.cells[row*c.cols+col] = layerCell{filled: true, color: t.Color}
		}
	}
}

// Version increases on every write; readers use it to skip unchanged frames.
func (c *Canvas) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Snapshot copies the current cells.
func (c *Canvas) Snapshot() Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cells := make([]layerCell, len(c.cells))
	copy(cells, c.cells)
	return Layer{Cols: c.cols, Rows: c.rows, cells: cells}
}

// Size returns the grid dimensions.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}
