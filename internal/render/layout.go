package render

import (
	"fmt"
	"time"

	"blockfall/internal/game"
)

// HUDWidth is the number of screen columns reserved to the right of the playfield.
const HUDWidth = 26

// Frame is everything needed to draw one screen.
type Frame struct {
	Board  Layer // locked stack
	Piece  Layer // active piece, drawn over the stack
	Status game.Status
	Title  string
	Notice string // shown over the playfield, e.g. after overflow
}

// Controls lists the key help shown in the HUD.
var Controls = []string{
	"←/a →/d  move",
	"↑/w x    rotate",
	"z        rotate back",
	"↓/s      down",
	"space    soft drop",
	"enter/n  new game",
	"p        pause",
	"q        quit",
}

// Compose lays out a frame into a termH x termW cell buffer.
func Compose(f Frame, termW, termH int) [][]Cell {
	buf := make([][]Cell, termH)
	for y := range buf {
		buf[y] = make([]Cell, termW)
		for x := range buf[y] {
			buf[y][x] = bgCell
		}
	}

	cols, rows := f.Board.Cols, f.Board.Rows
	vp := NewViewport(cols, rows, termW, termH, HUDWidth)
	if !vp.Fits {
		need := fmt.Sprintf("terminal too small: need %dx%d", vp.FieldW+2+HUDWidth, vp.FieldH)
		drawText(buf, 0, 0, need, alertCell)
		return buf
	}

	drawBorder(buf, vp.OffsetX, vp.OffsetY, vp.FieldW, vp.FieldH)

	for gy := 0; gy < rows; gy++ {
		for gx := 0; gx < cols; gx++ {
			sx, sy := vp.GridToScreen(gx, gy, cols, rows)
			sprite := EmptySprite()
			if c, ok := f.Piece.At(gx, gy); ok {
				sprite = SolidSprite(c)
			} else if c, ok := f.Board.At(gx, gy); ok {
				sprite = SolidSprite(c)
			}
			for i, cell := range sprite {
				buf[sy][sx+i] = cell
			}
		}
	}

	if f.Notice != "" {
		nx := vp.OffsetX + max((vp.FieldW-len([]rune(f.Notice)))/2, 0)
		drawText(buf, nx, vp.OffsetY+vp.FieldH/2, f.Notice, alertCell)
	}

	drawHUD(buf, vp.HUDX, vp.OffsetY, f)
	return buf
}

func drawHUD(buf [][]Cell, x, y int, f Frame) {
	st := f.Status
	title := textCell
	title.Bold = true

	lines := []struct {
		text string
		cell Cell
	}{
		{f.Title, title},
		{"", textCell},
		{"state  " + st.State.String(), textCell},
		{"speed  " + speedLabel(st), textCell},
		{fmt.Sprintf("piece  %s", orDash(st.Piece)), textCell},
		{fmt.Sprintf("locks  %d", st.Locks), textCell},
		{fmt.Sprintf("blocks %d", st.Blocks), textCell},
		{"", textCell},
	}
	for _, c := range Controls {
		lines = append(lines, struct {
			text string
			cell Cell
		}{c, dimCell})
	}
	for i, l := range lines {
		drawText(buf, x, y+i, l.text, l.cell)
	}
}

func speedLabel(st game.Status) string {
	mode := "normal"
	if st.SoftDrop {
		mode = "soft drop"
	}
	return fmt.Sprintf("%v (%s)", st.Speed.Round(time.Millisecond), mode)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func drawBorder(buf [][]Cell, x, y, w, h int) {
	put := func(px, py int, ch rune) {
		if py >= 0 && py < len(buf) && px >= 0 && px < len(buf[py]) {
			c := borderCell
			c.Ch = ch
			buf[py][px] = c
		}
	}
	for i := 1; i < w-1; i++ {
		put(x+i, y, '─')
		put(x+i, y+h-1, '─')
	}
	for j := 1; j < h-1; j++ {
		put(x, y+j, '│')
		put(x+w-1, y+j, '│')
	}
	put(x, y, '┌')
	put(x+w-1, y, '┐')
	put(x, y+h-1, '└')
	put(x+w-1, y+h-1, '┘')
}

// drawText writes s starting at (x, y), clipped to the buffer.
func drawText(buf [][]Cell, x, y int, s string, style Cell) {
	if y < 0 || y >= len(buf) {
		return
	}
	for _, r := range s {
		if x >= len(buf[y]) {
			return
		}
		if x >= 0 {
			c := style
			c.Ch = r
			buf[y][x] = c
		}
		x++
	}
}
