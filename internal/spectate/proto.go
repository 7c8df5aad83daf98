package spectate

import (
	"blockfall/internal/game"
	"blockfall/internal/render"
)

// Layers a tile can belong to.
const (
	LayerStack = "stack"
	LayerPiece = "piece"
)

type TileMsg struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
	Layer string `json:"layer"`
}

// FrameMsg is the full board state sent to spectators after each change.
type FrameMsg struct {
	Type       string    `json:"type"` // always "FRAME"
	Session    string    `json:"session"`
	Name       string    `json:"name"`
	Version    uint64    `json:"version"`
	State      string    `json:"state"`
	Paused     bool      `json:"paused"`
	Overflowed bool      `json:"overflowed"`
	SoftDrop   bool      `json:"soft_drop"`
	SpeedMS    int64     `json:"speed_ms"`
	Columns    int       `json:"columns"`
	Rows       int       `json:"rows"`
	Locks      int       `json:"locks"`
	Blocks     int       `json:"blocks"`
	Piece      string    `json:"piece,omitempty"`
	Notice     string    `json:"notice,omitempty"`
	Tiles      []TileMsg `json:"tiles"`
}

func NewFrameMsg(session string, version uint64, f render.Frame) FrameMsg {
	st := f.Status
	msg := FrameMsg{
		Type:       "FRAME",
		Session:    session,
		Name:       f.Title,
		Version:    version,
		State:      st.State.String(),
		Paused:     st.Paused,
		Overflowed: st.Overflowed,
		SoftDrop:   st.SoftDrop,
		SpeedMS:    st.Speed.Milliseconds(),
		Columns:    st.Columns,
		Rows:       st.Rows,
		Locks:      st.Locks,
		Blocks:     st.Blocks,
		Piece:      st.Piece,
		Notice:     f.Notice,
		Tiles:      make([]TileMsg, 0, f.Board.Count()+f.Piece.Count()),
	}
	add := func(layer string) func(x, y int, c game.Color) {
		return func(x, y int, c game.Color) {
			msg.Tiles = append(msg.Tiles, TileMsg{X: x, Y: y, Color: c.Hex(), Layer: layer})
		}
	}
	f.Board.Each(add(LayerStack))
	f.Piece.Each(add(LayerPiece))
	return msg
}
