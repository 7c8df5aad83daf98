package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/kamstrup/intmap"
)

// State is the board's position in the piece state machine.
type State int

const (
	StatePaused State = iota
	StateNoPiece
	StateActive
	StateOverflow
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateNoPiece:
		return "running"
	case StateActive:
		return "falling"
	case StateOverflow:
		return "overflow"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Block is a locked cell of the stack.
type Block struct {
	X, Y  int
	Color Color
}

// LockEvent describes one lock-in, delivered to the lock listener.
type LockEvent struct {
	Kind     *Kind
	Blocks   [4]Block
	Overflow bool
}

// Status is a read-only snapshot of the board.
type Status struct {
	State      State
	Paused     bool
	Overflowed bool
	SoftDrop   bool
	Speed      time.Duration
	Columns    int
	Rows       int
	Blocks     int
	Locks      int
	Piece      string // active kind name, empty when none
}

// Board owns the block stack, the active piece and both rendering surfaces.
// All methods are safe to call from multiple goroutines; each one is a single
// atomic step. Surfaces must not call back into the board.
type Board struct {
	mu sync.Mutex

	cfg        Config
	cols, rows int

	boardSurface Surface // persistent stack projection
	pieceSurface Surface // active piece only
	factory      Factory

	blocks   []Block
	occupied *intmap.Map[uint64, int] // packed cell -> index into blocks
	current  *Piece

	speed      time.Duration
	softDrop   bool
	paused     bool
	overflowed bool
	locks      int

	onLock func(LockEvent)
}

// NewBoard creates a paused, empty board. Nil surfaces discard drawing.
func NewBoard(cfg Config, boardSurface, pieceSurface Surface, factory Factory) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil piece factory", ErrInvalidConfig)
	}
	if boardSurface == nil {
		boardSurface = nopSurface{}
	}
	if pieceSurface == nil {
		pieceSurface = nopSurface{}
	}
	cols, rows := cfg.Columns(), cfg.Rows()
	return &Board{
		cfg:          cfg,
		cols:         cols,
		rows:         rows,
		boardSurface: boardSurface,
		pieceSurface: pieceSurface,
		factory:      factory,
		occupied:     intmap.New[uint64, int](cols * rows),
		speed:        cfg.NormalSpeed,
		paused:       true,
	}, nil
}

func cellKey(x, y int) uint64 {
	return uint64(uint32(x))<<32 | uint64(uint32(y))
}

// SetLockListener registers fn to run after every lock-in, outside the board lock.
func (b *Board) SetLockListener(fn func(LockEvent)) {
	b.mu.Lock()
	b.onLock = fn
	b.mu.Unlock()
}

// StartGame clears both surfaces, empties the stack and unpauses.
func (b *Board) StartGame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.boardSurface.Clear()
	b.pieceSurface.Clear()
	b.blocks = nil
	b.occupied = intmap.New[uint64, int](b.cols * b.rows)
	b.current = nil
	b.softDrop = false
	b.speed = b.cfg.NormalSpeed
	b.overflowed = false
	b.locks = 0
	b.paused = false
}

// Pause stops ticks from moving the piece.
func (b *Board) Pause() {
	b.mu.Lock()
	b.paused = true
	b.mu.Unlock()
}

// Resume unpauses a board that has not overflowed. It reports whether the
// board is running afterwards.
func (b *Board) Resume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.overflowed {
		return false
	}
	b.paused = false
	return true
}

// DropPiece switches between soft-drop and normal fall speed.
// The new speed applies from the next scheduled tick.
func (b *Board) DropPiece(soft bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setSoftDrop(soft)
}

// ToggleSoftDrop flips the drop speed and returns the new soft-drop state.
func (b *Board) ToggleSoftDrop() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setSoftDrop(!b.softDrop)
	return b.softDrop
}

func (b *Board) setSoftDrop(soft bool) {
	b.softDrop = soft
	if soft {
		b.speed = b.cfg.SoftDropSpeed
	} else {
		b.speed = b.cfg.NormalSpeed
	}
}

// SpawnPiece creates the next active piece if there is none.
func (b *Board) SpawnPiece() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.spawnPiece()
}

func (b *Board) spawnPiece() {
	if b.current != nil {
		return
	}
	k := b.factory.NextKind()
	b.current = NewPiece(k, b.cfg.SpawnOrientation, b.cfg.SpawnPosition, b.cfg.SpawnDepth, b.cfg.TileSize)
	b.drawCurrentPiece()
}

func (b *Board) drawCurrentPiece() {
	b.pieceSurface.Clear()
	if b.current == nil {
		return
	}
	color := b.current.Color()
	for _, c := range b.current.Cells() {
		b.pieceSurface.RenderTile(Tile{X: c.X, Y: c.Y, Size: b.cfg.TileSize, Color: color})
	}
}

// MovePiece applies one unit step to the active piece. It reports whether the
// piece moved. A blocked down move locks the piece and spawns the next one; a
// blocked move in any other direction is discarded. The only error besides an
// invalid direction is *OverflowError.
func (b *Board) MovePiece(d Direction) (bool, error) {
	if !d.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}

	b.mu.Lock()
	moved, ev, err := b.movePiece(d)
	listener := b.onLock
	b.mu.Unlock()

	if ev != nil && listener != nil {
		listener(*ev)
	}
	return moved, err
}

func (b *Board) movePiece(d Direction) (bool, *LockEvent, error) {
	p := b.current
	if p == nil {
		return false, nil, nil
	}

	dx, dy, dr := d.step()
	position := p.Position + dx
	depth := p.Depth + dy
	orientation := p.Rotate(p.Orientation, dr)

	if b.checkMove(position, depth, orientation) {
		p.Position = position
		p.Depth = depth
		p.Orientation = orientation
		b.drawCurrentPiece()
		return true, nil, nil
	}

	if d != DirDown {
		return false, nil, nil
	}

	ev, err := b.addPiece(p)
	b.current = nil
	if err != nil {
		b.pieceSurface.Clear()
		return false, &ev, err
	}
	b.spawnPiece()
	return false, &ev, nil
}

// CheckMove reports whether the active piece fits at the given configuration.
// Rows above the top are always allowed.
func (b *Board) CheckMove(position, depth, orientation int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return false
	}
	return b.checkMove(position, depth, orientation)
}

func (b *Board) checkMove(position, depth, orientation int) bool {
	for _, c := range b.current.CellsAt(orientation, position, depth) {
		if c.X < 0 || c.X >= b.cols {
			return false
		}
		if c.Y >= b.rows {
			return false
		}
		if _, hit := b.occupied.Get(cellKey(c.X, c.Y)); hit {
			return false
		}
	}
	return true
}

// addPiece locks p into the stack and redraws the whole stack surface.
// Blocks above the top row, or cells that land on existing blocks, overflow
// the board and pause it.
func (b *Board) addPiece(p *Piece) (LockEvent, error) {
	ev := LockEvent{Kind: p.Kind}
	color := p.Color()

	var bad []Point
	for i, c := range p.Cells() {
		block := Block{X: c.X, Y: c.Y, Color: color}
		ev.Blocks[i] = block
		key := cellKey(c.X, c.Y)
		if _, taken := b.occupied.Get(key); taken {
			bad = append(bad, c)
			continue
		}
		b.occupied.Put(key, len(b.blocks))
		b.blocks = append(b.blocks, block)
	}
	b.locks++

	b.boardSurface.Clear()
	for _, block := range b.blocks {
		b.boardSurface.RenderTile(Tile{X: block.X, Y: block.Y, Size: b.cfg.TileSize, Color: block.Color})
		if block.Y < 0 {
			bad = append(bad, Point{X: block.X, Y: block.Y})
		}
	}

	if len(bad) == 0 {
		return ev, nil
	}

	ev.Overflow = true
	b.overflowed = true
	b.paused = true
	return ev, &OverflowError{Piece: *p, Cells: bad, Blocks: len(b.blocks)}
}

// Speed is the current tick interval.
func (b *Board) Speed() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.speed
}

// Paused reports whether ticks are suppressed.
func (b *Board) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

// Overflowed reports whether the last game ended in overflow.
func (b *Board) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflowed
}

// Columns returns the grid width.
func (b *Board) Columns() int { return b.cols }

// Rows returns the grid height.
func (b *Board) Rows() int { return b.rows }

// TileSize returns the pixel size of one grid cell.
func (b *Board) TileSize() int { return b.cfg.TileSize }

// Blocks returns a copy of the stack.
func (b *Board) Blocks() []Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Block, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// CurrentPiece returns a copy of the active piece.
func (b *Board) CurrentPiece() (Piece, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Piece{}, false
	}
	return *b.current, true
}

// Status returns a snapshot for HUDs and spectators.
func (b *Board) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := Status{
		Paused:     b.paused,
		Overflowed: b.overflowed,
		SoftDrop:   b.softDrop,
		Speed:      b.speed,
		Columns:    b.cols,
		Rows:       b.rows,
		Blocks:     len(b.blocks),
		Locks:      b.locks,
	}
	if b.current != nil {
		st.Piece = b.current.Kind.Name
	}
	switch {
	case b.overflowed:
		st.State = StateOverflow
	case b.paused:
		st.State = StatePaused
	case b.current != nil:
		st.State = StateActive
	default:
		st.State = StateNoPiece
	}
	return st
}
