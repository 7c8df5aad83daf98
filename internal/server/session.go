package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/google/uuid"

	"blockfall/internal/game"
	"blockfall/internal/render"
)

// GameSettings describes the board every session plays on.
type GameSettings struct {
	Board   game.Config
	Kinds   []*game.Kind
	Factory string
	Seed    uint64
}

// Session is one player's game: a board, its driver and the canvases the
// board draws on.
type Session struct {
	ID   string
	Name string

	board  *game.Board
	driver *game.Driver
	stack  *render.Canvas
	piece  *render.Canvas

	bell atomic.Bool
}

// NewSession builds a paused board for name.
func NewSession(name string, gs GameSettings, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	factory, err := game.NewFactory(gs.Factory, gs.Kinds, gs.Seed)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", name, err)
	}
	if err := gs.Board.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", name, err)
	}

	s := &Session{
		ID:    uuid.NewString(),
		Name:  name,
		stack: render.NewBoardCanvas(gs.Board),
		piece: render.NewBoardCanvas(gs.Board),
	}
	s.board, err = game.NewBoard(gs.Board, s.stack, s.piece, factory)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", name, err)
	}

	prefix := fmt.Sprintf("[%s %s] ", name, s.ID[:8])
	s.driver = game.NewDriver(s.board, game.DriverOptions{
		OnOverflow: func(*game.OverflowError) { s.bell.Store(true) },
		Logger:     log.New(logger.Writer(), prefix, logger.Flags()),
	})
	return s, nil
}

// Run drives the board until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	return s.driver.Run(ctx)
}

// Send queues an action for the driver. It reports false when the queue is
// full and the action was dropped.
func (s *Session) Send(a game.Action) bool {
	select {
	case s.driver.Input() <- a:
		return true
	default:
		return false
	}
}

// Board returns the session's board.
func (s *Session) Board() *game.Board { return s.board }

// Driver returns the session's driver.
func (s *Session) Driver() *game.Driver { return s.driver }

// Version changes whenever either canvas is redrawn.
func (s *Session) Version() uint64 {
	return s.stack.Version() + s.piece.Version()
}

// Frame snapshots everything a renderer needs.
func (s *Session) Frame() render.Frame {
	st := s.board.Status()
	return render.Frame{
		Board:  s.stack.Snapshot(),
		Piece:  s.piece.Snapshot(),
		Status: st,
		Title:  s.Name,
		Notice: Notice(st),
	}
}

// TakeBell reports whether an overflow happened since the last call.
func (s *Session) TakeBell() bool {
	return s.bell.Swap(false)
}

// Notice is the message shown over the playfield for st.
func Notice(st game.Status) string {
	switch {
	case st.Overflowed:
		return "GAME OVER - press n"
	case st.Paused && st.Locks == 0 && st.Blocks == 0 && st.Piece == "":
		return "press n to start"
	case st.Paused:
		return "PAUSED"
	}
	return ""
}
