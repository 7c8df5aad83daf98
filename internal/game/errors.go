package game

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow matches every *OverflowError via errors.Is.
	ErrOverflow = errors.New("board overflow")

	// ErrInvalidConfig is wrapped by configuration validation failures.
	ErrInvalidConfig = errors.New("invalid board config")
)

// OverflowError reports that a lock left blocks above the top row, or on top
// of existing blocks. The board is paused when this is returned.
type OverflowError struct {
	Piece  Piece   // the piece that was locked
	Cells  []Point // offending cells
	Blocks int     // stack size after the lock
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("board overflow: %s piece locked with %d cell(s) out of play, %d blocks on the stack",
		kindName(e.Piece.Kind), len(e.Cells), e.Blocks)
}

func (e *OverflowError) Unwrap() error {
	return ErrOverflow
}

func kindName(k *Kind) string {
	if k == nil {
		return "unknown"
	}
	return k.Name
}
