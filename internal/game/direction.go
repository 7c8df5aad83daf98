package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned for direction values outside the closed set.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is a single unit step applied to the active piece.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirDown
	DirClockwise
	DirCounterClockwise
)

var directionNames = [...]string{
	DirLeft:             "left",
	DirRight:            "right",
	DirDown:             "down",
	DirClockwise:        "clockwise",
	DirCounterClockwise: "counterclockwise",
}

// Valid reports whether d is one of the five known directions.
func (d Direction) Valid() bool {
	return d >= DirLeft && d <= DirCounterClockwise
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts a textual direction ("left", "cw", ...) into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	case "down", "d":
		return DirDown, nil
	case "clockwise", "cw":
		return DirClockwise, nil
	case "counterclockwise", "ccw":
		return DirCounterClockwise, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// step returns the candidate (position, depth, orientation) delta for d.
func (d Direction) step() (dx, dy, dr int) {
	switch d {
	case DirLeft:
		return -1, 0, 0
	case DirRight:
		return 1, 0, 0
	case DirDown:
		return 0, 1, 0
	case DirClockwise:
		return 0, 0, 1
	case DirCounterClockwise:
		return 0, 0, -1
	}
	return 0, 0, 0
}
