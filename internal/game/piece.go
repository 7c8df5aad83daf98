package game

import (
	"errors"
	"fmt"
)

// Point is a grid coordinate or a relative cell offset.
type Point struct {
	X, Y int
}

// Color is an RGB tile color.
type Color struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Shape is one rotation state: four cell offsets relative to the piece's reference point.
type Shape [4]Point

// Kind is a piece kind from a catalogue.
type Kind struct {
	Name      string
	Color     Color
	Rotations []Shape
}

// RotationCount returns the number of rotation states for this kind.
func (k *Kind) RotationCount() int {
	return len(k.Rotations)
}

// Validate checks that the kind is usable on a board.
func (k *Kind) Validate() error {
	if k.Name == "" {
		return errors.New("kind has no name")
	}
	if len(k.Rotations) == 0 {
		return fmt.Errorf("kind %q has no rotation states", k.Name)
	}
	for i, shape := range k.Rotations {
		seen := make(map[Point]bool, len(shape))
		for _, c := range shape {
			if seen[c] {
				return fmt.Errorf("kind %q rotation %d repeats cell (%d,%d)", k.Name, i, c.X, c.Y)
			}
			seen[c] = true
		}
	}
	return nil
}

// Piece is the currently falling shape.
type Piece struct {
	Kind        *Kind
	Orientation int
	Position    int // column of the reference point
	Depth       int // row of the reference point
	TileSize    int
}

// NewPiece places a piece of kind k. The orientation is wrapped into range.
func NewPiece(k *Kind, orientation, position, depth, tileSize int) *Piece {
	p := &Piece{
		Kind:     k,
		Position: position,
		Depth:    depth,
		TileSize: tileSize,
	}
	p.Orientation = p.Rotate(orientation, 0)
	return p
}

// RotationCount returns the number of rotation states of the piece's kind.
func (p *Piece) RotationCount() int {
	return p.Kind.RotationCount()
}

// Rotate applies step to orientation, wrapping modulo the kind's rotation count.
func (p *Piece) Rotate(orientation, step int) int {
	n := p.RotationCount()
	o := (orientation + step) % n
	if o < 0 {
		o += n
	}
	return o
}

// Color returns the kind's color.
func (p *Piece) Color() Color {
	return p.Kind.Color
}

// CellsAt returns the grid cells the piece would occupy at the given configuration.
// It has no side effects; rendering and collision both go through it.
func (p *Piece) CellsAt(orientation, position, depth int) [4]Point {
	shape := p.Kind.Rotations[p.Rotate(orientation, 0)]
	var cells [4]Point
	for i, off := range shape {
		cells[i] = Point{X: off.X + position, Y: off.Y + depth}
	}
	return cells
}

// Cells returns the grid cells at the piece's current configuration.
func (p *Piece) Cells() [4]Point {
	return p.CellsAt(p.Orientation, p.Position, p.Depth)
}
