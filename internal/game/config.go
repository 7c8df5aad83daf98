package game

import (
	"fmt"
	"time"
)

// Config holds a board's initialization parameters.
type Config struct {
	Width    int // pixels
	Height   int // pixels
	TileSize int // pixels per grid cell

	NormalSpeed   time.Duration
	SoftDropSpeed time.Duration

	// Spawn point of every new piece. Depth is usually negative so the piece
	// enters from above the visible top row.
	SpawnOrientation int
	SpawnPosition    int
	SpawnDepth       int
}

// DefaultConfig returns a 480x600 board of 40px tiles (12 columns, 15 rows).
func DefaultConfig() Config {
	return Config{
		Width:            480,
		Height:           600,
		TileSize:         40,
		NormalSpeed:      DefaultNormalSpeed,
		SoftDropSpeed:    DefaultSoftDropSpeed,
		SpawnOrientation: 0,
		SpawnPosition:    5,
		SpawnDepth:       -1,
	}
}

// Columns is the grid width.
func (c Config) Columns() int { return c.Width / c.TileSize }

// Rows is the grid height.
func (c Config) Rows() int { return c.Height / c.TileSize }

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d must be positive", ErrInvalidConfig, c.TileSize)
	case c.Width < c.TileSize || c.Height < c.TileSize:
		return fmt.Errorf("%w: board %dx%d is smaller than one %dpx tile", ErrInvalidConfig, c.Width, c.Height, c.TileSize)
	case c.NormalSpeed <= 0 || c.SoftDropSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive (normal %v, soft drop %v)", ErrInvalidConfig, c.NormalSpeed, c.SoftDropSpeed)
	case c.SpawnPosition < 0 || c.SpawnPosition >= c.Columns():
		return fmt.Errorf("%w: spawn position %d outside %d columns", ErrInvalidConfig, c.SpawnPosition, c.Columns())
	case c.SpawnDepth >= c.Rows():
		return fmt.Errorf("%w: spawn depth %d below %d rows", ErrInvalidConfig, c.SpawnDepth, c.Rows())
	}
	return nil
}
