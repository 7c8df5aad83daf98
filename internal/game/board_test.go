package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Surface that keeps what is currently drawn.
type recorder struct {
	clears int
	tiles  []Tile
}

func (r *recorder) Clear() {
	r.clears++
	r.tiles = r.tiles[:0]
}

func (r *recorder) RenderTile(t Tile) {
	r.tiles = append(r.tiles, t)
}

func newTestBoard(t *testing.T, cfg Config, kinds ...*Kind) (*Board, *recorder, *recorder) {
	t.Helper()
	boardSurf, pieceSurf := &recorder{}, &recorder{}
	b, err := NewBoard(cfg, boardSurf, pieceSurf, NewCycleFactory(kinds...))
	require.NoError(t, err)
	b.StartGame()
	b.SpawnPiece()
	return b, boardSurf, pieceSurf
}

func TestNewBoardStartsPaused(t *testing.T) {
	b, err := NewBoard(DefaultConfig(), nil, nil, NewCycleFactory(StandardKinds()...))
	require.NoError(t, err)

	assert.Equal(t, 12, b.Columns())
	assert.Equal(t, 15, b.Rows())
	assert.True(t, b.Paused())
	assert.Equal(t, StatePaused, b.Status().State)
	_, ok := b.CurrentPiece()
	assert.False(t, ok)

	moved, err := b.MovePiece(DirDown)
	assert.NoError(t, err)
	assert.False(t, moved)
}

func TestNewBoardRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TileSize = 0
	_, err := NewBoard(cfg, nil, nil, NewCycleFactory(StandardKinds()...))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBoard(DefaultConfig(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDescendToFloorScenario(t *testing.T) {
	b, boardSurf, _ := newTestBoard(t, DefaultConfig(), kindByName(t, "O"))

	p, ok := b.CurrentPiece()
	require.True(t, ok)
	require.Equal(t, 5, p.Position)
	require.Equal(t, -1, p.Depth)
	require.Equal(t, 0, p.Orientation)

	var successes, failures int
	for i := 0; i < 15; i++ {
		moved, err := b.MovePiece(DirDown)
		require.NoError(t, err)
		if moved {
			successes++
			cur, _ := b.CurrentPiece()
			assert.Equal(t, i, cur.Depth)
		} else {
			failures++
		}
	}
	assert.Equal(t, 14, successes)
	assert.Equal(t, 1, failures)

	blocks := b.Blocks()
	require.Len(t, blocks, 4)
	for _, blk := range blocks {
		assert.Contains(t, []int{13, 14}, blk.Y)
		assert.Contains(t, []int{6, 7}, blk.X)
	}
	assert.Len(t, boardSurf.tiles, 4)

	next, ok := b.CurrentPiece()
	require.True(t, ok)
	assert.Equal(t, -1, next.Depth)

	moved, err := b.MovePiece(DirDown)
	require.NoError(t, err)
	assert.True(t, moved, "the 16th down moves the replacement piece")
}

func TestLeftAtColumnZeroIsDiscarded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnPosition = 0
	b, _, pieceSurf := newTestBoard(t, cfg, kindByName(t, "J"))

	before, _ := b.CurrentPiece()
	clears := pieceSurf.clears

	moved, err := b.MovePiece(DirLeft)
	require.NoError(t, err)
	assert.False(t, moved)

	after, _ := b.CurrentPiece()
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Orientation, after.Orientation)
	assert.Equal(t, before.Depth, after.Depth)
	assert.Empty(t, b.Blocks())
	assert.Equal(t, clears, pieceSurf.clears, "a rejected move does not redraw")
}

func TestRotationBlockedByWallIsDiscarded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnPosition = 8
	cfg.SpawnDepth = 3
	b, _, _ := newTestBoard(t, cfg, kindByName(t, "I"))

	// Vertical I at column 10, rotating back to horizontal needs columns 9..12.
	moved, err := b.MovePiece(DirClockwise)
	require.NoError(t, err)
	require.True(t, moved)
	moved, err = b.MovePiece(DirRight)
	require.NoError(t, err)
	require.True(t, moved)

	before, _ := b.CurrentPiece()
	moved, err = b.MovePiece(DirCounterClockwise)
	require.NoError(t, err)
	assert.False(t, moved)
	after, _ := b.CurrentPiece()
	assert.Equal(t, before, after)
}

func TestDownLockDeterminism(t *testing.T) {
	for _, k := range StandardKinds() {
		t.Run(k.Name, func(t *testing.T) {
			b, _, _ := newTestBoard(t, DefaultConfig(), k, kindByName(t, "T"))

			var last Piece
			for {
				cur, ok := b.CurrentPiece()
				require.True(t, ok)
				last = cur
				moved, err := b.MovePiece(DirDown)
				require.NoError(t, err)
				if !moved {
					break
				}
			}

			blocks := b.Blocks()
			require.Len(t, blocks, 4)
			for i, c := range last.Cells() {
				assert.Equal(t, c.X, blocks[i].X)
				assert.Equal(t, c.Y, blocks[i].Y)
				assert.Equal(t, k.Color, blocks[i].Color)
			}

			next, ok := b.CurrentPiece()
			require.True(t, ok)
			assert.Equal(t, "T", next.Kind.Name)
			assert.Equal(t, StateActive, b.Status().State)
		})
	}
}

func TestOverflowTrigger(t *testing.T) {
	b, _, pieceSurf := newTestBoard(t, DefaultConfig(), kindByName(t, "O"))

	var events []LockEvent
	b.SetLockListener(func(ev LockEvent) { events = append(events, ev) })

	var err error
	for i := 0; i < 1000 && err == nil; i++ {
		_, err = b.MovePiece(DirDown)
	}
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverflow))

	var overflow *OverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, "O", overflow.Piece.Kind.Name)
	assert.Equal(t, 32, overflow.Blocks)
	assert.Len(t, overflow.Cells, 2)
	for _, c := range overflow.Cells {
		assert.Equal(t, -1, c.Y)
	}

	assert.True(t, b.Paused())
	assert.True(t, b.Overflowed())
	assert.Equal(t, StateOverflow, b.Status().State)
	assert.Len(t, b.Blocks(), 32, "the stack stays inspectable")
	_, ok := b.CurrentPiece()
	assert.False(t, ok)
	assert.Empty(t, pieceSurf.tiles)

	require.Len(t, events, 8)
	assert.True(t, events[7].Overflow)
	assert.False(t, events[6].Overflow)

	assert.False(t, b.Resume(), "an overflowed board cannot resume")

	b.StartGame()
	assert.False(t, b.Paused())
	assert.False(t, b.Overflowed())
	assert.Empty(t, b.Blocks())
}

func TestSpawnOverlapCountsAsOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnDepth = 13
	b, _, _ := newTestBoard(t, cfg, kindByName(t, "O"))

	// First O rests at the floor without moving.
	moved, err := b.MovePiece(DirDown)
	require.NoError(t, err)
	require.False(t, moved)

	// Replacement spawns on top of it and locks in place.
	_, err = b.MovePiece(DirDown)
	require.ErrorIs(t, err, ErrOverflow)
	assert.Len(t, b.Blocks(), 4, "overlapping cells are not duplicated")
	assertNoInterpenetration(t, b.Blocks())
}

func TestWallContainment(t *testing.T) {
	for _, k := range StandardKinds() {
		t.Run(k.Name, func(t *testing.T) {
			b, _, _ := newTestBoard(t, DefaultConfig(), k)
			p, _ := b.CurrentPiece()
			for o := 0; o < k.RotationCount(); o++ {
				for pos := -5; pos < b.Columns()+5; pos++ {
					if !b.CheckMove(pos, 4, o) {
						continue
					}
					for _, c := range p.CellsAt(o, pos, 4) {
						assert.GreaterOrEqual(t, c.X, 0)
						assert.Less(t, c.X, b.Columns())
					}
				}
			}
		})
	}
}

func TestCheckMoveHits(t *testing.T) {
	b, _, _ := newTestBoard(t, DefaultConfig(), kindByName(t, "O"))
	for moved := true; moved; {
		var err error
		moved, err = b.MovePiece(DirDown)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		position int
		depth    int
		want     bool
	}{
		{"open space", 2, 6, true},
		{"above the top", 2, -6, true},
		{"left wall", -2, 6, false},
		{"right wall", 11, 6, false},
		{"floor", 2, 14, false},
		{"stack", 5, 12, false},
		{"beside stack", 7, 13, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.CheckMove(tt.position, tt.depth, 0))
		})
	}
}

func TestNoInterpenetrationUnderRandomPlay(t *testing.T) {
	cfg := DefaultConfig()
	b, err := NewBoard(cfg, nil, nil, NewBagFactory(StandardKinds(), rand.New(rand.NewPCG(7, 11))))
	require.NoError(t, err)
	b.StartGame()
	b.SpawnPiece()

	rng := rand.New(rand.NewPCG(3, 5))
	dirs := []Direction{DirLeft, DirRight, DirDown, DirClockwise, DirCounterClockwise}
	for i := 0; i < 5000; i++ {
		_, err := b.MovePiece(dirs[rng.IntN(len(dirs))])
		if err != nil {
			require.ErrorIs(t, err, ErrOverflow)
			break
		}
		if p, ok := b.CurrentPiece(); ok {
			for _, c := range p.Cells() {
				require.GreaterOrEqual(t, c.X, 0)
				require.Less(t, c.X, cfg.Columns())
			}
		}
	}
	assertNoInterpenetration(t, b.Blocks())
}

func assertNoInterpenetration(t *testing.T, blocks []Block) {
	t.Helper()
	seen := make(map[Point]bool, len(blocks))
	for _, blk := range blocks {
		p := Point{blk.X, blk.Y}
		assert.False(t, seen[p], "duplicate block at %v", p)
		seen[p] = true
	}
}

func TestLockRedrawsWholeStack(t *testing.T) {
	b, boardSurf, _ := newTestBoard(t, DefaultConfig(), kindByName(t, "O"), kindByName(t, "I"))

	lock := func() {
		for {
			moved, err := b.MovePiece(DirDown)
			require.NoError(t, err)
			if !moved {
				return
			}
		}
	}
	lock()
	assert.Equal(t, 2, boardSurf.clears) // StartGame + first lock
	assert.Len(t, boardSurf.tiles, 4)

	lock()
	assert.Equal(t, 3, boardSurf.clears)
	assert.Len(t, boardSurf.tiles, 8)
	for _, tile := range boardSurf.tiles {
		assert.Equal(t, 40, tile.Size)
	}
}

func TestMovePieceRendersPiece(t *testing.T) {
	b, _, pieceSurf := newTestBoard(t, DefaultConfig(), kindByName(t, "T"))
	require.Len(t, pieceSurf.tiles, 4)

	moved, err := b.MovePiece(DirRight)
	require.NoError(t, err)
	require.True(t, moved)

	p, _ := b.CurrentPiece()
	require.Len(t, pieceSurf.tiles, 4)
	for i, c := range p.Cells() {
		assert.Equal(t, c.X, pieceSurf.tiles[i].X)
		assert.Equal(t, c.Y, pieceSurf.tiles[i].Y)
		assert.Equal(t, p.Kind.Color, pieceSurf.tiles[i].Color)
	}
}

func TestMovePieceInvalidDirection(t *testing.T) {
	b, _, _ := newTestBoard(t, DefaultConfig(), kindByName(t, "T"))
	before, _ := b.CurrentPiece()

	_, err := b.MovePiece(Direction(42))
	assert.ErrorIs(t, err, ErrInvalidDirection)

	after, _ := b.CurrentPiece()
	assert.Equal(t, before, after)
}

func TestDropPieceSpeed(t *testing.T) {
	b, _, _ := newTestBoard(t, DefaultConfig(), kindByName(t, "T"))
	assert.Equal(t, DefaultNormalSpeed, b.Speed())

	b.DropPiece(true)
	assert.Equal(t, DefaultSoftDropSpeed, b.Speed())
	assert.True(t, b.Status().SoftDrop)

	b.DropPiece(false)
	assert.Equal(t, DefaultNormalSpeed, b.Speed())

	assert.True(t, b.ToggleSoftDrop())
	assert.Equal(t, DefaultSoftDropSpeed, b.Speed())
	assert.False(t, b.ToggleSoftDrop())

	b.ToggleSoftDrop()
	b.StartGame()
	assert.Equal(t, DefaultNormalSpeed, b.Speed(), "a new game starts at normal speed")
}

func TestStartGameClearsSurfaces(t *testing.T) {
	b, boardSurf, pieceSurf := newTestBoard(t, DefaultConfig(), kindByName(t, "T"))
	boardClears, pieceClears := boardSurf.clears, pieceSurf.clears

	b.StartGame()
	assert.Equal(t, boardClears+1, boardSurf.clears)
	assert.Equal(t, pieceClears+1, pieceSurf.clears)
	assert.Equal(t, StateNoPiece, b.Status().State)
}
