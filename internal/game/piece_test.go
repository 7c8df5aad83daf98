package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindByName(t *testing.T, name string) *Kind {
	t.Helper()
	for _, k := range StandardKinds() {
		if k.Name == name {
			return k
		}
	}
	t.Fatalf("no standard kind %q", name)
	return nil
}

func TestStandardKindsValid(t *testing.T) {
	kinds := StandardKinds()
	require.Len(t, kinds, 7)
	for _, k := range kinds {
		assert.NoError(t, k.Validate(), k.Name)
	}
}

func TestOrientationWrap(t *testing.T) {
	for _, k := range StandardKinds() {
		t.Run(k.Name, func(t *testing.T) {
			p := NewPiece(k, 0, 5, -1, 40)
			n := p.RotationCount()

			o := p.Orientation
			for i := 0; i < n; i++ {
				o = p.Rotate(o, 1)
				assert.GreaterOrEqual(t, o, 0)
				assert.Less(t, o, n)
			}
			assert.Equal(t, p.Orientation, o, "%d clockwise turns should return to start", n)

			assert.Equal(t, n-1, p.Rotate(0, -1))
		})
	}
}

func TestRotationCountsDiffer(t *testing.T) {
	counts := map[string]int{"I": 2, "O": 1, "T": 4, "S": 2, "Z": 2, "J": 4, "L": 4}
	for name, want := range counts {
		assert.Equal(t, want, kindByName(t, name).RotationCount(), name)
	}
}

func TestNewPieceWrapsOrientation(t *testing.T) {
	p := NewPiece(kindByName(t, "T"), 6, 0, 0, 40)
	assert.Equal(t, 2, p.Orientation)

	p = NewPiece(kindByName(t, "T"), -1, 0, 0, 40)
	assert.Equal(t, 3, p.Orientation)
}

func TestCellsAtIsPure(t *testing.T) {
	p := NewPiece(kindByName(t, "L"), 0, 5, -1, 40)
	before := *p

	cells := p.CellsAt(1, 2, 3)
	assert.Equal(t, [4]Point{{3, 3}, {3, 4}, {3, 5}, {4, 5}}, cells)
	assert.Equal(t, before, *p)

	assert.Equal(t, p.CellsAt(p.Orientation, p.Position, p.Depth), p.Cells())
	assert.Equal(t, [4]Point{{7, -1}, {5, 0}, {6, 0}, {7, 0}}, p.Cells())
}

func TestKindValidate(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"no name", Kind{Rotations: []Shape{shape(0, 0, 1, 0, 2, 0, 3, 0)}}},
		{"no rotations", Kind{Name: "X"}},
		{"repeated cell", Kind{Name: "X", Rotations: []Shape{shape(0, 0, 0, 0, 1, 0, 2, 0)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.kind.Validate())
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"left", DirLeft},
		{"RIGHT", DirRight},
		{" down ", DirDown},
		{"clockwise", DirClockwise},
		{"cw", DirClockwise},
		{"counterclockwise", DirCounterClockwise},
		{"ccw", DirCounterClockwise},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}

	_, err := ParseDirection("dwon")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#0a80ff", Color{10, 128, 255}.Hex())
}
