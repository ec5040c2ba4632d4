package maze

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/maze-escape/internal/apperrors"
)

func TestGrid_CarveIsShared(t *testing.T) {
	t.Parallel()

	g := newGrid(3, 3)
	assert.Equal(t, 0, g.Passages())

	g.carve(Point{1, 1}, Up)
	assert.True(t, g.Open(Point{1, 1}, Up))
	assert.True(t, g.Open(Point{1, 0}, Down))
	assert.False(t, g.Walls(Point{1, 1}).Top)
	assert.False(t, g.Walls(Point{1, 0}).Bottom)

	g.carve(Point{2, 2}, Left)
	assert.True(t, g.Open(Point{1, 2}, Right))
	assert.Equal(t, 2, g.Passages())
}

func TestGrid_BoundaryAlwaysClosed(t *testing.T) {
	t.Parallel()

	g := newGrid(2, 2)
	g.carve(Point{0, 0}, Up)
	g.carve(Point{0, 0}, Left)
	g.carve(Point{1, 1}, Right)
	g.carve(Point{1, 1}, Down)

	assert.Equal(t, 0, g.Passages())
	assert.False(t, g.Open(Point{0, 0}, Up))
	assert.False(t, g.Open(Point{-1, 0}, Right))
}

func TestGrid_Accessors(t *testing.T) {
	t.Parallel()

	g := newGrid(4, 6)
	assert.Equal(t, 4, g.Rows())
	assert.Equal(t, 6, g.Cols())
	assert.Equal(t, Point{0, 0}, g.Origin())
	assert.Equal(t, Point{5, 3}, g.Exit())
	assert.True(t, g.InBounds(Point{5, 3}))
	assert.False(t, g.InBounds(Point{6, 3}))
	assert.False(t, g.InBounds(Point{0, -1}))

	cells := g.Cells()
	require.Len(t, cells, 4)
	require.Len(t, cells[0], 6)
	assert.Equal(t, Walls{true, true, true, true}, cells[3][2])
	assert.Equal(t, 1, g.Reachable())
}

func TestDirection_Delta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir    Direction
		dx, dy int
		name   string
	}{
		{Up, 0, -1, "up"},
		{Down, 0, 1, "down"},
		{Left, -1, 0, "left"},
		{Right, 1, 0, "right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dx, dy := tt.dir.Delta()
			assert.Equal(t, tt.dx, dx)
			assert.Equal(t, tt.dy, dy)
			assert.Equal(t, tt.name, tt.dir.String())
			assert.True(t, tt.dir.Valid())

			back, ok := DirectionOf(tt.dx, tt.dy)
			assert.True(t, ok)
			assert.Equal(t, tt.dir, back)

			parsed, err := ParseDirection(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.dir, parsed)

			assert.Equal(t, tt.dir, tt.dir.Opposite().Opposite())
			assert.NotEqual(t, tt.dir, tt.dir.Opposite())
		})
	}
}

func TestDirectionOf_RejectsOtherVectors(t *testing.T) {
	t.Parallel()

	for _, v := range [][2]int{{0, 0}, {1, 1}, {2, 0}, {0, -2}, {-1, 1}} {
		_, ok := DirectionOf(v[0], v[1])
		assert.False(t, ok, "%v", v)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection("  LEFT ")
	require.NoError(t, err)
	assert.Equal(t, Left, d)

	_, err = ParseDirection("north")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDirection))
	assert.False(t, Direction(9).Valid())
	assert.Equal(t, "Direction(9)", Direction(9).String())
}

func TestPoint_Add(t *testing.T) {
	t.Parallel()

	p := Point{X: 3, Y: 4}
	assert.Equal(t, Point{3, 3}, p.Add(Up))
	assert.Equal(t, Point{4, 4}, p.Add(Right))
	assert.Equal(t, "(3,4)", p.String())
}
