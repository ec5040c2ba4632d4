package maze

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/maze-escape/internal/apperrors"
	"github.com/palemoky/maze-escape/internal/testutil"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// assertPerfect checks the spanning-tree property, connectivity and wall symmetry.
func assertPerfect(t *testing.T, g *Grid) {
	t.Helper()

	cells := g.Rows() * g.Cols()
	assert.Equal(t, cells-1, g.Passages(), "open edges")
	assert.Equal(t, cells, g.Reachable(), "reachable cells")

	grid := g.Cells()
	for y := range grid {
		for x := range grid[y] {
			w := grid[y][x]
			if x+1 < g.Cols() {
				assert.Equal(t, w.Right, grid[y][x+1].Left, "right/left at %d,%d", x, y)
			} else {
				assert.True(t, w.Right, "east boundary at %d,%d", x, y)
			}
			if y+1 < g.Rows() {
				assert.Equal(t, w.Bottom, grid[y+1][x].Top, "bottom/top at %d,%d", x, y)
			} else {
				assert.True(t, w.Bottom, "south boundary at %d,%d", x, y)
			}
			if x == 0 {
				assert.True(t, w.Left)
			}
			if y == 0 {
				assert.True(t, w.Top)
			}
		}
	}
}

func TestGenerate_PerfectMaze(t *testing.T) {
	t.Parallel()

	sizes := []struct {
		rows, cols int
	}{
		{1, 1}, {1, 7}, {7, 1}, {2, 2}, {3, 5}, {10, 10}, {13, 7}, {40, 60},
	}

	for _, size := range sizes {
		for seed := uint64(1); seed <= 5; seed++ {
			t.Run(fmt.Sprintf("%dx%d/seed=%d", size.rows, size.cols, seed), func(t *testing.T) {
				t.Parallel()
				g, err := Generate(size.rows, size.cols, seeded(seed))
				require.NoError(t, err)
				assert.Equal(t, size.rows, g.Rows())
				assert.Equal(t, size.cols, g.Cols())
				assertPerfect(t, g)
			})
		}
	}
}

func TestGenerate_LargeGrid(t *testing.T) {
	t.Parallel()

	// A long corridor forces the explicit stack to its full depth.
	g, err := Generate(1, 20000, seeded(42))
	require.NoError(t, err)
	assertPerfect(t, g)

	g, err = Generate(300, 300, seeded(7))
	require.NoError(t, err)
	assertPerfect(t, g)
}

func TestGenerate_NilSource(t *testing.T) {
	t.Parallel()

	g, err := Generate(6, 9, nil)
	require.NoError(t, err)
	assertPerfect(t, g)
}

func TestGenerate_InvalidDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 5},
		{"zero cols", 5, 0},
		{"negative rows", -1, 3},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, err := Generate(tt.rows, tt.cols, seeded(1))
			assert.Nil(t, g)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidDimensions))
			assert.Equal(t, apperrors.CodeInvalidDimensions, apperrors.CodeOf(err))
		})
	}
}

func TestGenerate_SingleCell(t *testing.T) {
	t.Parallel()

	g, err := Generate(1, 1, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, g.Origin(), g.Exit())
	assert.Equal(t, 0, g.Passages())
	assert.Equal(t, Walls{Top: true, Right: true, Bottom: true, Left: true}, g.Walls(g.Origin()))
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := Generate(12, 12, seeded(99))
	require.NoError(t, err)
	b, err := Generate(12, 12, seeded(99))
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestGenerate_FirstCandidateLayout(t *testing.T) {
	t.Parallel()

	// Always taking the first unvisited neighbour (up, right, down, left)
	// carves right, then down, then left.
	g, err := Generate(2, 2, testutil.FirstSource{})
	require.NoError(t, err)

	expected := "" +
		"+---+---+\n" +
		"|       |\n" +
		"+---+   +\n" +
		"|       |\n" +
		"+---+---+\n"
	assert.Equal(t, expected, g.String())

	assert.True(t, g.Open(Point{0, 0}, Right))
	assert.False(t, g.Open(Point{0, 0}, Down))
	assert.True(t, g.Open(Point{1, 0}, Down))
	assert.True(t, g.Open(Point{1, 1}, Left))
}
