package maze

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/maze-escape/internal/apperrors"
)

// Source supplies uniform random integers in [0, n). *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generate carves a perfect maze with a randomized depth-first backtracker.
// The stack is explicit so large grids do not grow the goroutine stack.
// A nil rng draws from the package-level generator.
func Generate(rows, cols int, rng Source) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", apperrors.ErrInvalidDimensions, rows, cols)
	}
	if rng == nil {
		rng = globalSource{}
	}

	g := newGrid(rows, cols)
	visited := make([]bool, rows*cols)
	stack := make([]Point, 0, rows*cols)

	visited[0] = true
	stack = append(stack, g.Origin())

	var candidates [4]Direction
	for len(stack) > 0 {
		current := stack[len(stack)-1]

		n := 0
		for _, d := range Directions {
			next := current.Add(d)
			if g.InBounds(next) && !visited[next.Y*cols+next.X] {
				candidates[n] = d
				n++
			}
		}
		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.IntN(n)]
		next := current.Add(d)
		g.carve(current, d)
		visited[next.Y*cols+next.X] = true
		stack = append(stack, next)
	}

	return g, nil
}
