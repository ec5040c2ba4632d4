// Package testutil holds shared test doubles.
package testutil

// FirstSource always picks the first candidate neighbour. On a 2x2 grid
// it carves right, down, left, leaving the origin's south wall closed:
//
//	+---+---+
//	|       |
//	+---+   +
//	|       |
//	+---+---+
type FirstSource struct{}

func (FirstSource) IntN(int) int { return 0 }
