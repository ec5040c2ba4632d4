package game

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/palemoky/maze-escape/internal/maze"
)

// SourceFactory returns the random source for the next maze.
type SourceFactory func() maze.Source

// ClockSource seeds every maze from the wall clock.
func ClockSource() SourceFactory {
	return func() maze.Source {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, rand.Uint64()))
	}
}

// SeededSource yields reproducible mazes: the first uses seed, each later
// one seed+1, seed+2 and so on.
func SeededSource(seed uint64) SourceFactory {
	var n atomic.Uint64
	return func() maze.Source {
		s := seed + n.Add(1) - 1
		return rand.New(rand.NewPCG(s, s))
	}
}

// FixedSource hands the same source to every maze.
func FixedSource(src maze.Source) SourceFactory {
	return func() maze.Source { return src }
}
