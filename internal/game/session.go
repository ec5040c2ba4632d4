// Package game runs a single-player maze escape on top of a generated grid.
package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/palemoky/maze-escape/internal/maze"
)

// State is the phase of a game.
type State int

const (
	StateInProgress State = iota
	StateWon
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateWon:
		return "won"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MoveResult describes what a move attempt did. Every result other than
// MoveMoved and MoveEscaped left the session untouched.
type MoveResult int

const (
	MoveIgnored     MoveResult = iota // game over, or not a cardinal direction
	MoveOutOfBounds                   // target outside the grid
	MoveBlocked                       // wall in the way
	MoveMoved
	MoveEscaped // moved onto the exit
)

func (r MoveResult) String() string {
	switch r {
	case MoveIgnored:
		return "ignored"
	case MoveOutOfBounds:
		return "out_of_bounds"
	case MoveBlocked:
		return "blocked"
	case MoveMoved:
		return "moved"
	case MoveEscaped:
		return "escaped"
	}
	return fmt.Sprintf("MoveResult(%d)", int(r))
}

// WinMessage is the terminal message shown after escaping in n moves.
func WinMessage(moves int) string {
	return fmt.Sprintf("Congratulations on escaping the maze! Moves: %d.", moves)
}

// Session owns one maze and the player walking it. It is not safe for
// concurrent use; callers deliver one input at a time.
type Session struct {
	rows      int
	cols      int
	newSource SourceFactory

	gameID  string
	grid    *maze.Grid
	player  maze.Point
	moves   int
	message string
	state   State
}

// NewSession validates the dimensions and starts the first game.
func NewSession(rows, cols int, newSource SourceFactory) (*Session, error) {
	if newSource == nil {
		newSource = ClockSource()
	}
	grid, err := maze.Generate(rows, cols, newSource())
	if err != nil {
		return nil, err
	}

	s := &Session{rows: rows, cols: cols, newSource: newSource}
	s.start(grid)
	return s, nil
}

// Reset replaces the maze and the player state with a fresh game.
func (s *Session) Reset() {
	grid, err := maze.Generate(s.rows, s.cols, s.newSource())
	if err != nil {
		// rows and cols were validated by NewSession
		panic(err)
	}
	s.start(grid)
}

func (s *Session) start(grid *maze.Grid) {
	s.gameID = uuid.New().String()
	s.grid = grid
	s.player = grid.Origin()
	s.moves = 0
	s.message = ""
	s.state = StateInProgress

	// A 1x1 maze starts on its exit.
	if s.player == grid.Exit() {
		s.win()
	}
}

func (s *Session) win() {
	s.state = StateWon
	s.message = WinMessage(s.moves)
}

// AttemptMove moves the player one cell in direction d when the passage is
// open. Illegal moves are silently absorbed.
func (s *Session) AttemptMove(d maze.Direction) MoveResult {
	if !d.Valid() {
		return MoveIgnored
	}
	dx, dy := d.Delta()
	return s.Move(dx, dy)
}

// Move is AttemptMove expressed as a unit vector. Vectors other than the
// four cardinal ones are ignored.
func (s *Session) Move(dx, dy int) MoveResult {
	d, ok := maze.DirectionOf(dx, dy)
	if !ok || s.state == StateWon {
		return MoveIgnored
	}

	target := s.player.Add(d)
	if !s.grid.InBounds(target) {
		return MoveOutOfBounds
	}
	if s.grid.Walls(s.player).Closed(d) {
		return MoveBlocked
	}

	s.player = target
	s.moves++

	if target == s.grid.Exit() {
		s.win()
		return MoveEscaped
	}
	return MoveMoved
}

// GameID identifies the current game; it changes on every Reset.
func (s *Session) GameID() string { return s.gameID }

// Grid returns the current maze.
func (s *Session) Grid() *maze.Grid { return s.grid }

// Player returns the player's cell.
func (s *Session) Player() maze.Point { return s.player }

// Moves returns the number of legal moves made in this game.
func (s *Session) Moves() int { return s.moves }

// Message returns the terminal message, empty while the game is running.
func (s *Session) Message() string { return s.message }

func (s *Session) State() State { return s.state }
func (s *Session) Won() bool    { return s.state == StateWon }
func (s *Session) Rows() int    { return s.rows }
func (s *Session) Cols() int    { return s.cols }
