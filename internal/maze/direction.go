package maze

import (
	"fmt"
	"strings"

	"github.com/palemoky/maze-escape/internal/apperrors"
)

// Direction is one of the four cardinal moves.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every direction in the order neighbours are scanned
// during generation.
var Directions = [4]Direction{Up, Right, Down, Left}

// Delta returns the coordinate offset of the direction. The origin is the
// top-left cell, so Up decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	default:
		return Right
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// DirectionOf maps a unit vector back to its direction. Any vector other
// than the four cardinal unit vectors reports false.
func DirectionOf(dx, dy int) (Direction, bool) {
	for _, d := range Directions {
		if x, y := d.Delta(); x == dx && y == dy {
			return d, true
		}
	}
	return 0, false
}

// ParseDirection accepts "up", "down", "left" and "right" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "right":
		return Right, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	}
	return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, s)
}

// Point is a cell coordinate: x is the column, y the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the neighbouring point in direction d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
