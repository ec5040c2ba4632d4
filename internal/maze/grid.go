/*
Package maze generates rectangular perfect mazes.

A Grid stores one flag per interior edge rather than four flags per cell, so
the wall between two neighbours reads the same from both sides. Cells are
addressed as Point{X: col, Y: row} with the origin at the top-left; the exit
is the bottom-right cell.
*/
package maze

import "strings"

// Walls reports which sides of a cell are closed.
type Walls struct {
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
}

// Closed reports whether the wall on side d is closed.
func (w Walls) Closed(d Direction) bool {
	switch d {
	case Up:
		return w.Top
	case Right:
		return w.Right
	case Down:
		return w.Bottom
	case Left:
		return w.Left
	}
	return true
}

// Grid is a rows x cols maze. It is immutable once Generate returns.
type Grid struct {
	rows int
	cols int
	// east[y*cols+x] is open when (x,y) and (x+1,y) are connected.
	east []bool
	// south[y*cols+x] is open when (x,y) and (x,y+1) are connected.
	south []bool
}

// newGrid returns a grid with every wall closed.
func newGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		east:  make([]bool, rows*cols),
		south: make([]bool, rows*cols),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Origin returns the start cell.
func (g *Grid) Origin() Point { return Point{} }

// Exit returns the bottom-right cell.
func (g *Grid) Exit() Point { return Point{X: g.cols - 1, Y: g.rows - 1} }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.cols && p.Y >= 0 && p.Y < g.rows
}

// edge resolves the flag shared by p and its neighbour in direction d.
// ok is false when the neighbour is outside the grid.
func (g *Grid) edge(p Point, d Direction) (flags []bool, idx int, ok bool) {
	if !g.InBounds(p) || !g.InBounds(p.Add(d)) {
		return nil, 0, false
	}
	switch d {
	case Right:
		return g.east, p.Y*g.cols + p.X, true
	case Down:
		return g.south, p.Y*g.cols + p.X, true
	case Left, Up:
		// stored on the neighbour's east or south side
		return g.edge(p.Add(d), d.Opposite())
	}
	return nil, 0, false
}

// Open reports whether a passage leads from p in direction d. Boundary
// sides are always closed.
func (g *Grid) Open(p Point, d Direction) bool {
	flags, idx, ok := g.edge(p, d)
	return ok && flags[idx]
}

// carve opens the wall between p and its neighbour in direction d.
func (g *Grid) carve(p Point, d Direction) {
	if flags, idx, ok := g.edge(p, d); ok {
		flags[idx] = true
	}
}

// Walls returns the wall flags of the cell at p.
func (g *Grid) Walls(p Point) Walls {
	return Walls{
		Top:    !g.Open(p, Up),
		Right:  !g.Open(p, Right),
		Bottom: !g.Open(p, Down),
		Left:   !g.Open(p, Left),
	}
}

// Cells returns the wall flags of every cell, indexed [row][col]. The
// result is a copy.
func (g *Grid) Cells() [][]Walls {
	cells := make([][]Walls, g.rows)
	for y := range cells {
		cells[y] = make([]Walls, g.cols)
		for x := range cells[y] {
			cells[y][x] = g.Walls(Point{X: x, Y: y})
		}
	}
	return cells
}

// Passages counts the open edges. A perfect maze has rows*cols-1.
func (g *Grid) Passages() int {
	n := 0
	for i := range g.east {
		if g.east[i] {
			n++
		}
		if g.south[i] {
			n++
		}
	}
	return n
}

// Reachable returns how many cells can be reached from the origin
// through open passages.
func (g *Grid) Reachable() int {
	seen := make([]bool, g.rows*g.cols)
	queue := []Point{g.Origin()}
	seen[0] = true
	count := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		count++
		for _, d := range Directions {
			if !g.Open(p, d) {
				continue
			}
			n := p.Add(d)
			if i := n.Y*g.cols + n.X; !seen[i] {
				seen[i] = true
				queue = append(queue, n)
			}
		}
	}
	return count
}

// String draws the maze with ASCII walls.
func (g *Grid) String() string {
	var sb strings.Builder

	sb.WriteString("+" + strings.Repeat("---+", g.cols) + "\n")
	for y := 0; y < g.rows; y++ {
		sb.WriteString("|")
		for x := 0; x < g.cols; x++ {
			if g.Open(Point{X: x, Y: y}, Right) {
				sb.WriteString("    ")
			} else {
				sb.WriteString("   |")
			}
		}
		sb.WriteString("\n+")
		for x := 0; x < g.cols; x++ {
			if g.Open(Point{X: x, Y: y}, Down) {
				sb.WriteString("   +")
			} else {
				sb.WriteString("---+")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
