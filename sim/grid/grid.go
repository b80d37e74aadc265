// Package grid provides the bounded, discrete warehouse floor.
// It stores occupant references only; entity state lives in package sim.
package grid

import (
	"fmt"
	"slices"
)

// Cell is an integer grid coordinate.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns the 4-neighbour distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Kind enumerates everything that may occupy a cell.
type Kind int

const (
	KindRobot       Kind = iota // mobile agent
	KindShelf                   // storage node, static obstacle
	KindTruck                   // truck container at its stop cell, passable
	KindTruckMarker             // visual truck body, static obstacle
)

func (k Kind) String() string {
	switch k {
	case KindRobot:
		return "robot"
	case KindShelf:
		return "shelf"
	case KindTruck:
		return "truck"
	case KindTruckMarker:
		return "truck-marker"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsStaticObstacle reports whether pathing may never cross a cell holding this kind.
func (k Kind) IsStaticObstacle() bool {
	return k == KindShelf || k == KindTruckMarker
}

// Occupant is a tagged reference to an entity placed on the grid.
type Occupant struct {
	ID   int
	Kind Kind
}

// Grid tracks which occupants sit in which cell.
// Every placed occupant appears in exactly one cell.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Grid struct {
	width  int
	height int
	cells  [][]Occupant // row-major, index y*width+x
	where  map[int]Cell // occupant ID -> cell
}

// New creates an empty grid. Non-positive dimensions produce an error.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([][]Occupant, width*height),
		where:  make(map[int]Cell),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.width + c.X
}

// Place adds an occupant to a cell.
func (g *Grid) Place(o Occupant, c Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("place %s #%d: cell %s out of bounds", o.Kind, o.ID, c)
	}
	if prev, ok := g.where[o.ID]; ok {
		return fmt.Errorf("place %s #%d: already placed at %s", o.Kind, o.ID, prev)
	}
	i := g.index(c)
	g.cells[i] = append(g.cells[i], o)
	g.where[o.ID] = c
	return nil
}

// Move relocates a placed occupant. The grid is left untouched on error.
func (g *Grid) Move(id int, to Cell) error {
	from, ok := g.where[id]
	if !ok {
		return fmt.Errorf("move #%d: not placed", id)
	}
	if !g.InBounds(to) {
		return fmt.Errorf("move #%d: cell %s out of bounds", id, to)
	}
	if from == to {
		return nil
	}
	o := g.detach(id, from)
	i := g.index(to)
	g.cells[i] = append(g.cells[i], o)
	g.where[id] = to
	return nil
}

// Remove takes an occupant off the grid. Unknown IDs are ignored.
func (g *Grid) Remove(id int) {
	from, ok := g.where[id]
	if !ok {
		return
	}
	g.detach(id, from)
	delete(g.where, id)
}

func (g *Grid) detach(id int, from Cell) Occupant {
	i := g.index(from)
	cell := g.cells[i]
	for j, o := range cell {
		if o.ID == id {
			g.cells[i] = slices.Delete(cell, j, j+1)
			return o
		}
	}
	panic(fmt.Sprintf("grid index out of sync: #%d recorded at %s but not found there", id, from))
}

// Occupants returns a copy of the occupants of c, in placement order.
// Out-of-bounds cells have no occupants.
func (g *Grid) Occupants(c Cell) []Occupant {
	if !g.InBounds(c) {
		return nil
	}
	return slices.Clone(g.cells[g.index(c)])
}

// PositionOf returns the cell currently holding the occupant.
func (g *Grid) PositionOf(id int) (Cell, bool) {
	c, ok := g.where[id]
	return c, ok
}

// Neighbors4 returns the in-bounds orthogonal neighbours of c,
// ordered up, right, down, left.
func (g *Grid) Neighbors4(c Cell) []Cell {
	candidates := [4]Cell{
		{c.X, c.Y - 1},
		{c.X + 1, c.Y},
		{c.X, c.Y + 1},
		{c.X - 1, c.Y},
	}
	out := make([]Cell, 0, 4)
	for _, n := range candidates {
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// HasStaticObstacle reports whether c holds a shelf or truck marker.
func (g *Grid) HasStaticObstacle(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	for _, o := range g.cells[g.index(c)] {
		if o.Kind.IsStaticObstacle() {
			return true
		}
	}
	return false
}

// RobotAt returns the ID of a robot in c other than except, if any.
func (g *Grid) RobotAt(c Cell, except int) (int, bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	for _, o := range g.cells[g.index(c)] {
		if o.Kind == KindRobot && o.ID != except {
			return o.ID, true
		}
	}
	return 0, false
}

// CountKind returns how many occupants of kind sit in c.
func (g *Grid) CountKind(c Cell, kind Kind) int {
	if !g.InBounds(c) {
		return 0
	}
	n := 0
	for _, o := range g.cells[g.index(c)] {
		if o.Kind == kind {
			n++
		}
	}
	return n
}
