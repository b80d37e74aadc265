// Implements Path, the FIFO of cells a robot still has to traverse.

package sim

import (
	"fmt"
	"strings"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
)

// Path is the remaining route of a robot. The head is the next hop.
type Path struct {
	cells []grid.Cell
}

// Reset replaces the route. The slice is copied.
func (p *Path) Reset(cells []grid.Cell) {
	p.cells = append(p.cells[:0], cells...)
}

// Len returns the number of hops left.
func (p *Path) Len() int {
	return len(p.cells)
}

// Peek returns the next hop without removing it.
func (p *Path) Peek() (grid.Cell, bool) {
	if len(p.cells) == 0 {
		return grid.Cell{}, false
	}
	return p.cells[0], true
}

// Pop removes and returns the next hop.
func (p *Path) Pop() (grid.Cell, bool) {
	if len(p.cells) == 0 {
		return grid.Cell{}, false
	}
	c := p.cells[0]
	p.cells = p.cells[1:]
	return c, true
}

// Cells returns a copy of the remaining route.
func (p *Path) Cells() []grid.Cell {
	return append([]grid.Cell(nil), p.cells...)
}

func (p *Path) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, c := range p.cells {
		sb.WriteString(fmt.Sprint(c))
		if i < len(p.cells)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
