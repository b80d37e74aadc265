// Package pathfind computes shortest obstacle-avoiding routes on a 4-neighbour grid.
package pathfind

import (
	"container/heap"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
)

// Graph supplies adjacency for the search.
type Graph interface {
	Neighbors4(c grid.Cell) []grid.Cell
}

// BlockedFunc reports whether a cell may not be entered.
// Callers report static obstacles and out-of-bounds cells; transient
// robot occupancy is left to the movement engine.
type BlockedFunc func(c grid.Cell) bool

// node is a frontier entry.
type node struct {
	cell grid.Cell
	f    int   // g + h
	h    int   // heuristic to goal
	seq  int64 // insertion order
}

// frontier implements heap.Interface ordered by (f, h, seq).
// Preferring the lower h among equal f keeps the search pointed at the goal;
// seq makes the remaining ties depend on insertion order only, which is fixed
// by the Neighbors4 ordering, so the returned path is deterministic.
type frontier []node

func (fr frontier) Len() int { return len(fr) }
func (fr frontier) Less(i, j int) bool {
	if fr[i].f != fr[j].f {
		return fr[i].f < fr[j].f
	}
	if fr[i].h != fr[j].h {
		return fr[i].h < fr[j].h
	}
	return fr[i].seq < fr[j].seq
}
func (fr frontier) Swap(i, j int) { fr[i], fr[j] = fr[j], fr[i] }

func (fr *frontier) Push(x any) {
	*fr = append(*fr, x.(node))
}

func (fr *frontier) Pop() any {
	old := *fr
	n := len(old)
	item := old[n-1]
	*fr = old[0 : n-1]
	return item
}

// FindPath runs A* with the Manhattan heuristic from start to goal.
//
// The returned path excludes start and includes goal, in traversal order.
// It is empty when start == goal or when goal cannot be reached; callers
// treat the latter as "currently unreachable". A blocked goal is unreachable.
// The start cell itself is never tested against isBlocked.
func FindPath(g Graph, start, goal grid.Cell, isBlocked BlockedFunc) []grid.Cell {
	if start == goal {
		return nil
	}
	if isBlocked(goal) {
		return nil
	}

	cameFrom := map[grid.Cell]grid.Cell{}
	costSoFar := map[grid.Cell]int{start: 0}
	closed := map[grid.Cell]bool{}

	var seq int64
	open := &frontier{}
	h0 := grid.Manhattan(start, goal)
	heap.Push(open, node{cell: start, f: h0, h: h0, seq: seq})

	found := false
	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		if closed[cur.cell] {
			continue
		}
		if cur.cell == goal {
			found = true
			break
		}
		closed[cur.cell] = true

		for _, next := range g.Neighbors4(cur.cell) {
			if closed[next] || isBlocked(next) {
				continue
			}
			newCost := costSoFar[cur.cell] + 1
			if old, ok := costSoFar[next]; ok && newCost >= old {
				continue
			}
			costSoFar[next] = newCost
			cameFrom[next] = cur.cell
			seq++
			h := grid.Manhattan(next, goal)
			heap.Push(open, node{cell: next, f: newCost + h, h: h, seq: seq})
		}
	}
	if !found {
		return nil
	}

	path := make([]grid.Cell, 0, costSoFar[goal])
	for c := goal; c != start; c = cameFrom[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
