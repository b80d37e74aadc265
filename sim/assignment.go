package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
	"github.com/warehouse-sim/warehouse-sim/sim/pathfind"
)

// assign picks the next destination for r and paths to it.
// Empty-handed robots get a pickup target (or a wander step); loaded robots a delivery target.
func (s *Simulator) assign(r *Robot) {
	pos := s.PositionOf(r)
	if r.Carrying == nil {
		s.assignPickup(r, pos)
	} else {
		s.assignDelivery(r, pos)
	}
}

func (s *Simulator) assignPickup(r *Robot, pos grid.Cell) {
	switch r.Role {
	case RoleStorage:
		if s.Inbound.Len() > 0 {
			s.routeTo(r, pos, s.Inbound.Stop)
			return
		}
		s.assignWander(r, pos)
	case RoleLoading:
		shelf := s.nearestShelf(pos, func(sh *Shelf) bool { return sh.Load() > 0 })
		if shelf == nil {
			return
		}
		s.routeTo(r, pos, shelf.Stop)
	}
}

// assignDelivery follows the phase policy for every loaded robot, falling back
// to the outbound truck when every shelf is full.
func (s *Simulator) assignDelivery(r *Robot, pos grid.Cell) {
	if s.State.Phase.ShouldDeliverToLoadTruck(s.State.TimeElapsed) {
		s.routeTo(r, pos, s.Outbound.Stop)
		return
	}
	shelf := s.nearestShelf(pos, func(sh *Shelf) bool { return !sh.Full() })
	if shelf == nil {
		s.routeTo(r, pos, s.Outbound.Stop)
		return
	}
	logrus.Debugf("Robot %d assigned to stop %s for shelf at %s", r.ID, shelf.Stop, shelf.Pos)
	s.routeTo(r, pos, shelf.Stop)
}

// assignWander moves an idle robot to a random free neighbour so it clears
// approach lanes. A robot with no free neighbour stays put without a task.
func (s *Simulator) assignWander(r *Robot, pos grid.Cell) {
	free := s.freeNeighbors(pos, r.ID)
	if len(free) == 0 {
		logrus.Debugf("Robot %d has no valid positions to move to. Staying in place.", r.ID)
		return
	}
	target := free[s.rng.ForSubsystem(SubsystemWander).Intn(len(free))]
	s.routeTo(r, pos, target)
}

// nearestShelf returns the matching shelf with the smallest Manhattan distance
// to pos. Ties go to the shelf created first.
func (s *Simulator) nearestShelf(pos grid.Cell, match func(*Shelf) bool) *Shelf {
	var best *Shelf
	bestDist := 0
	for _, shelf := range s.Shelves {
		if !match(shelf) {
			continue
		}
		d := grid.Manhattan(pos, shelf.Pos)
		if best == nil || d < bestDist {
			best, bestDist = shelf, d
		}
	}
	return best
}

// routeTo sets dest and searches a path to it. An empty path off-destination
// leaves the robot in place until stuck recovery re-paths it.
func (s *Simulator) routeTo(r *Robot, pos, dest grid.Cell) {
	path := s.findPath(pos, dest)
	r.setDestination(dest, path)
	if len(path) == 0 && pos != dest {
		logrus.Debugf("Robot %d: pathfinding failed from %s to %s", r.ID, pos, dest)
	}
}

func (s *Simulator) findPath(from, to grid.Cell) []grid.Cell {
	return pathfind.FindPath(s.Grid, from, to, s.isStaticBlocked)
}

// isStaticBlocked is the search predicate: off-grid cells and static obstacles.
// Robots are not obstacles here; the movement engine checks them one step ahead.
func (s *Simulator) isStaticBlocked(c grid.Cell) bool {
	return !s.Grid.InBounds(c) || s.Grid.HasStaticObstacle(c)
}

// isFree reports whether robot self may step into c right now.
func (s *Simulator) isFree(c grid.Cell, self int) bool {
	if s.isStaticBlocked(c) {
		return false
	}
	_, occupied := s.Grid.RobotAt(c, self)
	return !occupied
}

func (s *Simulator) freeNeighbors(pos grid.Cell, self int) []grid.Cell {
	var free []grid.Cell
	for _, n := range s.Grid.Neighbors4(pos) {
		if s.isFree(n, self) {
			free = append(free, n)
		}
	}
	return free
}
