package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// recheckHops is how many leading hops of a recomputed path are re-checked
// for static obstacles.
const recheckHops = 3

// stepRobot runs one state-machine step:
//
//	no destination        -> request one (stay idle if none)
//	at pickup / delivery  -> pick up or deliver
//	en route              -> advance one hop along the path
func (s *Simulator) stepRobot(r *Robot) {
	if r.Destination == nil {
		s.assign(r)
	}
	pos := s.PositionOf(r)
	state := r.State(pos)
	switch state {
	case RobotIdle:
		return
	case RobotAtPickup:
		s.pickUp(r, pos)
	case RobotAtDelivery:
		s.deliver(r, pos)
	default:
		s.moveAlongPath(r, pos)
	}
	if next := r.State(s.PositionOf(r)); next != state {
		logrus.Tracef("Robot %d: %s -> %s", r.ID, state, next)
	}
}

// pickUp takes a package from the source served at pos. A missing or empty
// source only clears the destination; assignment retries next tick.
func (s *Simulator) pickUp(r *Robot, pos grid.Cell) {
	var (
		pkg    *Package
		ok     bool
		action trace.Action
	)
	switch r.Role {
	case RoleStorage:
		if pos == s.Inbound.Stop {
			pkg, ok = s.Inbound.TakePackage()
			action = trace.ActionPickup
		}
	case RoleLoading:
		if shelf, found := s.stopShelf[pos]; found {
			pkg, ok = shelf.TakePackage()
			action = trace.ActionPickupFromShelf
		}
	}
	r.clearDestination()
	if !ok {
		logrus.Debugf("Robot %d (%s) found nothing to pick up at %s", r.ID, r.Role, pos)
		return
	}
	r.Carrying = pkg
	r.StuckCount = 0
	r.logAction(pos, action)
	logrus.Debugf("Robot %d (%s) picked up package %d at %s", r.ID, r.Role, pkg.ID, pos)
}

// deliver hands the carried package to the outbound truck or the shelf served
// at pos. On failure the robot keeps the package and only loses its destination.
func (s *Simulator) deliver(r *Robot, pos grid.Cell) {
	var action trace.Action
	switch {
	case pos == s.Outbound.Stop:
		s.Outbound.Append(r.Carrying)
		action = trace.ActionDeliverLoad
	default:
		if shelf, found := s.stopShelf[pos]; found && shelf.AddPackage(r.Carrying) {
			action = trace.ActionDeliverShelf
		}
	}
	r.clearDestination()
	if action == "" {
		logrus.Debugf("Robot %d could not deliver package %d at %s", r.ID, r.Carrying.ID, pos)
		return
	}
	logrus.Debugf("Robot %d delivered package %d (%s) at %s", r.ID, r.Carrying.ID, action, pos)
	r.Carrying = nil
	r.PackagesDelivered++
	r.StuckCount = 0
	r.logAction(pos, action)
	s.State.Phase.RecordDelivery()
}

// moveAlongPath advances one hop if the next cell is free. Blocked hops count
// toward the stuck threshold; past it the robot side-steps at random and
// re-paths. An empty path is recomputed without moving.
func (s *Simulator) moveAlongPath(r *Robot, pos grid.Cell) {
	next, ok := r.Path.Peek()
	if !ok {
		s.recalculatePath(r, pos)
		return
	}
	if s.isFree(next, r.ID) {
		r.Path.Pop()
		s.moveRobot(r, next)
		r.StuckCount = 0
		return
	}
	r.StuckCount++
	if r.StuckCount > s.cfg.StuckThreshold {
		s.attemptAlternativeMove(r, pos)
	}
}

// attemptAlternativeMove steps to a uniformly chosen free neighbour, if any,
// and re-paths toward the same destination. The stuck counter resets either way.
func (s *Simulator) attemptAlternativeMove(r *Robot, pos grid.Cell) {
	free := s.freeNeighbors(pos, r.ID)
	if len(free) > 0 {
		to := free[s.rng.ForSubsystem(SubsystemRobot(r.ID)).Intn(len(free))]
		logrus.Debugf("Robot %d taking alternative step to %s", r.ID, to)
		if s.moveRobot(r, to) {
			s.recalculatePath(r, to)
		}
	}
	r.StuckCount = 0
}

// recalculatePath re-runs the search toward the current destination. If one
// of the first hops still lands on a static obstacle the search runs once more.
func (s *Simulator) recalculatePath(r *Robot, pos grid.Cell) {
	if r.Destination == nil {
		return
	}
	path := s.findPath(pos, *r.Destination)
	if s.anyStaticObstacle(path[:min(recheckHops, len(path))]) {
		logrus.Debugf("Robot %d recalculated path still includes a shelf, reattempting.", r.ID)
		path = s.findPath(pos, *r.Destination)
	}
	r.Path.Reset(path)
}

func (s *Simulator) anyStaticObstacle(cells []grid.Cell) bool {
	for _, c := range cells {
		if s.Grid.HasStaticObstacle(c) {
			return true
		}
	}
	return false
}

// moveRobot relocates r on the grid and logs the move.
func (s *Simulator) moveRobot(r *Robot, to grid.Cell) bool {
	if err := s.Grid.Move(r.ID, to); err != nil {
		logrus.Warnf("Robot %d: %v", r.ID, err)
		return false
	}
	r.Movements++
	r.logAction(to, trace.ActionMove)
	logrus.Debugf("Robot %d moving to %s", r.ID, to)
	return true
}
