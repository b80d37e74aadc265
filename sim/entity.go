// Defines the cargo, containers and mobile agents that live on the warehouse floor.

package sim

import (
	"fmt"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// Package is a unit of cargo. It carries identity only and is always held by
// exactly one container: a truck, a shelf, or a robot.
type Package struct {
	ID int
}

// Shelf is a fixed storage node. Robots interact with it from its stop cell.
type Shelf struct {
	ID       int
	Pos      grid.Cell
	Stop     grid.Cell
	Capacity int

	packages []*Package
}

// AddPackage stores p unless the shelf is full. It is the only way packages enter a shelf.
func (s *Shelf) AddPackage(p *Package) bool {
	if len(s.packages) >= s.Capacity {
		return false
	}
	s.packages = append(s.packages, p)
	return true
}

// TakePackage removes the most recently stored package.
func (s *Shelf) TakePackage() (*Package, bool) {
	n := len(s.packages)
	if n == 0 {
		return nil, false
	}
	p := s.packages[n-1]
	s.packages[n-1] = nil
	s.packages = s.packages[:n-1]
	return p, true
}

// Load returns the number of packages currently held.
func (s *Shelf) Load() int { return len(s.packages) }

// Full reports whether AddPackage would fail.
func (s *Shelf) Full() bool { return len(s.packages) >= s.Capacity }

// TruckKind distinguishes the two truck containers.
type TruckKind string

const (
	TruckInbound  TruckKind = "inbound"
	TruckOutbound TruckKind = "outbound"
)

// Truck is an unbounded package container. The inbound truck is loaded at
// construction; the outbound truck accumulates deliveries.
type Truck struct {
	ID     int
	Kind   TruckKind
	Marker grid.Cell // truck body, a static obstacle
	Stop   grid.Cell // where robots load/unload

	packages []*Package
}

// Append adds p to the truck.
func (t *Truck) Append(p *Package) {
	t.packages = append(t.packages, p)
}

// TakePackage pops the last loaded package.
func (t *Truck) TakePackage() (*Package, bool) {
	n := len(t.packages)
	if n == 0 {
		return nil, false
	}
	p := t.packages[n-1]
	t.packages[n-1] = nil
	t.packages = t.packages[:n-1]
	return p, true
}

// Len returns the number of packages aboard.
func (t *Truck) Len() int { return len(t.packages) }

// Role fixes which leg of the flow a robot services. It never changes.
type Role string

const (
	// RoleStorage robots move packages from the inbound truck to shelves or the outbound truck.
	RoleStorage Role = "storage"
	// RoleLoading robots move packages from shelves to the outbound truck.
	RoleLoading Role = "loading"
)

// RobotState is the derived lifecycle state of a robot.
type RobotState string

const (
	RobotIdle            RobotState = "idle"
	RobotEnRoutePickup   RobotState = "en-route-pickup"
	RobotAtPickup        RobotState = "at-pickup"
	RobotEnRouteDelivery RobotState = "en-route-delivery"
	RobotAtDelivery      RobotState = "at-delivery"
)

// Robot is a mobile agent. Its position is owned by the grid.
type Robot struct {
	ID   int
	Role Role

	Carrying    *Package   // nil when empty-handed
	Destination *grid.Cell // nil when no task
	Path        Path       // remaining route, head is the next hop
	StuckCount  int        // consecutive blocked ticks

	Movements         int
	PackagesDelivered int
	Actions           []trace.ActionRecord
}

// State derives the lifecycle state from cargo, destination and position.
func (r *Robot) State(pos grid.Cell) RobotState {
	switch {
	case r.Destination == nil && r.Carrying == nil:
		return RobotIdle
	case r.Destination == nil:
		// carrying, waiting for a delivery target
		return RobotEnRouteDelivery
	case r.Carrying == nil && pos == *r.Destination:
		return RobotAtPickup
	case r.Carrying == nil:
		return RobotEnRoutePickup
	case pos == *r.Destination:
		return RobotAtDelivery
	default:
		return RobotEnRouteDelivery
	}
}

// setDestination records a new target; the caller supplies the path.
func (r *Robot) setDestination(c grid.Cell, path []grid.Cell) {
	r.Destination = &c
	r.Path.Reset(path)
}

func (r *Robot) clearDestination() {
	r.Destination = nil
	r.Path.Reset(nil)
}

func (r *Robot) logAction(pos grid.Cell, action trace.Action) {
	r.Actions = append(r.Actions, trace.ActionRecord{Position: [2]int{pos.X, pos.Y}, Action: action})
}

func (r Robot) String() string {
	return fmt.Sprintf("Robot: (ID: %d, Role: %s, Carrying: %t, Movements: %d, Delivered: %d)",
		r.ID, r.Role, r.Carrying != nil, r.Movements, r.PackagesDelivered)
}
