// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim/grid"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// SimulationState holds the run-wide counters and phase state.
// It is created with the Simulator and never shared between runs.
type SimulationState struct {
	TimeElapsed            int64
	MaxTime                int64
	TotalMovements         int
	TotalPackagesStored    int
	TotalPackagesDelivered int
	Phase                  *PhaseState
}

// Simulator is the core object that holds the warehouse floor, its entities and the tick loop.
type Simulator struct {
	State    *SimulationState
	Grid     *grid.Grid
	Layout   Layout
	Inbound  *Truck
	Outbound *Truck
	// Shelves and Robots are in creation order; robots are stepped in this order.
	Shelves []*Shelf
	Robots  []*Robot
	Metrics *Metrics

	cfg       Config
	rng       *PartitionedRNG
	stopShelf map[grid.Cell]*Shelf // stop cell -> shelf served from it
	running   bool
	nextID    int
}

// NewSimulator builds the warehouse described by layout and cfg. Shelves are
// pre-filled from cfg.InitialPackages first; the remainder goes to the inbound
// truck. Robot counts above the spawn list are clamped.
func NewSimulator(layout Layout, cfg Config) (*Simulator, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	g, err := grid.New(layout.Width, layout.Height)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		State: &SimulationState{
			MaxTime: cfg.MaxTime,
			Phase:   NewPhaseState(cfg.PhaseSize),
		},
		Grid:      g,
		Layout:    layout,
		Metrics:   NewMetrics(),
		cfg:       cfg,
		rng:       NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		stopShelf: make(map[grid.Cell]*Shelf, len(layout.Shelves)),
		running:   true,
	}

	for _, spec := range layout.Shelves {
		shelf := &Shelf{ID: s.newID(), Pos: spec.Pos, Stop: spec.Stop, Capacity: layout.capacityOf(spec)}
		if err := g.Place(grid.Occupant{ID: shelf.ID, Kind: grid.KindShelf}, shelf.Pos); err != nil {
			return nil, err
		}
		s.Shelves = append(s.Shelves, shelf)
		s.stopShelf[shelf.Stop] = shelf
	}

	if s.Inbound, err = s.placeTruck(TruckInbound, layout.Inbound); err != nil {
		return nil, err
	}
	if s.Outbound, err = s.placeTruck(TruckOutbound, layout.Outbound); err != nil {
		return nil, err
	}

	remaining := cfg.InitialPackages
	for _, shelf := range s.Shelves {
		n := min(int(math.Floor(cfg.PrefillFraction*float64(shelf.Capacity))), remaining)
		for i := 0; i < n; i++ {
			shelf.AddPackage(&Package{ID: s.newID()})
		}
		remaining -= n
	}
	for i := 0; i < remaining; i++ {
		s.Inbound.Append(&Package{ID: s.newID()})
	}

	numRobots := cfg.NumRobots
	if numRobots > len(layout.Spawns) {
		logrus.Warnf("requested %d robots but layout has %d spawn cells; clamping", numRobots, len(layout.Spawns))
		numRobots = len(layout.Spawns)
	}
	storage := cfg.storageCount(numRobots)
	for i := 0; i < numRobots; i++ {
		role := RoleLoading
		if i < storage {
			role = RoleStorage
		}
		r := &Robot{ID: s.newID(), Role: role}
		if err := g.Place(grid.Occupant{ID: r.ID, Kind: grid.KindRobot}, layout.Spawns[i]); err != nil {
			return nil, err
		}
		s.Robots = append(s.Robots, r)
	}

	s.recomputeTotals()
	return s, nil
}

func (s *Simulator) newID() int {
	s.nextID++
	return s.nextID
}

func (s *Simulator) placeTruck(kind TruckKind, spec TruckSpec) (*Truck, error) {
	if err := s.Grid.Place(grid.Occupant{ID: s.newID(), Kind: grid.KindTruckMarker}, spec.Marker); err != nil {
		return nil, err
	}
	t := &Truck{ID: s.newID(), Kind: kind, Marker: spec.Marker, Stop: spec.Stop}
	if err := s.Grid.Place(grid.Occupant{ID: t.ID, Kind: grid.KindTruck}, spec.Stop); err != nil {
		return nil, err
	}
	return t, nil
}

// Running reports whether the simulation still accepts ticks.
func (s *Simulator) Running() bool {
	return s.running
}

// Step advances the simulation by one tick: termination check, assignment
// pass over all robots, movement pass in registration order, bookkeeping.
// Returns false once the run has terminated.
func (s *Simulator) Step() bool {
	if !s.running {
		return false
	}
	s.State.TimeElapsed++
	if s.shouldTerminate() {
		s.finish()
		return false
	}

	// Assignment sees the truck/shelf state from the start of the tick.
	for _, r := range s.Robots {
		if r.Destination == nil {
			s.assign(r)
		}
	}
	// Movement sees the live grid, including moves made earlier this tick.
	for _, r := range s.Robots {
		s.stepRobot(r)
	}

	s.recomputeTotals()
	s.Metrics.Collect(s.Snapshot())
	return true
}

// Run steps until termination.
func (s *Simulator) Run() {
	logrus.Infof("Starting simulation: %d robots, %d shelves, %d packages inbound, max time %d",
		len(s.Robots), len(s.Shelves), s.Inbound.Len(), s.State.MaxTime)
	for s.Step() {
		logrus.Tracef("[tick %07d] inbound=%d outbound=%d shelved=%d",
			s.State.TimeElapsed, s.Inbound.Len(), s.Outbound.Len(), s.State.TotalPackagesStored)
	}
}

func (s *Simulator) shouldTerminate() bool {
	if s.State.TimeElapsed >= s.State.MaxTime {
		return true
	}
	if s.Inbound.Len() > 0 {
		return false
	}
	for _, r := range s.Robots {
		if r.Carrying != nil {
			return false
		}
	}
	return true
}

func (s *Simulator) finish() {
	s.running = false
	s.Metrics.Finalize(s)
	logrus.Infof("Simulation ended at tick %d. Total movements: %d, Packages stored: %d, Packages delivered: %d",
		s.State.TimeElapsed, s.State.TotalMovements, s.State.TotalPackagesStored, s.State.TotalPackagesDelivered)
}

func (s *Simulator) recomputeTotals() {
	movements, delivered, stored := 0, 0, 0
	for _, r := range s.Robots {
		movements += r.Movements
		delivered += r.PackagesDelivered
	}
	for _, shelf := range s.Shelves {
		stored += shelf.Load()
	}
	s.State.TotalMovements = movements
	s.State.TotalPackagesDelivered = delivered
	s.State.TotalPackagesStored = stored
}

// Snapshot returns the per-tick metrics view of the current state.
func (s *Simulator) Snapshot() MetricsSnapshot {
	carried := 0
	for _, r := range s.Robots {
		if r.Carrying != nil {
			carried++
		}
	}
	return MetricsSnapshot{
		Tick:                   s.State.TimeElapsed,
		InboundPackages:        s.Inbound.Len(),
		OutboundPackages:       s.Outbound.Len(),
		ShelvedPackages:        s.State.TotalPackagesStored,
		CarriedPackages:        carried,
		TotalMovements:         s.State.TotalMovements,
		TotalPackagesDelivered: s.State.TotalPackagesDelivered,
	}
}

// PositionOf returns a robot's current cell.
func (s *Simulator) PositionOf(r *Robot) grid.Cell {
	pos, ok := s.Grid.PositionOf(r.ID)
	if !ok {
		panic(fmt.Sprintf("robot %d is not on the grid", r.ID))
	}
	return pos
}

// ShelfAtStop returns the shelf served from stop, if any.
func (s *Simulator) ShelfAtStop(stop grid.Cell) (*Shelf, bool) {
	shelf, ok := s.stopShelf[stop]
	return shelf, ok
}

// Trace returns the action log of every robot, in registration order.
func (s *Simulator) Trace() *trace.RunTrace {
	rt := trace.NewRunTrace(s.cfg.Seed)
	rt.Ticks = s.State.TimeElapsed
	for _, r := range s.Robots {
		rt.RecordRobot(r.ID, string(r.Role), r.Actions)
	}
	return rt
}
