// Package sim provides the warehouse floor simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - entity.go: Package, Shelf, Truck and Robot state and capacity rules
//   - assignment.go: per-tick destination choice and the shelving/outbound phase policy
//   - robot_step.go: the robot lifecycle state machine and one-step movement
//   - simulator.go: the synchronous tick (assignment pass, movement pass, bookkeeping)
//
// # Architecture
//
// The sim package owns entity state and the tick loop; supporting pieces live in
// sub-packages:
//   - sim/grid/: bounded multi-occupancy grid with tagged occupant kinds
//   - sim/pathfind/: A* search over a 4-neighbour graph
//   - sim/trace/: end-of-run robot action log and its export
//
// # Determinism
//
// A run is fully determined by its Layout, Config and seed. Robots are stepped
// in registration order and every random choice draws from a PartitionedRNG
// subsystem, so two runs with the same inputs produce identical traces.
package sim
