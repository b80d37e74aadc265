// Tracks per-tick warehouse counters and the end-of-run report.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/stat"
)

// MetricsSnapshot is the per-tick view consumed by reporting collaborators.
type MetricsSnapshot struct {
	Tick                   int64 `json:"tick"`
	InboundPackages        int   `json:"packages_in_unload_truck"`
	OutboundPackages       int   `json:"packages_in_load_truck"`
	ShelvedPackages        int   `json:"packages_in_shelves"`
	CarriedPackages        int   `json:"packages_carried"`
	TotalMovements         int   `json:"total_movements"`
	TotalPackagesDelivered int   `json:"total_packages_delivered"`
}

// Total returns every package accounted for in the snapshot.
func (m MetricsSnapshot) Total() int {
	return m.InboundPackages + m.OutboundPackages + m.ShelvedPackages + m.CarriedPackages
}

// Metrics aggregates statistics about the run for final reporting.
type Metrics struct {
	Snapshots []MetricsSnapshot // one per executed tick

	SimEndedTime           int64
	TotalMovements         int
	TotalPackagesStored    int
	TotalPackagesDelivered int
	InboundRemaining       int
	OutboundPackages       int

	RobotMovements  []float64 // per robot, registration order
	RobotDeliveries []float64
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Snapshots: make([]MetricsSnapshot, 0),
	}
}

// Collect appends a per-tick snapshot.
func (m *Metrics) Collect(snap MetricsSnapshot) {
	m.Snapshots = append(m.Snapshots, snap)
}

// Finalize copies the final counters from the simulator.
func (m *Metrics) Finalize(s *Simulator) {
	m.SimEndedTime = s.State.TimeElapsed
	m.TotalMovements = s.State.TotalMovements
	m.TotalPackagesStored = s.State.TotalPackagesStored
	m.TotalPackagesDelivered = s.State.TotalPackagesDelivered
	m.InboundRemaining = s.Inbound.Len()
	m.OutboundPackages = s.Outbound.Len()
	m.RobotMovements = m.RobotMovements[:0]
	m.RobotDeliveries = m.RobotDeliveries[:0]
	for _, r := range s.Robots {
		m.RobotMovements = append(m.RobotMovements, float64(r.Movements))
		m.RobotDeliveries = append(m.RobotDeliveries, float64(r.PackagesDelivered))
	}
}

// meanStdDev returns the sample mean and standard deviation, zero for too few values.
func meanStdDev(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	m.Fprint(os.Stdout)
}

// Fprint writes the end-of-run report to w.
func (m *Metrics) Fprint(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Ticks                : %d\n", m.SimEndedTime)
	fmt.Fprintf(w, "Total Movements      : %d\n", m.TotalMovements)
	fmt.Fprintf(w, "Packages Stored      : %d\n", m.TotalPackagesStored)
	fmt.Fprintf(w, "Packages Delivered   : %d\n", m.TotalPackagesDelivered)
	fmt.Fprintf(w, "Unload Truck Left    : %d\n", m.InboundRemaining)
	fmt.Fprintf(w, "Load Truck Holds     : %d\n", m.OutboundPackages)
	if len(m.RobotMovements) > 0 {
		mean, sd := meanStdDev(m.RobotMovements)
		fmt.Fprintf(w, "Movements per Robot  : %.2f (stddev %.2f)\n", mean, sd)
		mean, sd = meanStdDev(m.RobotDeliveries)
		fmt.Fprintf(w, "Deliveries per Robot : %.2f (stddev %.2f)\n", mean, sd)
	}
}

// MetricsOutput is the JSON document written by SaveResults.
type MetricsOutput struct {
	SimEndedTime           int64             `json:"sim_ended_time"`
	TotalMovements         int               `json:"total_movements"`
	TotalPackagesStored    int               `json:"packages_stored"`
	TotalPackagesDelivered int               `json:"packages_delivered"`
	InboundRemaining       int               `json:"unload_truck_remaining"`
	OutboundPackages       int               `json:"load_truck_packages"`
	MovementsPerRobotMean  float64           `json:"movements_per_robot_mean"`
	MovementsPerRobotStd   float64           `json:"movements_per_robot_stddev"`
	DeliveriesPerRobotMean float64           `json:"deliveries_per_robot_mean"`
	DeliveriesPerRobotStd  float64           `json:"deliveries_per_robot_stddev"`
	Snapshots              []MetricsSnapshot `json:"snapshots"`
}

// Output builds the JSON view of the metrics.
func (m *Metrics) Output() MetricsOutput {
	out := MetricsOutput{
		SimEndedTime:           m.SimEndedTime,
		TotalMovements:         m.TotalMovements,
		TotalPackagesStored:    m.TotalPackagesStored,
		TotalPackagesDelivered: m.TotalPackagesDelivered,
		InboundRemaining:       m.InboundRemaining,
		OutboundPackages:       m.OutboundPackages,
		Snapshots:              m.Snapshots,
	}
	out.MovementsPerRobotMean, out.MovementsPerRobotStd = meanStdDev(m.RobotMovements)
	out.DeliveriesPerRobotMean, out.DeliveriesPerRobotStd = meanStdDev(m.RobotDeliveries)
	return out
}

// SaveResults writes the metrics, per-tick snapshots included, as indented JSON to path.
func (m *Metrics) SaveResults(path string) error {
	data, err := json.MarshalIndent(m.Output(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
