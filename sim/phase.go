package sim

// DefaultPhaseSize is the number of deliveries per delivery phase.
const DefaultPhaseSize = 10

// PhaseState alternates loaded storage robots between shelving and outbound
// delivery. It starts in the shelving phase.
type PhaseState struct {
	PhaseSize             int
	DeliveredInPhase      int  // deliveries since the last flip
	DeliveringToLoadTruck bool // false = shelving phase

	evaluated   bool
	evaluatedAt int64
}

// NewPhaseState creates a PhaseState in the shelving phase.
func NewPhaseState(phaseSize int) *PhaseState {
	return &PhaseState{PhaseSize: phaseSize}
}

// RecordDelivery counts one successful delivery toward the current phase.
func (p *PhaseState) RecordDelivery() {
	p.DeliveredInPhase++
}

// ShouldDeliverToLoadTruck returns the phase for tick. The first call in a tick
// flips the phase if the counter has reached PhaseSize (and resets the
// counter); later calls in the same tick return that same value, so at most
// one flip happens per tick and every robot observes a consistent phase.
func (p *PhaseState) ShouldDeliverToLoadTruck(tick int64) bool {
	if p.evaluated && p.evaluatedAt == tick {
		return p.DeliveringToLoadTruck
	}
	if p.DeliveredInPhase >= p.PhaseSize {
		p.DeliveringToLoadTruck = !p.DeliveringToLoadTruck
		p.DeliveredInPhase = 0
	}
	p.evaluated = true
	p.evaluatedAt = tick
	return p.DeliveringToLoadTruck
}
