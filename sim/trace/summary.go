package trace

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	TotalActions   int
	Moves          int
	Pickups        int // from inbound truck and shelves
	Deliveries     int // to outbound truck and shelves
	ActionsByKind  map[Action]int
	ActionsByRobot map[int]int
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{
		ActionsByKind:  make(map[Action]int),
		ActionsByRobot: make(map[int]int),
	}
	if rt == nil {
		return summary
	}

	for _, r := range rt.Robots {
		summary.ActionsByRobot[r.ID] += len(r.Path)
		for _, rec := range r.Path {
			summary.TotalActions++
			summary.ActionsByKind[rec.Action]++
			switch rec.Action {
			case ActionMove:
				summary.Moves++
			case ActionPickup, ActionPickupFromShelf:
				summary.Pickups++
			case ActionDeliverLoad, ActionDeliverShelf:
				summary.Deliveries++
			}
		}
	}
	return summary
}
