package trace

// RunTrace collects the action logs of every robot in registration order.
type RunTrace struct {
	Seed   int64        `json:"seed"`
	Ticks  int64        `json:"ticks"`
	Robots []RobotTrace `json:"robots"`
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(seed int64) *RunTrace {
	return &RunTrace{
		Seed:   seed,
		Robots: make([]RobotTrace, 0),
	}
}

// RecordRobot appends a robot's log. The records slice is copied.
func (rt *RunTrace) RecordRobot(id int, role string, records []ActionRecord) {
	rt.Robots = append(rt.Robots, RobotTrace{
		ID:   id,
		Role: role,
		Path: append(make([]ActionRecord, 0, len(records)), records...),
	})
}
