// Package trace holds the end-of-run robot action log.
// It has no dependencies on sim/ and stores pure data types.
package trace

// Action names a single logged robot action.
type Action string

const (
	ActionMove            Action = "move"
	ActionPickup          Action = "pickup"
	ActionPickupFromShelf Action = "pickup_from_shelf"
	ActionDeliverLoad     Action = "deliver_load"
	ActionDeliverShelf    Action = "deliver_shelf"
)

// validActions maps accepted action strings.
var validActions = map[Action]bool{
	ActionMove:            true,
	ActionPickup:          true,
	ActionPickupFromShelf: true,
	ActionDeliverLoad:     true,
	ActionDeliverShelf:    true,
}

// IsValidAction returns true if the given string is a recognized action.
func IsValidAction(a string) bool {
	return validActions[Action(a)]
}

// ActionRecord captures where a robot was when it performed an action.
// For moves, Position is the cell entered.
type ActionRecord struct {
	Position [2]int `json:"position"`
	Action   Action `json:"action"`
}

// RobotTrace is the ordered action log of one robot.
type RobotTrace struct {
	ID   int            `json:"id"`
	Role string         `json:"role"`
	Path []ActionRecord `json:"path"`
}
