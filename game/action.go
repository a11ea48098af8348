package game

// ActionType is the closed set of betting actions. Free-form action
// strings from the transport are validated into this set before they
// reach the state machine.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionRaise ActionType = "raise"
)

// Action is a validated betting action. Amount is meaningful for call
// and raise only.
type Action struct {
	Type   ActionType
	Amount int
}

// ParseAction validates a raw action tag and amount from the transport.
// Unknown tags and negative amounts never reach the table.
func ParseAction(action string, amount int) (Action, error) {
	switch ActionType(action) {
	case ActionFold, ActionCheck, ActionCall, ActionRaise:
	default:
		return Action{}, IllegalActionError{Msg: "invalid action"}
	}
	if amount < 0 {
		amount = 0
	}
	return Action{Type: ActionType(action), Amount: amount}, nil
}

// LastAction records the most recent applied (player, action, amount)
// triple for the table view and audit log.
type LastAction struct {
	Player string `json:"player"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
}
