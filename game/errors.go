package game

// The engine never fails fatally. Every rejected command leaves the
// table in its last valid state and maps to one of the error types
// below so the transport can choose an appropriate status code.

// IllegalActionError rejects a state transition that is not legal from
// the table's current state (wrong turn, short raise, unknown action).
type IllegalActionError struct {
	Msg string
}

func (e IllegalActionError) Error() string {
	return e.Msg
}

// NotReadyError rejects a request for data that does not exist yet,
// such as asking for a hand before enough players have joined.
type NotReadyError struct {
	Msg string
}

func (e NotReadyError) Error() string {
	return e.Msg
}

// GameStartedError rejects a join once dealing has started.
type GameStartedError struct{}

func (e GameStartedError) Error() string {
	return "game already started"
}

// HandNotReadyError rejects a hand request when no encrypted hand can
// be produced for the viewer (no registered key, or not seated).
type HandNotReadyError struct{}

func (e HandNotReadyError) Error() string {
	return "hand not ready"
}
