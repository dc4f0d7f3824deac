package session

import "time"

// State is the outcome of a session check.
type State int

const (
	StatePending State = iota
	StateAuthorized
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Snapshot is what subscribers observe. Cause is set for Unauthorized only.
type Snapshot struct {
	State     State
	Cause     error
	CheckedAt time.Time
}
