package lifecycle

import (
	"fmt"

	"campus-events-backend/cmd/campus-events/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrAlreadyRegistered = repository.ErrAlreadyRegistered
	ErrEventFull         = repository.ErrEventFull
)

// ValidationError reports a malformed or past-dated submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type GuardKind int

const (
	GuardRole GuardKind = iota + 1
	GuardOwnership
	GuardState
)

func (k GuardKind) String() string {
	switch k {
	case GuardRole:
		return "role"
	case GuardOwnership:
		return "ownership"
	case GuardState:
		return "state"
	}
	return "unknown"
}

// GuardError reports a role or ownership mismatch, or an action that is
// illegal in the record's current state.
type GuardError struct {
	Action string
	Kind   GuardKind
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}
