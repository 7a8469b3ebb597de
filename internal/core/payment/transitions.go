// Package payment contains the pure business logic for the cashier payment session.
// This is part of the Functional Core - no I/O, only pure functions.
package payment

import "fmt"

// Phase represents the state of a payment session.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseSearching        Phase = "searching"
	PhaseCustomerFound    Phase = "customer_found"
	PhaseCustomerNotFound Phase = "customer_not_found"
	PhaseBillsLoaded      Phase = "bills_loaded"
	PhaseSelecting        Phase = "selecting"
	PhaseSubmitting       Phase = "submitting"
	PhaseSessionComplete  Phase = "session_complete"
	PhaseSubmissionFailed Phase = "submission_failed"
)

// restingPhases are the phases a session can sit in waiting for operator input.
// A failed search or bill load returns to whichever of these it started from.
var restingPhases = []Phase{
	PhaseIdle,
	PhaseCustomerNotFound,
	PhaseBillsLoaded,
	PhaseSelecting,
	PhaseSessionComplete,
	PhaseSubmissionFailed,
}

var transitions = map[Phase][]Phase{
	PhaseIdle:             {PhaseSearching},
	PhaseCustomerNotFound: {PhaseSearching},
	PhaseSearching:        append([]Phase{PhaseCustomerFound}, restingPhases...),
	PhaseCustomerFound:    restingPhases,
	PhaseBillsLoaded:      {PhaseSearching, PhaseSelecting},
	PhaseSelecting:        {PhaseSearching, PhaseBillsLoaded, PhaseSubmitting},
	PhaseSubmitting:       {PhaseSessionComplete, PhaseSubmissionFailed},
	PhaseSessionComplete:  {PhaseSearching},
	PhaseSubmissionFailed: {PhaseSearching, PhaseSelecting, PhaseBillsLoaded, PhaseSubmitting},
}

// InitialPhase returns the phase of a freshly created session.
func InitialPhase() Phase {
	return PhaseIdle
}

// IsResting reports whether the phase waits on the operator rather than the backend.
func (p Phase) IsResting() bool {
	for _, r := range restingPhases {
		if p == r {
			return true
		}
	}
	return false
}

// IsBusy reports whether a backend call owns the session.
func (p Phase) IsBusy() bool {
	return p == PhaseSearching || p == PhaseCustomerFound || p == PhaseSubmitting
}

// HasBills reports whether a bill list is loaded in this phase.
func (p Phase) HasBills() bool {
	switch p {
	case PhaseBillsLoaded, PhaseSelecting, PhaseSubmitting, PhaseSubmissionFailed:
		return true
	}
	return false
}

// CanTransition evaluates whether a session may move from one phase to another.
// Rule: reset to idle is always allowed, everything else follows the transition table.
func CanTransition(from, to Phase) GuardResult {
	if to == PhaseIdle {
		return GuardResult{Allowed: true}
	}
	for _, next := range transitions[from] {
		if next == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot move payment session from %s to %s", from, to),
	}
}
