package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across components. Callers match them with
// errors.Is after unwrapping.
var (
	// ErrAgentNotFound reports an unknown agent id.
	ErrAgentNotFound = errors.New("agent not found")
	// ErrToolNotFound reports an unknown tool id.
	ErrToolNotFound = errors.New("tool not found")
	// ErrTaskNotFound reports an unknown task id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskTimeout reports that a task exceeded its configured budget.
	ErrTaskTimeout = errors.New("task timeout")
	// ErrAgentBusy reports that an agent already has a task in flight.
	ErrAgentBusy = errors.New("agent busy")
	// ErrNoAgents reports a batch submitted against an empty agent set.
	ErrNoAgents = errors.New("no agents registered")
)

// PhaseError is an unrecovered fault inside one loop phase (plan or act).
// It is fatal to the task: the agent transitions to Error and the message
// is surfaced on the task.
type PhaseError struct {
	Phase string // "planning" or "execution"
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failure: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// NewPlanningError wraps a fault raised during the plan phase.
func NewPlanningError(err error) *PhaseError {
	return &PhaseError{Phase: "planning", Err: err}
}

// NewExecutionError wraps a fault raised during the act phase.
func NewExecutionError(err error) *PhaseError {
	return &PhaseError{Phase: "execution", Err: err}
}
