package core

// AgentState represents the lifecycle position of a single agent.
//
// Exactly one state is held at a time. The legal transitions are:
//
//	Idle -> Thinking    task accepted, planning in progress
//	Thinking -> Executing  plan produced, steps running
//	Executing -> Completed plan finished
//	Executing -> Error     unrecovered fault
//	any -> Idle         reset after a terminal state
//	any -> Error        unrecoverable fault
//
// Completed and Error are terminal for a given task; the agent returns to
// Idle before accepting the next one.
type AgentState int

const (
	// StateIdle means the agent holds no task.
	StateIdle AgentState = iota
	// StateThinking means the agent is producing a plan.
	StateThinking
	// StateExecuting means the agent is running plan steps.
	StateExecuting
	// StateWaiting means the agent is suspended on an external collaborator.
	StateWaiting
	// StateError means the last task raised an unrecovered fault.
	StateError
	// StateCompleted means the last task finished successfully.
	StateCompleted
)

// String returns the lowercase wire representation of the state.
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateThinking:
		return "thinking"
	case StateExecuting:
		return "executing"
	case StateWaiting:
		return "waiting"
	case StateError:
		return "error"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a task.
func (s AgentState) Terminal() bool {
	return s == StateCompleted || s == StateError
}

// TaskStatus mirrors the AgentState subset visible on a Task.
type TaskStatus string

const (
	// TaskQueued is the status of a task not yet handed to an agent.
	TaskQueued TaskStatus = "queued"
	// TaskRunning is the status of a task currently in an agent's loop.
	TaskRunning TaskStatus = "running"
	// TaskCompleted is the terminal success status.
	TaskCompleted TaskStatus = "completed"
	// TaskError is the terminal failure status.
	TaskError TaskStatus = "error"
)
