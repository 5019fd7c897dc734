package core

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work routed through the orchestrator to one agent.
// The orchestrator owns the task until it reaches a terminal status,
// after which the struct is treated as immutable.
type Task struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Context     map[string]any `json:"context,omitempty"`
	Priority    int            `json:"priority"`
	CreatedAt   time.Time      `json:"created_at"`
	Status      TaskStatus     `json:"status"`
	Result      any            `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// NewTask creates a queued task with a fresh id.
func NewTask(description string) *Task {
	return &Task{
		ID:          uuid.NewString(),
		Description: description,
		Context:     map[string]any{},
		Priority:    1,
		CreatedAt:   time.Now(),
		Status:      TaskQueued,
	}
}

// BroadcastCopy returns an independent copy of the task tagged as a
// broadcast. Each copy carries its own id so that per-agent outcomes are
// causally independent.
func (t *Task) BroadcastCopy() *Task {
	c := NewTask("[Broadcast] " + t.Description)
	c.Priority = t.Priority
	for k, v := range t.Context {
		c.Context[k] = v
	}
	return c
}

// Outcome is the structured result of a public operation. Every operation
// returns either a result or an error description; requests are never
// silently dropped.
type Outcome struct {
	AgentID    string        `json:"agent_id"`
	TaskID     string        `json:"task_id"`
	Status     TaskStatus    `json:"status"`
	Result     any           `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	Steps      int           `json:"steps"`
	Duration   time.Duration `json:"duration"`
	Reflection *Reflection   `json:"reflection,omitempty"`
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.Status == TaskCompleted }

// Reflection is the deterministic product of the reflect phase: a pure
// function of the step-result sequence produced by the act phase.
type Reflection struct {
	TotalSteps   int      `json:"total_steps"`
	FailedSteps  int      `json:"failed_steps"`
	SuccessRate  float64  `json:"success_rate"`
	ShouldEvolve bool     `json:"should_evolve"`
	Insights     []string `json:"insights"`
}

// StepResult records the outcome of a single plan step. A failing step is
// recorded and execution proceeds; it never fails the task on its own.
type StepResult struct {
	Step    int    `json:"step"`
	Action  string `json:"action"`
	Tool    string `json:"tool,omitempty"`
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Metrics aggregates per-agent performance counters. TasksCompleted plus
// TasksFailed equals the number of terminal transitions the agent has
// observed and is monotonically non-decreasing.
type Metrics struct {
	TasksCompleted int     `json:"tasks_completed"`
	TasksFailed    int     `json:"tasks_failed"`
	ToolsUsed      int     `json:"tools_used"`
	ToolsCreated   int     `json:"tools_created"`
	AvgLatencyMS   int64   `json:"avg_execution_time_ms"`
	SuccessRate    float64 `json:"success_rate"`
}
