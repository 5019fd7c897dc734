package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/aegntic/aegnt-unltd/internal/util"
)

// SystemCreator is the reserved creator identity of builtin tools.
const SystemCreator = "system"

// Invoker is the fixed capability set of a tool body: execute arguments,
// return a result. Implementations must be safe for concurrent use.
type Invoker interface {
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// InvokerFunc adapts a plain function to the Invoker interface.
type InvokerFunc func(ctx context.Context, args map[string]any) (any, error)

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}

// Definition describes one registered tool. Snapshots handed out by the
// registry are copies; statistics on a snapshot reflect the moment of the
// read.
type Definition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  util.Schema `json:"parameters"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UsageCount  int         `json:"usage_count"`
	SuccessRate float64     `json:"success_rate"`

	invoker   Invoker
	successes int
}

// Execution records one tool invocation. Exactly one record is produced
// per Execute call; the Error field distinguishes failure from success.
type Execution struct {
	ToolID    string         `json:"tool_id"`
	AgentID   string         `json:"agent_id"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
}

// OK reports whether the invocation succeeded.
func (e Execution) OK() bool { return e.Error == "" }

// Error codes attached to execution failures for categorization.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodePanic      = "PANIC"
)

// ExecError wraps a tool body failure with a stable code.
type ExecError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ExecError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewExecError creates an ExecError with the specified details.
func NewExecError(tool, message, code string) *ExecError {
	return &ExecError{Tool: tool, Message: message, Code: code}
}
