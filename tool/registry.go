package tool

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/internal/util"
	"github.com/aegntic/aegnt-unltd/logging"
)

// Registry holds the shared tool set and its execution history. It is the
// only state shared across concurrently running agents: registration is
// append-only, lookups return copies, and statistics updates happen under
// the registry lock so no caller ever observes a partially written
// definition.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]*Definition
	order      []string // insertion order of tool ids
	executions []Execution
	logger     logging.Logger
}

// RegistryOptions configure construction.
type RegistryOptions struct {
	// Logger receives registration and execution logs. Defaults to NoOp.
	Logger logging.Logger
	// Builtins supplies the bootstrap tool set. Defaults to Builtins with
	// zero-value deps (stub collaborators).
	Builtins []Spec
}

// Spec is the registration input for one tool.
type Spec struct {
	Name        string
	Description string
	Parameters  util.Schema
	Invoker     Invoker
}

// NewRegistry creates a registry and registers the bootstrap builtin
// set under the reserved system creator. The registry is never empty
// post-construction.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Builtins == nil {
		opts.Builtins = Builtins(Deps{})
	}

	r := &Registry{
		tools:  make(map[string]*Definition),
		logger: opts.Logger,
	}
	for _, b := range opts.Builtins {
		r.Register(b.Name, b.Description, b.Parameters, b.Invoker, SystemCreator)
	}
	return r
}

// Register appends a new tool and returns its fresh unique id. It always
// succeeds; concurrent calls never race to the same id.
func (r *Registry) Register(name, description string, parameters util.Schema, invoker Invoker, createdBy string) string {
	def := &Definition{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Parameters:  parameters,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
		SuccessRate: 1.0,
		invoker:     invoker,
	}

	r.mu.Lock()
	r.tools[def.ID] = def
	r.order = append(r.order, def.ID)
	r.mu.Unlock()

	r.logger.Info("tool registered", "tool", name, "tool_id", def.ID, "created_by", createdBy)
	return def.ID
}

// Lookup returns a snapshot of the tool or core.ErrToolNotFound.
func (r *Registry) Lookup(toolID string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, exists := r.tools[toolID]
	if !exists {
		return Definition{}, fmt.Errorf("%w: %s", core.ErrToolNotFound, toolID)
	}
	return *def, nil
}

// FindByName resolves a tool id by name and creator. An empty creator
// matches any; the first registered match wins (insertion order).
func (r *Registry) FindByName(name, createdBy string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		def := r.tools[id]
		if def.Name != name {
			continue
		}
		if createdBy != "" && def.CreatedBy != createdBy {
			continue
		}
		return id, true
	}
	return "", false
}

// List returns tool snapshots in insertion order, optionally filtered by
// creator and by a case-insensitive substring over name and description.
func (r *Registry) List(createdBy, search string) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(search)
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		def := r.tools[id]
		if createdBy != "" && def.CreatedBy != createdBy {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(def.Name), needle) &&
			!strings.Contains(strings.ToLower(def.Description), needle) {
			continue
		}
		out = append(out, *def)
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute invokes a tool on behalf of an agent and returns exactly one
// Execution record. An unknown id yields a record carrying a not-found
// error rather than failing the caller. Body failures (including panics)
// are captured into the record. Duration is wall clock around the
// invocation; statistics are updated for found tools on success and
// failure alike.
func (r *Registry) Execute(ctx context.Context, toolID, agentID string, args map[string]any) Execution {
	start := time.Now()

	r.mu.RLock()
	def, exists := r.tools[toolID]
	r.mu.RUnlock()

	if !exists {
		// Not-found yields an error-carrying record that never enters the
		// execution history, so statistics only reflect real invocations.
		return Execution{
			ToolID:    toolID,
			AgentID:   agentID,
			Arguments: args,
			Error:     fmt.Sprintf("tool %s not found", toolID),
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}

	exec := Execution{
		ToolID:    toolID,
		AgentID:   agentID,
		Arguments: args,
		Timestamp: start,
	}

	result, err := r.invoke(ctx, def, args)
	exec.Duration = time.Since(start)
	if err != nil {
		exec.Error = err.Error()
	} else {
		exec.Result = result
	}

	r.recordOutcome(toolID, exec)
	r.logger.Debug("tool executed", "tool", def.Name, "agent_id", agentID, "success", exec.OK(), "duration_ms", exec.Duration.Milliseconds())
	return exec
}

// invoke validates arguments, applies defaults and runs the body with
// panic capture.
func (r *Registry) invoke(ctx context.Context, def *Definition, args map[string]any) (result any, err error) {
	if args == nil {
		args = map[string]any{}
	}
	if err := util.ValidateArgs(args, def.Parameters); err != nil {
		return nil, NewExecError(def.Name, err.Error(), CodeValidation)
	}
	args = util.ApplyDefaults(args, def.Parameters)

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = NewExecError(def.Name, fmt.Sprintf("panic: %v", rec), CodePanic)
		}
	}()

	result, err = def.invoker.Invoke(ctx, args)
	if err != nil {
		if _, isExec := err.(*ExecError); !isExec {
			err = NewExecError(def.Name, err.Error(), CodeExecution)
		}
	}
	return result, err
}

// recordOutcome appends the record and recomputes the tool's statistics.
func (r *Registry) recordOutcome(toolID string, exec Execution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions = append(r.executions, exec)
	def, exists := r.tools[toolID]
	if !exists {
		return
	}
	def.UsageCount++
	if exec.OK() {
		def.successes++
	}
	def.SuccessRate = float64(def.successes) / float64(def.UsageCount)
}

// Executions returns a copy of the execution history in append order.
func (r *Registry) Executions() []Execution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Execution, len(r.executions))
	copy(out, r.executions)
	return out
}

// ToolStats summarizes one tool's recorded usage.
type ToolStats struct {
	Name        string  `json:"name"`
	UsageCount  int     `json:"usage_count"`
	SuccessRate float64 `json:"success_rate"`
	CreatedBy   string  `json:"created_by"`
}

// Stats is the registry-wide usage rollup.
type Stats struct {
	TotalTools      int                  `json:"total_tools"`
	TotalExecutions int                  `json:"total_executions"`
	SuccessRate     float64              `json:"success_rate"`
	Tools           map[string]ToolStats `json:"tools"`
}

// Stats computes the registry-wide usage rollup from recorded executions.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		TotalTools:      len(r.tools),
		TotalExecutions: len(r.executions),
		Tools:           make(map[string]ToolStats, len(r.tools)),
	}
	successes := 0
	for _, e := range r.executions {
		if e.OK() {
			successes++
		}
	}
	if s.TotalExecutions > 0 {
		s.SuccessRate = float64(successes) / float64(s.TotalExecutions)
	}
	for _, id := range r.order {
		def := r.tools[id]
		ts := ToolStats{Name: def.Name, UsageCount: def.UsageCount, CreatedBy: def.CreatedBy}
		if def.UsageCount > 0 {
			ts.SuccessRate = float64(def.successes) / float64(def.UsageCount)
		}
		s.Tools[def.Name] = ts
	}
	return s
}
