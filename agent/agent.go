package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/evolution"
	"github.com/aegntic/aegnt-unltd/internal/util"
	"github.com/aegntic/aegnt-unltd/logging"
	"github.com/aegntic/aegnt-unltd/memory"
	"github.com/aegntic/aegnt-unltd/tool"
)

// Phase names recorded in the execution log.
const (
	PhasePlanning   = "planning"
	PhaseExecution  = "execution"
	PhaseReflection = "reflection"
	PhaseEvolution  = "evolution"
)

// PhaseRecord is one append-only execution log entry.
type PhaseRecord struct {
	Phase     string         `json:"phase"`
	Detail    map[string]any `json:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Options configure agent construction.
type Options struct {
	// Registry is the shared tool registry. Defaults to a fresh registry
	// with stub builtin collaborators.
	Registry *tool.Registry
	// Memory is the optional recall/memorize collaborator.
	Memory memory.Store
	// Planner produces task plans. Defaults to the rule planner.
	Planner Planner
	// Ledger receives evolution records from the evolve phase. Defaults
	// to an in-memory ledger.
	Ledger evolution.Ledger
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Agent is one isolated worker. All public methods are safe for
// concurrent use; ExecuteTask serializes so at most one task is ever in
// flight.
type Agent struct {
	id       string
	config   core.AgentConfig
	registry *tool.Registry
	memory   memory.Store
	planner  Planner
	ledger   evolution.Ledger
	logger   logging.Logger

	busy sync.Mutex // single-task-in-flight

	snap struct {
		mu          sync.RWMutex
		state       core.AgentState
		currentTask string
		log         []PhaseRecord
		metrics     core.Metrics
	}
}

// New creates an agent from its immutable config.
func New(config core.AgentConfig, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Planner: RulePlanner{},
		Ledger:  evolution.NewMemoryLedger(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = tool.NewRegistry()
	}

	a := &Agent{
		id:       uuid.NewString(),
		config:   config,
		registry: opts.Registry,
		memory:   opts.Memory,
		planner:  opts.Planner,
		ledger:   opts.Ledger,
		logger:   opts.Logger,
	}
	a.snap.state = core.StateIdle
	return a
}

// ID returns the agent's unique id.
func (a *Agent) ID() string { return a.id }

// Config returns a copy of the immutable configuration.
func (a *Agent) Config() core.AgentConfig { return a.config }

// State returns the last-known state without blocking on a running task.
func (a *Agent) State() core.AgentState {
	a.snap.mu.RLock()
	defer a.snap.mu.RUnlock()
	return a.snap.state
}

// Metrics returns a copy of the performance counters.
func (a *Agent) Metrics() core.Metrics {
	a.snap.mu.RLock()
	defer a.snap.mu.RUnlock()
	return a.snap.metrics
}

// Log returns a copy of the append-only execution log.
func (a *Agent) Log() []PhaseRecord {
	a.snap.mu.RLock()
	defer a.snap.mu.RUnlock()
	out := make([]PhaseRecord, len(a.snap.log))
	copy(out, a.snap.log)
	return out
}

// Snapshot is a non-blocking status view of the agent.
type Snapshot struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Model       string       `json:"model"`
	State       string       `json:"state"`
	CurrentTask string       `json:"current_task,omitempty"`
	Metrics     core.Metrics `json:"metrics"`
}

// Status returns the last-known snapshot. It never blocks on a task.
func (a *Agent) Status() Snapshot {
	a.snap.mu.RLock()
	defer a.snap.mu.RUnlock()
	return Snapshot{
		ID:          a.id,
		Name:        a.config.Name,
		Model:       a.config.Model,
		State:       a.snap.state.String(),
		CurrentTask: a.snap.currentTask,
		Metrics:     a.snap.metrics,
	}
}

// Reset returns the agent to Idle from any state.
func (a *Agent) Reset() {
	a.snap.mu.Lock()
	a.snap.state = core.StateIdle
	a.snap.currentTask = ""
	a.snap.mu.Unlock()
}

// Quiesce blocks until no task is in flight. Used by the orchestrator to
// remove an agent safely.
func (a *Agent) Quiesce() {
	a.busy.Lock()
	a.busy.Unlock() //nolint:staticcheck // lock-then-unlock is the wait
}

// ExecuteTask runs the full Plan, Act, Reflect, Evolve loop for one task
// and returns a structured outcome. The task always ends in a terminal
// status; exactly one of tasks_completed or tasks_failed increments per
// call. Concurrent calls on the same agent serialize.
func (a *Agent) ExecuteTask(ctx context.Context, task *core.Task) core.Outcome {
	a.busy.Lock()
	defer a.busy.Unlock()

	start := time.Now()
	if timeout := a.config.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	a.snap.mu.Lock()
	a.snap.state = core.StateThinking
	a.snap.currentTask = task.ID
	a.snap.mu.Unlock()
	task.Status = core.TaskRunning

	a.logger.Info("task accepted", "agent_id", a.id, "task_id", task.ID, "description", task.Description)

	type loopResult struct {
		steps      []core.StepResult
		reflection core.Reflection
		err        error
	}
	done := make(chan loopResult, 1)
	go func() {
		steps, reflection, err := a.run(ctx, task)
		done <- loopResult{steps: steps, reflection: reflection, err: err}
	}()

	var res loopResult
	select {
	case res = <-done:
	case <-ctx.Done():
		// Abandon the current step; the loop goroutine unwinds on its
		// own once its collaborator calls observe the cancelled context.
		// Until then it may still append log entries trailing the
		// outcome returned here.
		return a.finishTimeout(task, start)
	}

	if res.err != nil {
		return a.finishFailure(task, res.err, res.steps, start)
	}
	return a.finishSuccess(task, res.steps, res.reflection, start)
}

// run executes the phases in strict order: Plan, Act, Reflect, Evolve.
func (a *Agent) run(ctx context.Context, task *core.Task) ([]core.StepResult, core.Reflection, error) {
	plan, err := a.plan(ctx, task)
	if err != nil {
		return nil, core.Reflection{}, core.NewPlanningError(err)
	}

	a.snap.mu.Lock()
	a.snap.state = core.StateExecuting
	a.snap.mu.Unlock()

	steps, err := a.act(ctx, task, plan)
	if err != nil {
		return steps, core.Reflection{}, core.NewExecutionError(err)
	}

	reflection := Reflect(steps)
	a.appendLog(PhaseReflection, map[string]any{
		"total_steps":   reflection.TotalSteps,
		"failed_steps":  reflection.FailedSteps,
		"success_rate":  reflection.SuccessRate,
		"should_evolve": reflection.ShouldEvolve,
		"insights":      reflection.Insights,
	})

	if a.config.AutoEvolve && reflection.ShouldEvolve {
		if err := a.evolve(ctx, task, reflection); err != nil {
			a.logger.Warn("evolve phase failed", "agent_id", a.id, "error", err.Error())
		}
	}
	return steps, reflection, nil
}

// plan recalls context and produces the bounded step sequence.
func (a *Agent) plan(ctx context.Context, task *core.Task) ([]Step, error) {
	var recalled []memory.Record
	if a.memory != nil {
		records, err := a.memory.Recall(ctx, task.Description, nil)
		if err != nil {
			// Memory unavailability degrades to planning without context.
			a.logger.Warn("memory recall failed", "agent_id", a.id, "error", err.Error())
		} else {
			recalled = records
		}
	}

	plan, err := a.planner.Plan(ctx, task, recalled, a.visibleToolNames(), a.config.MaxSteps)
	if err != nil {
		return nil, err
	}
	if a.config.MaxSteps > 0 && len(plan) > a.config.MaxSteps {
		plan = plan[:a.config.MaxSteps]
	}

	actions := make([]string, len(plan))
	for i, s := range plan {
		actions[i] = s.Action
	}
	a.appendLog(PhasePlanning, map[string]any{"task_id": task.ID, "steps": actions})
	return plan, nil
}

// act runs the plan steps in order. A failing step is recorded and the
// loop proceeds; only a cancelled context aborts the phase. The config
// allow-list shapes planner visibility only; the fixed action-to-tool
// mapping is not filtered here.
func (a *Agent) act(ctx context.Context, task *core.Task, plan []Step) ([]core.StepResult, error) {
	steps := make([]core.StepResult, 0, len(plan))
	for i, step := range plan {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		sr := core.StepResult{Step: i + 1, Action: step.Action}
		toolName, mapped := actionTools[step.Action]
		if mapped {
			if toolID, found := a.registry.FindByName(toolName, ""); found {
				exec := a.registry.Execute(ctx, toolID, a.id, stepArgs(toolName, task, step))
				sr.Tool = toolName
				sr.Success = exec.OK()
				sr.Result = exec.Result
				sr.Error = exec.Error
				a.snap.mu.Lock()
				a.snap.metrics.ToolsUsed++
				a.snap.mu.Unlock()
			} else {
				sr.Success = false
				sr.Error = fmt.Sprintf("no tool registered for action %q", step.Action)
			}
		} else {
			// pure reasoning step
			sr.Success = true
			sr.Result = step.Description
		}
		steps = append(steps, sr)
		a.appendLog(PhaseExecution, map[string]any{
			"step": sr.Step, "action": sr.Action, "tool": sr.Tool, "success": sr.Success,
		})
	}
	return steps, nil
}

// stepArgs shapes the arguments for the tool a plan action resolved to.
func stepArgs(toolName string, task *core.Task, step Step) map[string]any {
	switch toolName {
	case "code_execute":
		return map[string]any{"code": step.Description}
	case "memory_store":
		return map[string]any{"key": "task:" + task.ID, "value": step.Description}
	default:
		return map[string]any{"query": task.Description}
	}
}

// evolve creates exactly one new tool attributed to this agent and
// appends one evolution record. At most one evolution per task.
func (a *Agent) evolve(ctx context.Context, task *core.Task, reflection core.Reflection) error {
	a.snap.mu.Lock()
	n := a.snap.metrics.ToolsCreated + 1
	a.snap.mu.Unlock()

	name := fmt.Sprintf("autogen_%d", n)
	a.registry.Register(name, "auto-generated tool for: "+task.Description,
		util.Schema{"input": {Type: "string", Description: "Tool input"}},
		tool.InvokerFunc(func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"status": "ok", "input": args["input"]}, nil
		}), a.id)

	trigger := fmt.Sprintf("%d of %d steps failed on task %s", reflection.FailedSteps, reflection.TotalSteps, task.ID)
	rec, err := a.ledger.Append(ctx, trigger, "created tool "+name, true)
	if err != nil {
		return err
	}

	a.snap.mu.Lock()
	a.snap.metrics.ToolsCreated++
	a.snap.mu.Unlock()

	a.appendLog(PhaseEvolution, map[string]any{"tool": name, "version": rec.Version})
	a.logger.Info("agent evolved", "agent_id", a.id, "tool", name, "version", rec.Version)
	return nil
}

// visibleToolNames lists distinct registry tool names admitted by the
// allow-list, in registration order.
func (a *Agent) visibleToolNames() []string {
	defs := a.registry.List("", "")
	seen := make(map[string]bool, len(defs))
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		if seen[def.Name] || !a.config.AllowsTool(def.Name) {
			continue
		}
		seen[def.Name] = true
		names = append(names, def.Name)
	}
	return names
}

func (a *Agent) finishSuccess(task *core.Task, steps []core.StepResult, reflection core.Reflection, start time.Time) core.Outcome {
	duration := time.Since(start)
	task.Status = core.TaskCompleted
	task.Result = map[string]any{
		"steps_executed": len(steps),
		"success_rate":   reflection.SuccessRate,
	}

	a.snap.mu.Lock()
	a.snap.state = core.StateCompleted
	a.snap.currentTask = ""
	a.snap.metrics.TasksCompleted++
	n := int64(a.snap.metrics.TasksCompleted)
	a.snap.metrics.AvgLatencyMS = (a.snap.metrics.AvgLatencyMS*(n-1) + duration.Milliseconds()) / n
	a.updateSuccessRate()
	a.snap.mu.Unlock()

	a.logger.Info("task completed", "agent_id", a.id, "task_id", task.ID, "duration_ms", duration.Milliseconds())
	return core.Outcome{
		AgentID:    a.id,
		TaskID:     task.ID,
		Status:     core.TaskCompleted,
		Result:     task.Result,
		Steps:      len(steps),
		Duration:   duration,
		Reflection: &reflection,
	}
}

func (a *Agent) finishFailure(task *core.Task, err error, steps []core.StepResult, start time.Time) core.Outcome {
	duration := time.Since(start)
	task.Status = core.TaskError
	task.Error = err.Error()

	a.snap.mu.Lock()
	a.snap.state = core.StateError
	a.snap.currentTask = ""
	a.snap.metrics.TasksFailed++
	a.updateSuccessRate()
	a.snap.mu.Unlock()

	a.logger.Error("task failed", "agent_id", a.id, "task_id", task.ID, "error", err.Error())
	return core.Outcome{
		AgentID:  a.id,
		TaskID:   task.ID,
		Status:   core.TaskError,
		Error:    err.Error(),
		Steps:    len(steps),
		Duration: duration,
	}
}

// finishTimeout marks the task as timed out and returns the agent to
// Idle, per the cancellation contract.
func (a *Agent) finishTimeout(task *core.Task, start time.Time) core.Outcome {
	duration := time.Since(start)
	err := fmt.Errorf("%w: task %s exceeded %s", core.ErrTaskTimeout, task.ID, a.config.Timeout())
	task.Status = core.TaskError
	task.Error = err.Error()

	a.snap.mu.Lock()
	a.snap.state = core.StateIdle
	a.snap.currentTask = ""
	a.snap.metrics.TasksFailed++
	a.updateSuccessRate()
	a.snap.mu.Unlock()

	a.logger.Warn("task timed out", "agent_id", a.id, "task_id", task.ID, "timeout", a.config.Timeout().String())
	return core.Outcome{
		AgentID:  a.id,
		TaskID:   task.ID,
		Status:   core.TaskError,
		Error:    err.Error(),
		Duration: duration,
	}
}

// updateSuccessRate recomputes the rolling success rate. Caller holds the
// snapshot lock.
func (a *Agent) updateSuccessRate() {
	total := a.snap.metrics.TasksCompleted + a.snap.metrics.TasksFailed
	if total > 0 {
		a.snap.metrics.SuccessRate = float64(a.snap.metrics.TasksCompleted) / float64(total)
	}
}

func (a *Agent) appendLog(phase string, detail map[string]any) {
	a.snap.mu.Lock()
	a.snap.log = append(a.snap.log, PhaseRecord{Phase: phase, Detail: detail, Timestamp: time.Now()})
	a.snap.mu.Unlock()
}
