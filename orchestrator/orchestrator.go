package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aegntic/aegnt-unltd/agent"
	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/evolution"
	"github.com/aegntic/aegnt-unltd/logging"
	"github.com/aegntic/aegnt-unltd/memory"
	"github.com/aegntic/aegnt-unltd/tool"
)

// Options configure the orchestrator and the defaults handed to every
// agent it creates.
type Options struct {
	// Registry is the tool registry shared across all agents. Defaults to
	// a fresh registry with stub builtin collaborators.
	Registry *tool.Registry
	// Memory is the optional recall/memorize collaborator shared across
	// agents.
	Memory memory.Store
	// Planner is the planner handed to created agents. Defaults to the
	// rule planner.
	Planner agent.Planner
	// Ledger receives evolution records from all agents. Defaults to an
	// in-memory ledger.
	Ledger evolution.Ledger
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator owns the set of agents and the master task table.
type Orchestrator struct {
	registry *tool.Registry
	memory   memory.Store
	planner  agent.Planner
	ledger   evolution.Ledger
	logger   logging.Logger

	mu     sync.RWMutex
	agents map[string]*agent.Agent
	order  []string // agent insertion order, drives round-robin
	tasks  map[string]*core.Task
}

// New creates an orchestrator with optional overrides.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Planner: agent.RulePlanner{},
		Ledger:  evolution.NewMemoryLedger(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = tool.NewRegistry(func(o *tool.RegistryOptions) {
			o.Logger = opts.Logger
			o.Builtins = tool.Builtins(tool.Deps{Memory: opts.Memory})
		})
	}

	return &Orchestrator{
		registry: opts.Registry,
		memory:   opts.Memory,
		planner:  opts.Planner,
		ledger:   opts.Ledger,
		logger:   opts.Logger,
		agents:   make(map[string]*agent.Agent),
		tasks:    make(map[string]*core.Task),
	}
}

// Registry returns the shared tool registry.
func (o *Orchestrator) Registry() *tool.Registry { return o.registry }

// CreateAgent instantiates and registers an agent, returning its unique
// id.
func (o *Orchestrator) CreateAgent(config core.AgentConfig) string {
	a := agent.New(config, func(ao *agent.Options) {
		ao.Registry = o.registry
		ao.Memory = o.memory
		ao.Planner = o.planner
		ao.Ledger = o.ledger
		ao.Logger = o.logger
	})

	o.mu.Lock()
	o.agents[a.ID()] = a
	o.order = append(o.order, a.ID())
	o.mu.Unlock()

	o.logger.Info("agent created", "agent_id", a.ID(), "name", config.Name, "model", config.Model)
	return a.ID()
}

// Agent returns the agent for the id or core.ErrAgentNotFound.
func (o *Orchestrator) Agent(agentID string) (*agent.Agent, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	a, exists := o.agents[agentID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrAgentNotFound, agentID)
	}
	return a, nil
}

// ExecuteTask routes the task to the named agent and returns its outcome
// unmodified. Unknown ids fail with core.ErrAgentNotFound.
func (o *Orchestrator) ExecuteTask(ctx context.Context, agentID string, task *core.Task) (core.Outcome, error) {
	a, err := o.Agent(agentID)
	if err != nil {
		return core.Outcome{}, err
	}

	o.mu.Lock()
	o.tasks[task.ID] = task
	o.mu.Unlock()

	return a.ExecuteTask(ctx, task), nil
}

// BroadcastTask executes an independent copy of the task on every agent
// whose name contains nameFilter (all agents when empty). Copies run
// concurrently; a failing copy never aborts the others. Outcomes are
// returned in agent registration order.
func (o *Orchestrator) BroadcastTask(ctx context.Context, task *core.Task, nameFilter string) []core.Outcome {
	o.mu.RLock()
	targets := make([]*agent.Agent, 0, len(o.order))
	for _, id := range o.order {
		a := o.agents[id]
		if nameFilter != "" && !strings.Contains(a.Config().Name, nameFilter) {
			continue
		}
		targets = append(targets, a)
	}
	o.mu.RUnlock()

	outcomes := make([]core.Outcome, len(targets))
	var wg sync.WaitGroup
	for i, a := range targets {
		taskCopy := task.BroadcastCopy()
		o.mu.Lock()
		o.tasks[taskCopy.ID] = taskCopy
		o.mu.Unlock()

		wg.Add(1)
		go func(i int, a *agent.Agent, t *core.Task) {
			defer wg.Done()
			outcomes[i] = a.ExecuteTask(ctx, t)
		}(i, a, taskCopy)
	}
	wg.Wait()
	return outcomes
}

// ExecuteParallel distributes tasks across the agent pool round-robin by
// index modulo agent count, with at most maxConcurrent tasks in flight
// regardless of pool size. A failing task yields an error outcome in
// place; the returned slice matches the input order exactly.
func (o *Orchestrator) ExecuteParallel(ctx context.Context, tasks []*core.Task, maxConcurrent int) ([]core.Outcome, error) {
	o.mu.RLock()
	pool := make([]*agent.Agent, 0, len(o.order))
	for _, id := range o.order {
		pool = append(pool, o.agents[id])
	}
	o.mu.RUnlock()

	if len(pool) == 0 {
		return nil, core.ErrNoAgents
	}

	o.mu.Lock()
	for _, t := range tasks {
		o.tasks[t.ID] = t
	}
	o.mu.Unlock()

	gate := core.NewGate(maxConcurrent)
	outcomes := make([]core.Outcome, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t *core.Task, a *agent.Agent) {
			defer wg.Done()
			if err := gate.Acquire(ctx); err != nil {
				t.Status = core.TaskError
				t.Error = err.Error()
				outcomes[i] = core.Outcome{AgentID: a.ID(), TaskID: t.ID, Status: core.TaskError, Error: err.Error()}
				return
			}
			defer gate.Release()
			outcomes[i] = a.ExecuteTask(ctx, t)
		}(i, t, pool[i%len(pool)])
	}
	wg.Wait()
	return outcomes, nil
}

// RemoveAgent removes the agent, waiting for any in-flight task to reach
// a terminal state first. Returns false for unknown ids.
func (o *Orchestrator) RemoveAgent(agentID string) bool {
	o.mu.RLock()
	a, exists := o.agents[agentID]
	o.mu.RUnlock()
	if !exists {
		return false
	}

	a.Quiesce()

	o.mu.Lock()
	delete(o.agents, agentID)
	for i, id := range o.order {
		if id == agentID {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	o.mu.Unlock()

	o.logger.Info("agent removed", "agent_id", agentID)
	return true
}

// Task returns the task for the id or core.ErrTaskNotFound.
func (o *Orchestrator) Task(taskID string) (*core.Task, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	t, exists := o.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrTaskNotFound, taskID)
	}
	return t, nil
}

// AgentStatus returns the agent's last-known snapshot without blocking on
// a running task.
func (o *Orchestrator) AgentStatus(agentID string) (agent.Snapshot, error) {
	a, err := o.Agent(agentID)
	if err != nil {
		return agent.Snapshot{}, err
	}
	return a.Status(), nil
}

// ListAgents returns snapshots of all agents in registration order.
func (o *Orchestrator) ListAgents() []agent.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]agent.Snapshot, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.agents[id].Status())
	}
	return out
}

// SystemStatus is the aggregated pool view.
type SystemStatus struct {
	TotalAgents    int     `json:"total_agents"`
	ActiveAgents   int     `json:"active_agents"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksFailed    int     `json:"tasks_failed"`
	ToolsCreated   int     `json:"tools_created"`
	TotalTools     int     `json:"total_tools"`
	AvgSuccessRate float64 `json:"avg_success_rate"`
}

// Status aggregates last-known agent snapshots into a system view. Pure
// read; never blocks on in-flight tasks.
func (o *Orchestrator) Status() SystemStatus {
	snapshots := o.ListAgents()

	s := SystemStatus{TotalAgents: len(snapshots), TotalTools: o.registry.Len()}
	var rateSum float64
	for _, snap := range snapshots {
		if snap.State == core.StateThinking.String() || snap.State == core.StateExecuting.String() {
			s.ActiveAgents++
		}
		s.TasksCompleted += snap.Metrics.TasksCompleted
		s.TasksFailed += snap.Metrics.TasksFailed
		s.ToolsCreated += snap.Metrics.ToolsCreated
		rateSum += snap.Metrics.SuccessRate
	}
	if len(snapshots) > 0 {
		s.AvgSuccessRate = rateSum / float64(len(snapshots))
	}
	return s
}
