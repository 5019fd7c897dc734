// Package aegnt provides a high-level façade over the orchestration core
// and its collaborators (tool registry, memory, inference, browser,
// evolution) enabling rapid construction of self-evolving agent systems.
// Most applications interact with this package by:
//  1. Creating a System via New() (optionally overriding default in-memory collaborators)
//  2. Creating one or more agents from configs
//  3. Executing, broadcasting or batch-distributing tasks
//
// The façade delegates orchestration to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically supply
// a durable evolution ledger, a real inference chain and a structured
// logger.
package aegnt

import (
	"context"

	"github.com/aegntic/aegnt-unltd/agent"
	"github.com/aegntic/aegnt-unltd/browser"
	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/evolution"
	"github.com/aegntic/aegnt-unltd/inference"
	"github.com/aegntic/aegnt-unltd/logging"
	"github.com/aegntic/aegnt-unltd/memory"
	"github.com/aegntic/aegnt-unltd/orchestrator"
	"github.com/aegntic/aegnt-unltd/tool"
)

// Options configures the System instance.
type Options struct {
	// Memory is the recall/memorize collaborator shared by all agents.
	// Defaults to the in-process unified store.
	Memory memory.Store

	// Browser backs the browser builtin tools. Defaults to the
	// deterministic fake.
	Browser browser.Controller

	// Inference is the text generation client handed to the planner. When
	// nil, agents plan with the deterministic rule planner.
	Inference inference.Client

	// Grounder, when set alongside Inference, checks generated plans
	// against a local knowledge folder.
	Grounder *inference.Grounder

	// Ledger receives evolution records from agents and the system-level
	// feedback loop. Defaults to an in-memory ledger.
	Ledger evolution.Ledger

	// Registry overrides the shared tool registry. When nil a registry is
	// built over the collaborators above.
	Registry *tool.Registry

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// System is the high-level façade aggregating the orchestrator and its
// collaborators.
type System struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a System with optional overrides. Any unset collaborator is
// initialized with an in-process implementation.
func New(optFns ...func(o *Options)) *System {
	opts := Options{
		Memory:  memory.NewUnifiedStore(0),
		Browser: browser.NewFake(),
		Ledger:  evolution.NewMemoryLedger(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &System{opts: opts}

	if opts.Registry == nil {
		opts.Registry = tool.NewRegistry(func(o *tool.RegistryOptions) {
			o.Logger = opts.Logger
			o.Builtins = tool.Builtins(tool.Deps{
				Memory:  opts.Memory,
				Browser: opts.Browser,
				CreateAgent: func(_ context.Context, name, model string) (string, error) {
					cfg := core.DefaultAgentConfig(name)
					cfg.Model = model
					return s.orch.CreateAgent(cfg), nil
				},
			})
		})
	}

	var planner agent.Planner = agent.RulePlanner{}
	if opts.Inference != nil {
		p := agent.NewInferencePlanner(opts.Inference)
		if opts.Grounder != nil {
			p = p.WithGrounder(opts.Grounder)
		}
		planner = p
	}

	s.orch = orchestrator.New(func(o *orchestrator.Options) {
		o.Registry = opts.Registry
		o.Memory = opts.Memory
		o.Planner = planner
		o.Ledger = opts.Ledger
		o.Logger = opts.Logger
	})
	return s
}

// Orchestrator returns the underlying orchestrator.
func (s *System) Orchestrator() *orchestrator.Orchestrator { return s.orch }

// Registry returns the shared tool registry.
func (s *System) Registry() *tool.Registry { return s.orch.Registry() }

// Ledger returns the evolution ledger.
func (s *System) Ledger() evolution.Ledger { return s.opts.Ledger }

// CreateAgent creates an agent from its config and returns its id.
func (s *System) CreateAgent(config core.AgentConfig) string {
	return s.orch.CreateAgent(config)
}

// ExecuteTask is a synchronous helper routing one task to one agent.
func (s *System) ExecuteTask(ctx context.Context, agentID, description string) (core.Outcome, error) {
	return s.orch.ExecuteTask(ctx, agentID, core.NewTask(description))
}

// BroadcastTask dispatches independent copies of the task description to
// every agent matching nameFilter.
func (s *System) BroadcastTask(ctx context.Context, description, nameFilter string) []core.Outcome {
	return s.orch.BroadcastTask(ctx, core.NewTask(description), nameFilter)
}

// ExecuteParallel distributes descriptions across the agent pool with at
// most maxConcurrent tasks in flight.
func (s *System) ExecuteParallel(ctx context.Context, descriptions []string, maxConcurrent int) ([]core.Outcome, error) {
	tasks := make([]*core.Task, len(descriptions))
	for i, d := range descriptions {
		tasks[i] = core.NewTask(d)
	}
	return s.orch.ExecuteParallel(ctx, tasks, maxConcurrent)
}

// Status returns the aggregated system view.
func (s *System) Status() orchestrator.SystemStatus { return s.orch.Status() }
