package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/inference"
	"github.com/aegntic/aegnt-unltd/internal/util"
	"github.com/aegntic/aegnt-unltd/memory"
)

// Canonical plan actions. Each maps to at most one builtin tool during
// the act phase.
const (
	ActionAnalyze = "analyze"
	ActionGather  = "gather"
	ActionExecute = "execute"
	ActionVerify  = "verify"
)

// actionTools maps a plan action to the builtin tool it resolves to. An
// unmapped action runs as a pure reasoning step with no tool call.
var actionTools = map[string]string{
	ActionAnalyze: "memory_recall",
	ActionGather:  "web_search",
	ActionExecute: "code_execute",
	ActionVerify:  "memory_store",
}

// Step is one named entry of a plan.
type Step struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Planner produces an ordered plan for a task. Plan must be a pure
// function of its arguments so implementations are independently
// testable; maxSteps bounds the returned slice.
type Planner interface {
	Plan(ctx context.Context, task *core.Task, recalled []memory.Record, toolNames []string, maxSteps int) ([]Step, error)
}

// RulePlanner is the deterministic default: the canonical
// analyze/gather/execute/verify sequence truncated to maxSteps.
type RulePlanner struct{}

// Plan implements Planner.
func (RulePlanner) Plan(_ context.Context, task *core.Task, _ []memory.Record, _ []string, maxSteps int) ([]Step, error) {
	steps := []Step{
		{Action: ActionAnalyze, Description: "analyze the task: " + task.Description},
		{Action: ActionGather, Description: "gather relevant information"},
		{Action: ActionExecute, Description: "execute the required actions"},
		{Action: ActionVerify, Description: "verify the results"},
	}
	if maxSteps > 0 && len(steps) > maxSteps {
		steps = steps[:maxSteps]
	}
	return steps, nil
}

const plannerPrompt = `Task: {{.task}}

Available tools: {{join ", " .tools}}
{{if .context}}Relevant context:
{{.context}}
{{end}}Produce a short numbered plan. Each line must start with one of the
actions [analyze, gather, execute, verify] followed by a description.`

// InferencePlanner asks an inference client for a plan and parses its
// numbered lines. Any line that does not parse, a degraded inference
// response, or a plan the grounder rejects falls back to the rule plan so
// planning never fails the task on collaborator unavailability.
type InferencePlanner struct {
	client   inference.Client
	grounder *inference.Grounder
}

// NewInferencePlanner wraps an inference client as a Planner.
func NewInferencePlanner(client inference.Client) *InferencePlanner {
	return &InferencePlanner{client: client}
}

// WithGrounder checks generated plans against a local knowledge folder
// before accepting them.
func (p *InferencePlanner) WithGrounder(g *inference.Grounder) *InferencePlanner {
	p.grounder = g
	return p
}

// Plan implements Planner.
func (p *InferencePlanner) Plan(ctx context.Context, task *core.Task, recalled []memory.Record, toolNames []string, maxSteps int) ([]Step, error) {
	var contextText strings.Builder
	for _, rec := range recalled {
		contextText.WriteString("- " + rec.Content + "\n")
	}

	prompt, err := util.RenderTemplate(plannerPrompt, map[string]any{
		"task":    task.Description,
		"tools":   toAnySlice(toolNames),
		"context": contextText.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("render planner prompt: %w", err)
	}

	text, err := p.client.Generate(ctx, "You are a task planner.", prompt, inference.Options{})
	if err != nil || text == inference.NoEngine {
		return RulePlanner{}.Plan(ctx, task, recalled, toolNames, maxSteps)
	}
	if p.grounder != nil {
		if report := p.grounder.Ground(text); !report.Valid {
			return RulePlanner{}.Plan(ctx, task, recalled, toolNames, maxSteps)
		}
	}

	steps := parsePlan(text, maxSteps)
	if len(steps) == 0 {
		return RulePlanner{}.Plan(ctx, task, recalled, toolNames, maxSteps)
	}
	return steps, nil
}

// parsePlan extracts "<n>. <action> <description>" lines.
func parsePlan(text string, maxSteps int) []Step {
	var steps []Step
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// strip a leading "1." / "2)" style marker
		if idx := strings.IndexAny(line, ".)"); idx > 0 && idx < 4 {
			if _, err := fmt.Sscanf(line[:idx], "%d", new(int)); err == nil {
				line = strings.TrimSpace(line[idx+1:])
			}
		}
		action, rest, _ := strings.Cut(line, " ")
		action = strings.ToLower(strings.Trim(action, ":"))
		if _, known := actionTools[action]; !known {
			continue
		}
		steps = append(steps, Step{Action: action, Description: strings.TrimSpace(rest)})
		if maxSteps > 0 && len(steps) == maxSteps {
			break
		}
	}
	return steps
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
