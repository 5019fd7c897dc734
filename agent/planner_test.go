package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/inference"
)

type fixedClient struct {
	text string
	err  error
}

func (c fixedClient) Generate(context.Context, string, string, inference.Options) (string, error) {
	return c.text, c.err
}

func (fixedClient) Name() string { return "fixed" }

func TestRulePlannerBoundsSteps(t *testing.T) {
	task := core.NewTask("find the answer")

	plan, err := RulePlanner{}.Plan(context.Background(), task, nil, nil, 3)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, ActionAnalyze, plan[0].Action)
	assert.Equal(t, ActionGather, plan[1].Action)
	assert.Equal(t, ActionExecute, plan[2].Action)

	plan, err = RulePlanner{}.Plan(context.Background(), task, nil, nil, 0)
	require.NoError(t, err)
	assert.Len(t, plan, 4)
}

func TestRulePlannerIsPure(t *testing.T) {
	task := core.NewTask("same task")
	first, err := RulePlanner{}.Plan(context.Background(), task, nil, nil, 4)
	require.NoError(t, err)
	second, err := RulePlanner{}.Plan(context.Background(), task, nil, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInferencePlannerParsesNumberedPlan(t *testing.T) {
	p := NewInferencePlanner(fixedClient{text: "1. analyze the request\n2. gather background data\n3. execute the fix\nnot a step line"})

	plan, err := p.Plan(context.Background(), core.NewTask("fix it"), nil, []string{"web_search"}, 10)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, ActionAnalyze, plan[0].Action)
	assert.Equal(t, "the request", plan[0].Description)
	assert.Equal(t, ActionExecute, plan[2].Action)
}

func TestInferencePlannerFallsBackOnNoEngine(t *testing.T) {
	p := NewInferencePlanner(fixedClient{text: inference.NoEngine})

	plan, err := p.Plan(context.Background(), core.NewTask("anything"), nil, nil, 2)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, ActionAnalyze, plan[0].Action)
}

func TestInferencePlannerFallsBackOnError(t *testing.T) {
	p := NewInferencePlanner(fixedClient{err: errors.New("connection refused")})

	plan, err := p.Plan(context.Background(), core.NewTask("anything"), nil, nil, 4)
	require.NoError(t, err)
	assert.Len(t, plan, 4)
}

func TestInferencePlannerFallsBackOnUnparseableText(t *testing.T) {
	p := NewInferencePlanner(fixedClient{text: "I cannot help with that."})

	plan, err := p.Plan(context.Background(), core.NewTask("anything"), nil, nil, 4)
	require.NoError(t, err)
	assert.Len(t, plan, 4)
}

func TestParsePlanRespectsMaxSteps(t *testing.T) {
	steps := parsePlan("1. analyze a\n2. gather b\n3. execute c\n4. verify d", 2)
	require.Len(t, steps, 2)
	assert.Equal(t, ActionGather, steps[1].Action)
}
