package aegnt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/evolution"
)

func TestSystemDefaultsAreUsable(t *testing.T) {
	s := New()
	id := s.CreateAgent(core.DefaultAgentConfig("worker"))

	outcome, err := s.ExecuteTask(context.Background(), id, "summarize the quarter")
	require.NoError(t, err)
	assert.True(t, outcome.OK())

	status := s.Status()
	assert.Equal(t, 1, status.TotalAgents)
	assert.Equal(t, 1, status.TasksCompleted)
}

func TestSystemBroadcastAndParallel(t *testing.T) {
	s := New()
	s.CreateAgent(core.DefaultAgentConfig("a"))
	s.CreateAgent(core.DefaultAgentConfig("b"))

	outcomes := s.BroadcastTask(context.Background(), "sync up", "")
	assert.Len(t, outcomes, 2)

	results, err := s.ExecuteParallel(context.Background(), []string{"one", "two", "three"}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	for _, out := range results {
		assert.True(t, out.OK())
	}
}

func TestSystemSharesLedgerWithAgents(t *testing.T) {
	ledger := evolution.NewMemoryLedger()
	s := New(func(o *Options) { o.Ledger = ledger })

	assert.Equal(t, ledger, s.Ledger())
}

func TestSystemCreateAgentTool(t *testing.T) {
	s := New()
	s.CreateAgent(core.DefaultAgentConfig("seed"))

	registry := s.Registry()
	id, found := registry.FindByName("create_agent", "system")
	require.True(t, found)

	exec := registry.Execute(context.Background(), id, "agent-x", map[string]any{"name": "spawned"})
	require.True(t, exec.OK(), exec.Error)
	assert.Equal(t, 2, s.Status().TotalAgents, "the builtin creates a real agent")
}
