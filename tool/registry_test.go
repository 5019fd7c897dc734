package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/internal/util"
)

func echoInvoker() Invoker {
	return InvokerFunc(func(_ context.Context, args map[string]any) (any, error) {
		return args, nil
	})
}

func failingInvoker(msg string) Invoker {
	return InvokerFunc(func(context.Context, map[string]any) (any, error) {
		return nil, errors.New(msg)
	})
}

func TestNewRegistryRegistersBuiltins(t *testing.T) {
	r := NewRegistry()

	defs := r.List(SystemCreator, "")
	require.Len(t, defs, 10)
	for _, def := range defs {
		assert.Equal(t, SystemCreator, def.CreatedBy)
		assert.NotEmpty(t, def.ID)
	}

	names := make(map[string]bool)
	for _, def := range defs {
		names[def.Name] = true
	}
	for _, want := range []string{
		"web_search", "browser_navigate", "terminal_exec", "file_read", "file_write",
		"memory_store", "memory_recall", "code_execute", "create_agent", "http_request",
	} {
		assert.True(t, names[want], "missing builtin %s", want)
	}
}

func TestRegisterAssignsDistinctIDs(t *testing.T) {
	r := NewRegistry()

	const n = 50
	ids := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := r.Register(fmt.Sprintf("tool_%d", i), "test tool", nil, echoInvoker(), "agent-1")
		assert.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
	assert.Len(t, ids, n)
}

func TestLookupUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrToolNotFound))
}

func TestExecuteUnknownIDReturnsErrorRecord(t *testing.T) {
	r := NewRegistry()

	exec := r.Execute(context.Background(), "missing", "agent-1", nil)
	assert.False(t, exec.OK())
	assert.Contains(t, exec.Error, "not found")
	assert.Equal(t, "missing", exec.ToolID)

	// not-found records never enter the history or the stats rollup
	assert.Empty(t, r.Executions())
	stats := r.Stats()
	assert.Equal(t, 0, stats.TotalExecutions)
	assert.Equal(t, 0.0, stats.SuccessRate)
}

func TestExecuteUpdatesStatistics(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	id := r.Register("flaky", "fails every other call", nil, failingInvoker("boom"), "agent-1")

	ok := r.Execute(context.Background(), id, "agent-1", nil)
	assert.False(t, ok.OK())

	def, err := r.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, 1, def.UsageCount)
	assert.Equal(t, 0.0, def.SuccessRate)

	okID := r.Register("steady", "always succeeds", nil, echoInvoker(), "agent-1")
	r.Execute(context.Background(), okID, "agent-1", nil)
	r.Execute(context.Background(), okID, "agent-1", nil)

	def, err = r.Lookup(okID)
	require.NoError(t, err)
	assert.Equal(t, 2, def.UsageCount)
	assert.Equal(t, 1.0, def.SuccessRate)
}

func TestExecuteValidatesArguments(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	id := r.Register("typed", "wants a string", util.Schema{
		"name": {Type: "string"},
	}, echoInvoker(), "agent-1")

	exec := r.Execute(context.Background(), id, "agent-1", map[string]any{})
	assert.False(t, exec.OK())
	assert.Contains(t, exec.Error, "VALIDATION_ERROR")
}

func TestExecuteAppliesDefaults(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	id := r.Register("defaulted", "", util.Schema{
		"limit": {Type: "integer", Default: 5},
	}, echoInvoker(), "agent-1")

	exec := r.Execute(context.Background(), id, "agent-1", map[string]any{})
	require.True(t, exec.OK())
	result, ok := exec.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 5, result["limit"])
}

func TestExecuteRecoversPanics(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	id := r.Register("panicky", "", nil, InvokerFunc(func(context.Context, map[string]any) (any, error) {
		panic("tool blew up")
	}), "agent-1")

	exec := r.Execute(context.Background(), id, "agent-1", nil)
	assert.False(t, exec.OK())
	assert.Contains(t, exec.Error, "PANIC")
	assert.Contains(t, exec.Error, "tool blew up")
}

func TestFindByName(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	first := r.Register("shared", "", nil, echoInvoker(), "agent-1")
	r.Register("shared", "", nil, echoInvoker(), "agent-2")

	id, found := r.FindByName("shared", "")
	require.True(t, found)
	assert.Equal(t, first, id, "insertion order first match wins")

	id, found = r.FindByName("shared", "agent-2")
	require.True(t, found)
	assert.NotEqual(t, first, id)

	_, found = r.FindByName("nope", "")
	assert.False(t, found)
}

func TestListFilters(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	r.Register("alpha_search", "searches alpha sources", nil, echoInvoker(), "agent-1")
	r.Register("beta_store", "stores beta data", nil, echoInvoker(), "agent-2")

	assert.Len(t, r.List("agent-1", ""), 1)
	assert.Len(t, r.List("", "beta"), 1)
	assert.Len(t, r.List("", ""), 2)
	assert.Empty(t, r.List("agent-3", ""))
}

func TestStatsRollup(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })
	good := r.Register("good", "", nil, echoInvoker(), "agent-1")
	bad := r.Register("bad", "", nil, failingInvoker("nope"), "agent-1")

	r.Execute(context.Background(), good, "agent-1", nil)
	r.Execute(context.Background(), bad, "agent-1", nil)

	stats := r.Stats()
	assert.Equal(t, 2, stats.TotalTools)
	assert.Equal(t, 2, stats.TotalExecutions)
	assert.Equal(t, 0.5, stats.SuccessRate)
	assert.Equal(t, 1.0, stats.Tools["good"].SuccessRate)
	assert.Equal(t, 0.0, stats.Tools["bad"].SuccessRate)
}

func TestConcurrentRegistration(t *testing.T) {
	r := NewRegistry(func(o *RegistryOptions) { o.Builtins = []Spec{} })

	const n = 32
	done := make(chan string, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			done <- r.Register(fmt.Sprintf("c_%d", i), "", nil, echoInvoker(), "agent-1")
		}(i)
	}

	ids := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		ids[<-done] = true
	}
	assert.Len(t, ids, n)
	assert.Equal(t, n, r.Len())
}
