package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "thinking", StateThinking.String())
	assert.Equal(t, "executing", StateExecuting.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "error", StateError.String())
}

func TestAgentStateTerminal(t *testing.T) {
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateError.Terminal())
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateExecuting.Terminal())
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("find the answer")
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, TaskQueued, task.Status)
	assert.Equal(t, 1, task.Priority)
	assert.NotNil(t, task.Context)
}

func TestBroadcastCopy(t *testing.T) {
	task := NewTask("original work")
	task.Priority = 3
	task.Context["region"] = "eu"

	c := task.BroadcastCopy()
	assert.NotEqual(t, task.ID, c.ID)
	assert.Equal(t, "[Broadcast] original work", c.Description)
	assert.Equal(t, 3, c.Priority)
	assert.Equal(t, "eu", c.Context["region"])

	c.Context["region"] = "us"
	assert.Equal(t, "eu", task.Context["region"], "copies share no context map")
}

func TestPhaseErrorWrapping(t *testing.T) {
	inner := errors.New("model exploded")
	err := NewPlanningError(inner)
	assert.Contains(t, err.Error(), "planning failure")
	assert.True(t, errors.Is(err, inner))

	err = NewExecutionError(ErrTaskTimeout)
	assert.True(t, errors.Is(err, ErrTaskTimeout))
}

func TestDefaultAgentConfig(t *testing.T) {
	cfg := DefaultAgentConfig("worker")
	assert.Equal(t, "worker", cfg.Name)
	assert.Equal(t, "llama4:70b", cfg.Model)
	assert.Equal(t, 100, cfg.MaxSteps)
	assert.Equal(t, 300*time.Second, cfg.Timeout())
	assert.True(t, cfg.AutoEvolve)
}

func TestAllowsTool(t *testing.T) {
	cfg := DefaultAgentConfig("worker")
	assert.True(t, cfg.AllowsTool("memory_recall"), "category prefix match")
	assert.True(t, cfg.AllowsTool("terminal_exec"))
	assert.False(t, cfg.AllowsTool("web_search"))

	cfg.Tools = nil
	assert.True(t, cfg.AllowsTool("anything"), "empty allow-list admits all")
}

func TestGateBoundsConcurrency(t *testing.T) {
	gate := NewGate(2)
	ctx := context.Background()

	var mu sync.Mutex
	maxSeen := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, gate.Acquire(ctx))
			defer gate.Release()

			mu.Lock()
			if in := gate.InFlight(); in > maxSeen {
				maxSeen = in
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxSeen, 2)
	assert.Equal(t, 0, gate.InFlight())
}

func TestGateUnlimited(t *testing.T) {
	gate := NewGate(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, gate.Acquire(context.Background()))
	}
	assert.Equal(t, 100, gate.InFlight())
}

func TestGateHonorsContextCancel(t *testing.T) {
	gate := NewGate(1)
	require.NoError(t, gate.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := gate.Acquire(ctx)
	assert.Error(t, err)
}
