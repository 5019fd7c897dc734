package inference

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	name  string
	text  string
	err   error
	calls int
}

func (c *stubClient) Generate(context.Context, string, string, Options) (string, error) {
	c.calls++
	return c.text, c.err
}

func (c *stubClient) Name() string { return c.name }

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		input string
		want  Intent
	}{
		{input: "what time is it?", want: IntentFast},
		{input: "show me the logs", want: IntentFast},
		{input: "design a caching architecture for the api", want: IntentDeep},
		{input: "plan the migration", want: IntentDeep},
		{input: "ok", want: IntentFast},
		{input: strings.Repeat("x", 250), want: IntentDeep},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIntent(tt.input), "input: %.40s", tt.input)
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "fast", IntentFast.String())
	assert.Equal(t, "deep", IntentDeep.String())
}

func TestChainPrefersLocal(t *testing.T) {
	local := &stubClient{name: "ollama", text: "local answer"}
	cloud := &stubClient{name: "openai", text: "cloud answer"}
	chain := NewChain(local, cloud, ChainConfig{}, nil)

	text, err := chain.Generate(context.Background(), "", "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "local answer", text)
	assert.Equal(t, 0, cloud.calls)
}

func TestChainFallsBackToCloud(t *testing.T) {
	local := &stubClient{name: "ollama", err: errors.New("connection refused")}
	cloud := &stubClient{name: "openai", text: "cloud answer"}
	chain := NewChain(local, cloud, ChainConfig{}, nil)

	text, err := chain.Generate(context.Background(), "", "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "cloud answer", text)
}

func TestChainNoEngineSentinel(t *testing.T) {
	chain := NewChain(nil, nil, ChainConfig{}, nil)

	text, err := chain.Generate(context.Background(), "", "hi", Options{})
	require.NoError(t, err, "the chain degrades, never errors")
	assert.Equal(t, NoEngine, text)
}

func TestChainBreakerShortCircuitsDeadLocal(t *testing.T) {
	local := &stubClient{name: "ollama", err: errors.New("dead daemon")}
	cloud := &stubClient{name: "openai", text: "cloud answer"}
	chain := NewChain(local, cloud, ChainConfig{
		BreakerMaxFailures: 2,
		BreakerTimeout:     time.Minute,
	}, nil)

	for i := 0; i < 5; i++ {
		text, err := chain.Generate(context.Background(), "", "hi", Options{})
		require.NoError(t, err)
		assert.Equal(t, "cloud answer", text)
	}

	assert.Equal(t, 2, local.calls, "open circuit must stop hitting the local path")
	assert.Equal(t, 5, cloud.calls)
}

func TestGrounderMissingDirValidatesEverything(t *testing.T) {
	g := NewGrounder("/does/not/exist")
	report := g.Ground("any plan at all")
	assert.True(t, report.Valid)
	assert.Empty(t, report.Citations)
}
