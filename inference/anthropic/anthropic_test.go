package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name       string
		configured anthropic.Model
		override   string
		want       anthropic.Model
	}{
		{
			name:       "no override keeps configured model",
			configured: anthropic.ModelClaude3_5Sonnet20241022,
			override:   "",
			want:       anthropic.ModelClaude3_5Sonnet20241022,
		},
		{
			name:       "per-call override wins",
			configured: anthropic.ModelClaude3_5Sonnet20241022,
			override:   "claude-3-5-haiku-latest",
			want:       anthropic.Model("claude-3-5-haiku-latest"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveModel(tt.configured, tt.override))
		})
	}
}

func TestNewClientAppliesOptions(t *testing.T) {
	c := NewClient(func(o *Options) {
		o.Model = anthropic.Model("claude-3-5-haiku-latest")
		o.MaxTokens = 1024
	})
	assert.Equal(t, anthropic.Model("claude-3-5-haiku-latest"), c.opts.Model)
	assert.Equal(t, int64(1024), c.opts.MaxTokens)
	assert.Equal(t, "anthropic", c.Name())
}
