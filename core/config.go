package core

import (
	"strings"
	"time"
)

// AgentConfig holds the immutable creation parameters of an agent.
// It is set once at creation and never mutated afterwards; copies are
// handed out by value to keep the invariant cheap to uphold.
type AgentConfig struct {
	// Name is the human-facing agent name. Names need not be unique;
	// identity is carried by the agent id.
	Name string `json:"name" yaml:"name"`

	// Model is the inference model identifier (e.g. "llama4:70b").
	Model string `json:"model" yaml:"model"`

	// MaxMemoryMB caps the memory budget advertised to collaborators.
	MaxMemoryMB int `json:"max_memory_mb" yaml:"max_memory_mb"`

	// MaxSteps bounds the number of plan steps executed per task.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`

	// TimeoutSeconds bounds wall-clock execution of a single task.
	// Zero means no timeout.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// Tools is the allow-list of tool names the agent may resolve.
	// Empty means all registry tools are visible.
	Tools []string `json:"tools" yaml:"tools"`

	// AutoEvolve enables the per-task evolve phase after reflection.
	AutoEvolve bool `json:"auto_evolve" yaml:"auto_evolve"`
}

// DefaultAgentConfig returns the baseline configuration used when callers
// omit fields. Values match the reference deployment defaults.
func DefaultAgentConfig(name string) AgentConfig {
	return AgentConfig{
		Name:           name,
		Model:          "llama4:70b",
		MaxMemoryMB:    2048,
		MaxSteps:       100,
		TimeoutSeconds: 300,
		Tools:          []string{"terminal", "browser", "memory"},
		AutoEvolve:     true,
	}
}

// Timeout returns the task timeout as a duration, zero when unset.
func (c AgentConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AllowsTool reports whether the allow-list admits the named tool. An
// entry matches exactly or as a category prefix, so "memory" admits both
// memory_store and memory_recall.
func (c AgentConfig) AllowsTool(name string) bool {
	if len(c.Tools) == 0 {
		return true
	}
	for _, t := range c.Tools {
		if t == name || strings.HasPrefix(name, t+"_") {
			return true
		}
	}
	return false
}
