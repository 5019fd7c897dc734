package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, 0.15, cfg.Evolution.Threshold)
	assert.True(t, cfg.Inference.Ollama.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
logging:
  level: debug
  format: json
inference:
  cloud: anthropic
  ollama:
    enabled: false
evolution:
  threshold: 0.3
  schedule: "0 4 * * *"
agents:
  - name: researcher
    model: llama4:70b
    max_steps: 10
    auto_evolve: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "anthropic", cfg.Inference.Cloud)
	assert.False(t, cfg.Inference.Ollama.Enabled)
	assert.Equal(t, 0.3, cfg.Evolution.Threshold)

	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "researcher", cfg.Agents[0].Name)
	assert.Equal(t, 10, cfg.Agents[0].MaxSteps)
	assert.True(t, cfg.Agents[0].AutoEvolve)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad port", yaml: "server:\n  port: -1\n"},
		{name: "bad format", yaml: "logging:\n  format: xml\n"},
		{name: "bad cloud", yaml: "inference:\n  cloud: gemini\n"},
		{name: "bad threshold", yaml: "evolution:\n  threshold: 1.5\n"},
		{name: "unnamed agent", yaml: "agents:\n  - model: llama4:70b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}
