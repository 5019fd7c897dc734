package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aegntic/aegnt-unltd/core"
	"github.com/aegntic/aegnt-unltd/evolution"
)

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig       `yaml:"server"`
	Logging   LoggingConfig      `yaml:"logging"`
	Inference InferenceConfig    `yaml:"inference"`
	Evolution EvolutionConfig    `yaml:"evolution"`
	Memory    MemoryConfig       `yaml:"memory"`
	Browser   BrowserConfig      `yaml:"browser"`
	Agents    []core.AgentConfig `yaml:"agents"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// InferenceConfig configures the local-first inference chain.
type InferenceConfig struct {
	Ollama    OllamaConfig    `yaml:"ollama"`
	OpenAI    ProviderConfig  `yaml:"openai"`
	Anthropic ProviderConfig  `yaml:"anthropic"`
	Cloud     string          `yaml:"cloud"` // "openai", "anthropic" or "" for none
	Grounding GroundingConfig `yaml:"grounding"`
}

// OllamaConfig configures the local Ollama path.
type OllamaConfig struct {
	URL     string `yaml:"url"`
	Model   string `yaml:"model"`
	Enabled bool   `yaml:"enabled"`
}

// ProviderConfig configures one cloud provider.
type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// GroundingConfig points at the local knowledge folder plans are checked
// against.
type GroundingConfig struct {
	Dir string `yaml:"dir"`
}

// EvolutionConfig configures the nightly feedback loop.
type EvolutionConfig struct {
	Threshold  float64 `yaml:"threshold"`
	LogDir     string  `yaml:"log_dir"`
	LedgerPath string  `yaml:"ledger_path"` // .db for sqlite, .json for file
	Schedule   string  `yaml:"schedule"`
	WindowDays int     `yaml:"window_days"`
}

// MemoryConfig configures the unified memory store.
type MemoryConfig struct {
	RecallLimit int `yaml:"recall_limit"`
}

// BrowserConfig configures the browser collaborator.
type BrowserConfig struct {
	Enabled   bool   `yaml:"enabled"`
	RemoteURL string `yaml:"remote_url"`
	Headless  bool   `yaml:"headless"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8000,
			ShutdownTimeoutSeconds: 15,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Inference: InferenceConfig{
			Ollama: OllamaConfig{
				URL:     "http://localhost:11434",
				Model:   "llama4:70b",
				Enabled: true,
			},
		},
		Evolution: EvolutionConfig{
			Threshold:  evolution.DefaultThreshold,
			LogDir:     "data/interactions",
			LedgerPath: "data/evolution.json",
			Schedule:   evolution.DefaultSchedule,
			WindowDays: 7,
		},
		Memory:  MemoryConfig{RecallLimit: 10},
		Browser: BrowserConfig{Headless: true},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	switch c.Inference.Cloud {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("invalid cloud provider %q", c.Inference.Cloud)
	}
	if c.Evolution.Threshold < 0 || c.Evolution.Threshold > 1 {
		return fmt.Errorf("evolution threshold %f out of [0,1]", c.Evolution.Threshold)
	}
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agents[%d]: name is required", i)
		}
	}
	return nil
}
