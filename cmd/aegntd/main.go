// Command aegntd runs the agent orchestration daemon: HTTP task API plus
// the nightly evolution scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	aegnt "github.com/aegntic/aegnt-unltd"
	"github.com/aegntic/aegnt-unltd/browser"
	"github.com/aegntic/aegnt-unltd/config"
	"github.com/aegntic/aegnt-unltd/evolution"
	"github.com/aegntic/aegnt-unltd/inference"
	"github.com/aegntic/aegnt-unltd/inference/anthropic"
	"github.com/aegntic/aegnt-unltd/inference/ollama"
	"github.com/aegntic/aegnt-unltd/inference/openai"
	"github.com/aegntic/aegnt-unltd/logging"
	"github.com/aegntic/aegnt-unltd/memory"
	"github.com/aegntic/aegnt-unltd/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "aegntd:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Output:    os.Stdout,
		Component: "aegntd",
	})

	ledger, err := openLedger(cfg.Evolution.LedgerPath)
	if err != nil {
		return err
	}

	ctrl, err := newBrowser(cfg.Browser)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	system := aegnt.New(func(o *aegnt.Options) {
		o.Memory = memory.NewUnifiedStore(cfg.Memory.RecallLimit)
		o.Browser = ctrl
		o.Inference = newInferenceChain(cfg.Inference, logger)
		o.Ledger = ledger
		o.Logger = logger
		if cfg.Inference.Grounding.Dir != "" {
			o.Grounder = inference.NewGrounder(cfg.Inference.Grounding.Dir)
		}
	})

	for _, agentCfg := range cfg.Agents {
		id := system.CreateAgent(agentCfg)
		logger.Info("preconfigured agent created", "agent_id", id, "name", agentCfg.Name)
	}

	interactions, err := evolution.NewInteractionLog(cfg.Evolution.LogDir)
	if err != nil {
		return err
	}
	engine := evolution.NewEngine(interactions, func(o *evolution.EngineOptions) {
		o.Threshold = cfg.Evolution.Threshold
		o.Ledger = ledger
		o.WindowDays = cfg.Evolution.WindowDays
		o.Logger = logger.WithComponent("evolution")
	})
	scheduler, err := evolution.NewScheduler(engine, cfg.Evolution.Schedule, logger.WithComponent("evolution"))
	if err != nil {
		return err
	}
	scheduler.Start()

	srv := server.New(system.Orchestrator(), func(o *server.Options) {
		o.Addr = cfg.Server.Addr()
		o.Models = modelList(cfg)
		o.Logger = logger.WithComponent("server")
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func logLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

func openLedger(path string) (evolution.Ledger, error) {
	switch {
	case path == "":
		return evolution.NewMemoryLedger(), nil
	case strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite"):
		return evolution.NewSQLiteLedger(path)
	default:
		return evolution.NewJSONLedger(path)
	}
}

func newBrowser(cfg config.BrowserConfig) (browser.Controller, error) {
	if !cfg.Enabled {
		return browser.NewFake(), nil
	}
	return browser.NewChromeDP(browser.ChromeDPConfig{
		RemoteURL: cfg.RemoteURL,
		Headless:  cfg.Headless,
	})
}

// newInferenceChain builds the local-first chain: Ollama when enabled,
// then the configured cloud provider. With neither, the chain degrades to
// the no-engine sentinel and agents plan deterministically.
func newInferenceChain(cfg config.InferenceConfig, logger logging.Logger) inference.Client {
	var local inference.Client
	if cfg.Ollama.Enabled {
		local = ollama.NewClient(func(o *ollama.Options) {
			if cfg.Ollama.URL != "" {
				o.BaseURL = cfg.Ollama.URL
			}
			if cfg.Ollama.Model != "" {
				o.Model = cfg.Ollama.Model
			}
		})
	}

	var cloud inference.Client
	switch cfg.Cloud {
	case "openai":
		cloud = openai.NewClient(func(o *openai.Options) {
			if cfg.OpenAI.Model != "" {
				o.Model = cfg.OpenAI.Model
			}
		})
	case "anthropic":
		cloud = anthropic.NewClient(func(o *anthropic.Options) {
			o.APIKey = cfg.Anthropic.APIKey
		})
	}

	return inference.NewChain(local, cloud, inference.ChainConfig{}, logger)
}

func modelList(cfg config.Config) []string {
	models := []string{}
	if cfg.Inference.Ollama.Enabled {
		models = append(models, cfg.Inference.Ollama.Model)
	}
	switch cfg.Inference.Cloud {
	case "openai":
		models = append(models, cfg.Inference.OpenAI.Model)
	case "anthropic":
		models = append(models, cfg.Inference.Anthropic.Model)
	}
	return models
}
