package inference

import (
	"context"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/aegntic/aegnt-unltd/logging"
)

// NoEngine is the degraded sentinel returned by the Chain when no
// inference path is available. It is a value, not an error.
const NoEngine = "[no inference engine available]"

// Options tunes a single generation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Client is the single call shape the core consumes for model inference.
type Client interface {
	// Generate produces text for the prompt under the given system hint.
	Generate(ctx context.Context, systemHint, prompt string, opts Options) (string, error)

	// Name identifies the provider ("ollama", "openai", "anthropic").
	Name() string
}

// Intent classifies an input as a fast local query or a deep reasoning
// request, mirroring the bifurcated fast/slow routing of the reference
// system.
type Intent int

const (
	// IntentFast routes to the local low-latency path.
	IntentFast Intent = iota
	// IntentDeep routes to the cloud reasoning path.
	IntentDeep
)

// String returns the wire name of the intent.
func (i Intent) String() string {
	if i == IntentDeep {
		return "deep"
	}
	return "fast"
}

var (
	quickKeywords    = []string{"what", "how", "show", "list", "get", "?"}
	strategyKeywords = []string{"plan", "strategy", "design", "architecture", "build", "create", "analyze", "research", "develop"}
)

// ClassifyIntent is a deterministic keyword router. Strategy vocabulary
// forces the deep path; short quick-action inputs stay fast; long inputs
// default deep.
func ClassifyIntent(input string) Intent {
	lower := strings.ToLower(input)
	for _, kw := range strategyKeywords {
		if strings.Contains(lower, kw) {
			return IntentDeep
		}
	}
	if len(input) < 100 {
		for _, kw := range quickKeywords {
			if strings.Contains(lower, kw) {
				return IntentFast
			}
		}
	}
	if len(input) < 200 {
		return IntentFast
	}
	return IntentDeep
}

// ChainConfig configures the fallback chain.
type ChainConfig struct {
	// BreakerMaxFailures is the consecutive local failures before the
	// circuit opens and calls go straight to the cloud path.
	BreakerMaxFailures uint32
	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

// Chain tries the local client first and falls back to the cloud client.
// Local failures are counted by a circuit breaker so a dead daemon does
// not add latency to every call. With neither path available Generate
// returns the NoEngine sentinel and a nil error.
type Chain struct {
	local   Client
	cloud   Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  logging.Logger
}

// NewChain builds a chain over the optional local and cloud clients.
func NewChain(local, cloud Client, cfg ChainConfig, logger logging.Logger) *Chain {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := cfg.BreakerTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	c := &Chain{local: local, cloud: cloud, logger: logger}
	if local != nil {
		c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "inference:" + local.Name(),
			MaxRequests: 1, // one probe in half-open state
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("inference breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return c
}

// Generate implements Client. It never returns an error: failures degrade
// through the fallback order and end at the NoEngine sentinel.
func (c *Chain) Generate(ctx context.Context, systemHint, prompt string, opts Options) (string, error) {
	if c.local != nil {
		text, err := c.breaker.Execute(func() (string, error) {
			return c.local.Generate(ctx, systemHint, prompt, opts)
		})
		if err == nil {
			return text, nil
		}
		c.logger.Warn("local inference failed, falling back", "provider", c.local.Name(), "error", err.Error())
	}
	if c.cloud != nil {
		text, err := c.cloud.Generate(ctx, systemHint, prompt, opts)
		if err == nil {
			return text, nil
		}
		c.logger.Warn("cloud inference failed", "provider", c.cloud.Name(), "error", err.Error())
	}
	return NoEngine, nil
}

// Name implements Client.
func (c *Chain) Name() string { return "chain" }
