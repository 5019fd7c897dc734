// Package ollama implements the local inference path against an Ollama
// daemon's generate API. There is no official Go SDK; the daemon speaks a
// small JSON-over-HTTP protocol which this client calls directly.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aegntic/aegnt-unltd/inference"
)

// DefaultBaseURL is the daemon's default listen address.
const DefaultBaseURL = "http://localhost:11434"

// Options configure the Ollama client.
type Options struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client calls the Ollama /api/generate endpoint.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates an Ollama client with optional overrides.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL:    DefaultBaseURL,
		Model:      "llama3",
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{baseURL: opts.BaseURL, model: opts.Model, http: opts.HTTPClient}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements inference.Client.
func (c *Client) Generate(ctx context.Context, systemHint, prompt string, opts inference.Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}
	reqBody := generateRequest{
		Model:  model,
		Prompt: prompt,
		System: systemHint,
		Stream: false,
	}
	if opts.Temperature > 0 || opts.MaxTokens > 0 {
		reqBody.Options = map[string]any{}
		if opts.Temperature > 0 {
			reqBody.Options["temperature"] = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			reqBody.Options["num_predict"] = opts.MaxTokens
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Response, nil
}

// Name implements inference.Client.
func (c *Client) Name() string { return "ollama" }
