// Package anthropic implements the cloud inference path using the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aegntic/aegnt-unltd/inference"
)

// Options configure the Anthropic client adapter (model id, temperature,
// max tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Client wraps the Anthropic Messages API behind inference.Client.
type Client struct {
	client *anthropic.Client
	opts   Options
}

// NewClient creates a client using the official SDK.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// NewClientFromSDK creates a client from an existing SDK client.
func NewClientFromSDK(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Generate implements inference.Client.
func (c *Client) Generate(ctx context.Context, systemHint, prompt string, opts inference.Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.opts.MaxTokens
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.opts.Temperature
	}
	params := anthropic.MessageNewParams{
		Model: resolveModel(c.opts.Model, opts.Model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
	}
	if systemHint != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemHint}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	return text, nil
}

// resolveModel prefers a per-call override over the configured model, the
// same precedence the other chain adapters apply.
func resolveModel(configured anthropic.Model, override string) anthropic.Model {
	if override != "" {
		return anthropic.Model(override)
	}
	return configured
}

// Name implements inference.Client.
func (c *Client) Name() string { return "anthropic" }
