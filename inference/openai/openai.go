// Package openai implements the cloud inference path using the OpenAI
// Chat Completions API. It adapts the runtime's single Generate call
// shape onto the SDK's message format.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/aegntic/aegnt-unltd/inference"
)

// Options configure the OpenAI client adapter. Fields mirror a minimal
// subset of Chat Completion parameters.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Client wraps the OpenAI Chat Completions API behind inference.Client.
type Client struct {
	client *openai.Client
	opts   Options
}

// NewClient creates a client using the official SDK with environment
// credentials.
func NewClient(optFns ...func(o *Options)) *Client {
	c := openai.NewClient()
	return NewClientFromSDK(&c, optFns...)
}

// NewClientFromSDK creates a client from an existing SDK client.
func NewClientFromSDK(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Generate implements inference.Client.
func (c *Client) Generate(ctx context.Context, systemHint, prompt string, opts inference.Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.opts.Model
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.opts.MaxCompletionTokens
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if systemHint != "" {
		messages = append(messages, openai.SystemMessage(systemHint))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Name implements inference.Client.
func (c *Client) Name() string { return "openai" }
