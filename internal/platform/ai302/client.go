package ai302

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/prompts"
)

const (
	// DefaultModel is the chat model used for scene generation and editing.
	DefaultModel = "claude-3-7-sonnet-20250219"

	// Defaults applied when a request leaves sampling parameters unset.
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7

	providerName = "302.ai"

	// Scene generation responses run long; the provider can take minutes.
	requestTimeout = 300 * time.Second
)

// Client implements generation.SceneGenerator against the 302.ai chat
// completions endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithModel overrides the default chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// NewClient constructs a Client for the given base URL and API key.
// An empty key is allowed at construction; calls fail with a validation
// error instead, so the process can start without every provider configured.
func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout),
		apiKey: apiKey,
		model:  DefaultModel,
		logger: logger.With("component", "ai302_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatRequest is the OpenAI-compatible chat completions request body.
type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []prompts.Message `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}

// chatResponse is the subset of the chat completions response we consume.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateScene turns a sketch into Three.js scene code.
func (c *Client) GenerateScene(ctx context.Context, req generation.SceneRequest) (*generation.Generation, error) {
	messages, err := prompts.SceneMessages(req)
	if err != nil {
		return nil, err
	}
	return c.complete(ctx, messages, req.MaxTokens, req.Temperature)
}

// EditScene modifies existing Three.js scene code.
func (c *Client) EditScene(ctx context.Context, req generation.EditRequest) (*generation.Generation, error) {
	messages, err := prompts.EditMessages(req)
	if err != nil {
		return nil, err
	}
	return c.complete(ctx, messages, req.MaxTokens, req.Temperature)
}

// complete performs exactly one chat completions call and shapes the result.
func (c *Client) complete(ctx context.Context, messages []prompts.Message, maxTokens int, temperature float64) (*generation.Generation, error) {
	if c.apiKey == "" {
		return nil, generation.NewValidationError("302.ai API key not configured")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	c.logger.DebugContext(ctx, "calling chat completions",
		"model", c.model, "max_tokens", maxTokens)

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, generation.NewConnectivityError(providerName, err)
	}
	if resp.IsError() {
		return nil, generation.NewStatusError(providerName, resp.StatusCode(), resp.Body())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, generation.NewInternalError("failed to decode 302.ai response", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, generation.NewInternalError("302.ai response has no choices",
			fmt.Errorf("empty choices in response"))
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	total := parsed.Usage.TotalTokens
	if total == 0 {
		total = parsed.Usage.PromptTokens + parsed.Usage.CompletionTokens
	}

	return &generation.Generation{
		Content: parsed.Choices[0].Message.Content,
		Model:   model,
		Usage: generation.Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  total,
		},
	}, nil
}
