package cerebras

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/prompts"
)

const (
	// DefaultModel is the Cerebras model used for object extraction.
	DefaultModel = "llama3.3-70b"

	providerName = "Cerebras"

	maxTokens      = 4096
	temperature    = 0.2
	requestTimeout = 120 * time.Second
)

// codeBlockRegex matches a fenced code block, optionally tagged javascript.
var codeBlockRegex = regexp.MustCompile("(?s)```(?:javascript)?(.*?)```")

// Client implements generation.ObjectExtractor against the Cerebras chat
// completions endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	logger *slog.Logger
}

// NewClient constructs a Client for the given base URL and API key.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout),
		apiKey: apiKey,
		model:  DefaultModel,
		logger: logger.With("component", "cerebras_client"),
	}
}

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []prompts.Message `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	TopP        float64           `json:"top_p"`
}

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

// ExtractObject asks the model to isolate the main 3D object from a full
// Three.js scene and returns the cleaned code. The model wraps its reply in
// a fenced code block; the first block is used, falling back to the full
// reply when no fence is present.
func (c *Client) ExtractObject(ctx context.Context, sceneCode string) (*generation.Generation, error) {
	if c.apiKey == "" {
		return nil, generation.NewValidationError("Cerebras API key not configured")
	}

	body := chatRequest{
		Model:       c.model,
		Messages:    prompts.ExtractObjectMessages(sceneCode),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        1,
	}

	c.logger.DebugContext(ctx, "calling object extraction", "model", c.model)

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, generation.NewConnectivityError(providerName, err)
	}
	if resp.IsError() {
		return nil, generation.NewStatusError(providerName, resp.StatusCode(), resp.Body())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, generation.NewInternalError("failed to decode Cerebras response", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, generation.NewInternalError("Cerebras response has no choices",
			fmt.Errorf("empty choices in response"))
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}

	return &generation.Generation{
		Content: ExtractCodeBlock(parsed.Choices[0].Message.Content),
		Model:   model,
		Usage: generation.Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		},
	}, nil
}

// ExtractCodeBlock returns the first fenced code block in content, or the
// content itself when no block is present.
func ExtractCodeBlock(content string) string {
	matches := codeBlockRegex.FindStringSubmatch(content)
	if len(matches) < 2 {
		return content
	}
	return strings.TrimSpace(matches[1])
}
