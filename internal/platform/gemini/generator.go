package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sketchforge/sketchforge-api/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for image generation.
const DefaultModel = "gemini-2.0-flash-preview-image-generation"

const providerName = "Gemini"

// Generator implements generation.ImageGenerator using the Gemini API.
// The underlying client is built on first use so a missing key is a
// per-request failure, not a startup one.
type Generator struct {
	apiKey string
	model  string
	logger *slog.Logger

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGenerator creates a Generator with the provided API key. An empty key is
// accepted; image generation then fails at call time like the other providers.
func NewGenerator(apiKey string, logger *slog.Logger) *Generator {
	return &Generator{
		apiKey: apiKey,
		model:  DefaultModel,
		logger: logger.With("component", "gemini_generator"),
	}
}

func (g *Generator) init(ctx context.Context) (*genai.Client, error) {
	g.initOnce.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			g.initErr = generation.NewInternalError("failed to create Gemini client", err)
			return
		}
		g.client = client
	})
	return g.client, g.initErr
}

// GenerateImages performs exactly one image generation call. The sketch is
// passed as inline image data alongside the optional text prompt, and every
// image part of the response is returned base64-encoded.
func (g *Generator) GenerateImages(ctx context.Context, req generation.ImageRequest) (*generation.ImageSet, error) {
	if g.apiKey == "" {
		return nil, generation.NewValidationError("Gemini API key not configured")
	}
	if req.ImageBase64 == "" {
		return nil, generation.NewValidationError("image is required for image generation")
	}

	imageData, err := decodeImage(req.ImageBase64)
	if err != nil {
		return nil, generation.NewValidationError("invalid image data provided")
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: "image/png", Data: imageData}},
	}
	if strings.TrimSpace(req.Prompt) != "" {
		parts = append(parts, &genai.Part{Text: req.Prompt})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	client, err := g.init(ctx)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "calling image generation", "model", g.model)

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, generation.NewInternalError("Gemini response has no candidates",
			fmt.Errorf("empty candidates in response"))
	}

	result := &generation.ImageSet{Model: g.model}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			result.Images = append(result.Images, generation.Image{
				MimeType: part.InlineData.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
			})
		}
	}
	result.Text = text.String()

	if len(result.Images) == 0 {
		return nil, generation.NewInternalError("Gemini returned no images",
			fmt.Errorf("no image parts in response"))
	}
	return result, nil
}

// decodeImage decodes a base64 image, tolerating a data-URL prefix.
func decodeImage(base64Data string) ([]byte, error) {
	if idx := strings.LastIndex(base64Data, ","); idx >= 0 {
		base64Data = base64Data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(base64Data)
}

// classifyError maps genai client failures onto the generation taxonomy.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &generation.Error{
			Kind:    generation.KindUpstreamStatus,
			Message: fmt.Sprintf("%s API error: %s", providerName, apiErr.Message),
			Err:     err,
		}
	}
	return generation.NewConnectivityError(providerName, err)
}
