package prompts

import (
	"fmt"
	"strings"

	"github.com/sketchforge/sketchforge-api/internal/generation"
)

// Message is one chat message in the OpenAI-compatible wire format used by
// the 302.ai and Cerebras chat completion APIs.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multimodal message body.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps a data-URL encoded image reference.
type ImageURL struct {
	URL string `json:"url"`
}

// DataURL converts a base64 image string into data-URL form. An existing
// data-URL prefix is stripped first, so already-prefixed input is safe.
func DataURL(base64Data, mediaType string) string {
	if idx := strings.LastIndex(base64Data, ","); idx >= 0 {
		base64Data = base64Data[idx+1:]
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64Data)
}

func textPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

func imagePart(base64Data string) ContentPart {
	return ContentPart{
		Type:     "image_url",
		ImageURL: &ImageURL{URL: DataURL(base64Data, "image/png")},
	}
}

// SceneMessages assembles the chat messages for a scene generation request.
// The image is required; the optional prompt carries text found in the sketch.
func SceneMessages(req generation.SceneRequest) ([]Message, error) {
	if req.ImageBase64 == "" {
		return nil, generation.NewValidationError("invalid image data provided")
	}

	content := []ContentPart{
		textPart(ScenePrompt),
		imagePart(req.ImageBase64),
	}
	if strings.TrimSpace(req.Prompt) != "" {
		content = append(content, textPart(
			"Here's a list of text that we found in the design:\n"+req.Prompt))
	}

	return []Message{
		{Role: "system", Content: SceneSystemPrompt},
		{Role: "user", Content: content},
	}, nil
}

// EditMessages assembles the chat messages for a scene edit request.
// The scene code is required, plus at least one of image and prompt.
func EditMessages(req generation.EditRequest) ([]Message, error) {
	if req.SceneCode == "" {
		return nil, generation.NewValidationError("scene code is required")
	}
	if req.ImageBase64 == "" && req.Prompt == "" {
		return nil, generation.NewValidationError(
			"at least one of image or text prompt must be provided")
	}

	content := []ContentPart{
		textPart(EditPrompt),
		textPart(fmt.Sprintf("Here is the Three.js code to edit:\n\n```javascript\n%s\n```",
			req.SceneCode)),
	}
	if req.ImageBase64 != "" {
		content = append(content, imagePart(req.ImageBase64))
	}
	if strings.TrimSpace(req.Prompt) != "" {
		content = append(content, textPart(
			"Here are the specific changes requested:\n"+req.Prompt))
	}

	return []Message{
		{Role: "system", Content: EditSystemPrompt},
		{Role: "user", Content: content},
	}, nil
}

// ExtractObjectMessages assembles the chat messages for the synchronous
// object extraction call.
func ExtractObjectMessages(sceneCode string) []Message {
	return []Message{
		{Role: "system", Content: ""},
		{Role: "user", Content: ExtractObjectPrompt + sceneCode},
	}
}
