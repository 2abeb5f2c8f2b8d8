package generation

import (
	"context"
	"encoding/json"
)

// Usage reports token consumption for one text generation call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Generation is the outcome of one text or code generation call.
type Generation struct {
	Content string
	Model   string
	Usage   Usage
}

// Image is one generated image, base64-encoded.
type Image struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ImageSet is the outcome of one image generation call.
type ImageSet struct {
	Model  string
	Images []Image
	Text   string
}

// Mesh is the outcome of one image-to-3D generation call. URL points at the
// generated mesh asset; Raw preserves the provider's full response body.
type Mesh struct {
	URL string
	Raw json.RawMessage
}

// SceneRequest asks for a Three.js scene generated from a sketch.
type SceneRequest struct {
	ImageBase64 string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// EditRequest asks for an existing Three.js scene to be modified.
// At least one of ImageBase64 and Prompt must be set.
type EditRequest struct {
	SceneCode   string
	ImageBase64 string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ImageRequest asks for images generated from a sketch plus optional prompt.
type ImageRequest struct {
	ImageBase64 string
	Prompt      string
}

// MeshRequest asks for a 3D mesh generated from an image.
// Sampling steps and guidance strengths follow the provider's ranges;
// zero values select the provider defaults.
type MeshRequest struct {
	ImageBase64          string
	SSGuidanceStrength   float64
	SSSamplingSteps      int
	SlatGuidanceStrength float64
	SlatSamplingSteps    int
}

// SceneGenerator produces and edits Three.js scene code.
type SceneGenerator interface {
	GenerateScene(ctx context.Context, req SceneRequest) (*Generation, error)
	EditScene(ctx context.Context, req EditRequest) (*Generation, error)
}

// ImageGenerator produces images from multimodal input.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) (*ImageSet, error)
}

// MeshGenerator turns an image into a 3D mesh asset.
type MeshGenerator interface {
	GenerateMesh(ctx context.Context, req MeshRequest) (*Mesh, error)
}

// ObjectExtractor isolates the main 3D object from a full Three.js scene.
// Used by the synchronous parse endpoint, not by the task pipeline.
type ObjectExtractor interface {
	ExtractObject(ctx context.Context, sceneCode string) (*Generation, error)
}
