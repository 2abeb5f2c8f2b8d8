package task

import (
	"context"

	"github.com/sketchforge/sketchforge-api/internal/generation"
)

// Providers bundles the external generative-AI capabilities the task
// handlers run against. Each is an injected interface so tests can swap in
// fakes and so provider packages stay behind the generation boundary.
type Providers struct {
	Scenes generation.SceneGenerator
	Images generation.ImageGenerator
	Meshes generation.MeshGenerator
}

// NewDefaultRegistry builds the registry for the closed task type set,
// wiring each type to its precondition validator and provider handler.
func NewDefaultRegistry(p Providers) *Registry {
	r := NewRegistry()

	// Text generation has no pre-dispatch precondition: a missing image is
	// only detected inside the worker, where payload construction fails.
	r.Register(TypeTextGeneration, Definition{
		Handle: func(ctx context.Context, taskID string, params Params) (any, error) {
			gen, err := p.Scenes.GenerateScene(ctx, generation.SceneRequest{
				ImageBase64: params.ImageBase64,
				Prompt:      params.Prompt,
				MaxTokens:   params.MaxTokens,
				Temperature: params.Temperature,
			})
			if err != nil {
				return nil, err
			}
			return NewGenerationEnvelope(taskID, gen), nil
		},
	})

	r.Register(TypeCodeEdit, Definition{
		Validate: func(params Params) error {
			if params.SceneCode == "" {
				return generation.NewValidationError("scene code is required for editing")
			}
			if params.ImageBase64 == "" && params.Prompt == "" {
				return generation.NewValidationError(
					"at least one of image or text prompt must be provided")
			}
			return nil
		},
		Handle: func(ctx context.Context, taskID string, params Params) (any, error) {
			gen, err := p.Scenes.EditScene(ctx, generation.EditRequest{
				SceneCode:   params.SceneCode,
				ImageBase64: params.ImageBase64,
				Prompt:      params.Prompt,
				MaxTokens:   params.MaxTokens,
				Temperature: params.Temperature,
			})
			if err != nil {
				return nil, err
			}
			return NewGenerationEnvelope(taskID, gen), nil
		},
	})

	r.Register(TypeImageGeneration, Definition{
		Validate: func(params Params) error {
			if params.ImageBase64 == "" {
				return generation.NewValidationError("image is required for image generation")
			}
			return nil
		},
		Handle: func(ctx context.Context, taskID string, params Params) (any, error) {
			set, err := p.Images.GenerateImages(ctx, generation.ImageRequest{
				ImageBase64: params.ImageBase64,
				Prompt:      params.Prompt,
			})
			if err != nil {
				return nil, err
			}
			return NewImageEnvelope(taskID, set), nil
		},
	})

	r.Register(TypeMeshGeneration, Definition{
		Validate: func(params Params) error {
			if params.ImageBase64 == "" {
				return generation.NewValidationError("image is required for mesh generation")
			}
			return nil
		},
		Handle: func(ctx context.Context, taskID string, params Params) (any, error) {
			mesh, err := p.Meshes.GenerateMesh(ctx, generation.MeshRequest{
				ImageBase64:          params.ImageBase64,
				SSGuidanceStrength:   params.SSGuidanceStrength,
				SSSamplingSteps:      params.SSSamplingSteps,
				SlatGuidanceStrength: params.SlatGuidanceStrength,
				SlatSamplingSteps:    params.SlatSamplingSteps,
			})
			if err != nil {
				return nil, err
			}
			return NewMeshEnvelope(mesh), nil
		},
	})

	return r
}
