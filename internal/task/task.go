package task

// Type identifies one kind of provider-backed work. The set is closed: the
// registry in this package maps every member to its validator and handler,
// and anything else is rejected at submission.
type Type string

const (
	// TypeTextGeneration turns a sketch into Three.js scene code.
	TypeTextGeneration Type = "text-generation"

	// TypeCodeEdit modifies existing Three.js scene code.
	TypeCodeEdit Type = "code-edit"

	// TypeImageGeneration produces images from a sketch plus prompt.
	TypeImageGeneration Type = "image-generation"

	// TypeMeshGeneration turns an image into a 3D mesh asset.
	TypeMeshGeneration Type = "mesh-generation"
)

// Status is the client-visible state of a task, derived from event channel
// activity and result store content rather than a persisted task record.
// Transitions are monotonic and terminal once completed or failed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Params carries the caller-supplied inputs for any task type. Which fields
// are required depends on the type; the registry validators enforce the
// per-type preconditions before anything is queued.
type Params struct {
	// Prompt is free text: sketch annotations for generation tasks, edit
	// instructions for code-edit tasks.
	Prompt string `json:"prompt,omitempty"`

	// SceneCode is the Three.js source a code-edit task operates on.
	SceneCode string `json:"scene_code,omitempty"`

	// ImageBase64 is the sketch or reference image, with or without a
	// data-URL prefix.
	ImageBase64 string `json:"image_base64,omitempty"`

	// Sampling controls for text generation; zero selects provider defaults.
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`

	// Mesh generation controls; zero selects provider defaults.
	SSGuidanceStrength   float64 `json:"ss_guidance_strength,omitempty"`
	SSSamplingSteps      int     `json:"ss_sampling_steps,omitempty"`
	SlatGuidanceStrength float64 `json:"slat_guidance_strength,omitempty"`
	SlatSamplingSteps    int     `json:"slat_sampling_steps,omitempty"`
}
