package api

import (
	"encoding/json"

	"github.com/sketchforge/sketchforge-api/internal/generation"
)

// QueueTaskRequest is the body for POST /api/queue/{type}.
type QueueTaskRequest struct {
	Prompt      string  `json:"prompt,omitempty"`
	SceneCode   string  `json:"scene_code,omitempty"`
	ImageBase64 string  `json:"image_base64,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"   validate:"omitempty,gt=0"`
	Temperature float64 `json:"temperature,omitempty"  validate:"omitempty,gte=0,lte=2"`

	// TaskID lets the caller supply its own identity for tracking. When
	// absent a UUID is generated.
	TaskID string `json:"task_id,omitempty"`
}

// QueueTaskResponse acknowledges an accepted submission.
type QueueTaskResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TaskStatusResponse answers GET /api/task/{taskID}. Result carries the
// terminal envelope verbatim when the task has finished.
type TaskStatusResponse struct {
	TaskID string          `json:"task_id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// MeshInput is the mesh generation parameter block. Sampling steps and
// guidance strengths follow the provider's accepted ranges.
type MeshInput struct {
	Image                string  `json:"image"                            validate:"required"`
	Seed                 int     `json:"seed,omitempty"`
	SSSamplingSteps      int     `json:"ss_sampling_steps,omitempty"      validate:"omitempty,gte=10,lte=50"`
	SlatSamplingSteps    int     `json:"slat_sampling_steps,omitempty"    validate:"omitempty,gte=10,lte=50"`
	SSGuidanceStrength   float64 `json:"ss_guidance_strength,omitempty"   validate:"omitempty,gt=0,lte=10"`
	SlatGuidanceStrength float64 `json:"slat_guidance_strength,omitempty" validate:"omitempty,gt=0,lte=10"`
}

// MeshTaskRequest is the body for POST /api/mesh/task. Model and TaskType
// are accepted for client compatibility but not interpreted.
type MeshTaskRequest struct {
	Model    string    `json:"model,omitempty"`
	TaskType string    `json:"task_type,omitempty"`
	Input    MeshInput `json:"input" validate:"required"`
}

// MeshTaskData wraps the task identity in the mesh submission response.
type MeshTaskData struct {
	TaskID string `json:"task_id"`
}

// MeshTaskResponse acknowledges an accepted mesh submission in the shape
// the mesh clients expect.
type MeshTaskResponse struct {
	Code    int          `json:"code"`
	Data    MeshTaskData `json:"data"`
	Message string       `json:"message"`
}

// ParseResponse answers the synchronous POST /api/parse endpoint.
type ParseResponse struct {
	Status  string           `json:"status"`
	Content string           `json:"content"`
	Model   string           `json:"model"`
	Usage   generation.Usage `json:"usage"`
}

// wsStatusMessage is one frame of the WebSocket polling loop.
type wsStatusMessage struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	Data         any             `json:"data"`
	FullResponse json.RawMessage `json:"full_response,omitempty"`
}
