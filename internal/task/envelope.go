package task

import (
	"encoding/json"

	"github.com/sketchforge/sketchforge-api/internal/generation"
)

// Envelope status values as stored in the result store. Generation tasks
// report "success" while mesh tasks report "completed"; both map to the
// completed task status. The split mirrors what each task family's clients
// already consume.
const (
	EnvelopeStatusSuccess   = "success"
	EnvelopeStatusCompleted = "completed"
	EnvelopeStatusError     = "error"
)

// GenerationEnvelope is the terminal payload of a successful text or
// code-edit task.
type GenerationEnvelope struct {
	Status  string           `json:"status"`
	Content string           `json:"content"`
	Model   string           `json:"model"`
	Usage   generation.Usage `json:"usage"`
	TaskID  string           `json:"task_id"`
}

// NewGenerationEnvelope shapes a provider generation into its envelope.
func NewGenerationEnvelope(taskID string, gen *generation.Generation) GenerationEnvelope {
	return GenerationEnvelope{
		Status:  EnvelopeStatusSuccess,
		Content: gen.Content,
		Model:   gen.Model,
		Usage:   gen.Usage,
		TaskID:  taskID,
	}
}

// ImageEnvelope is the terminal payload of a successful image generation task.
type ImageEnvelope struct {
	Status string             `json:"status"`
	Model  string             `json:"model"`
	Images []generation.Image `json:"images"`
	Text   string             `json:"text,omitempty"`
	TaskID string             `json:"task_id"`
}

// NewImageEnvelope shapes a provider image set into its envelope.
func NewImageEnvelope(taskID string, set *generation.ImageSet) ImageEnvelope {
	return ImageEnvelope{
		Status: EnvelopeStatusSuccess,
		Model:  set.Model,
		Images: set.Images,
		Text:   set.Text,
		TaskID: taskID,
	}
}

// MeshEnvelope is the terminal payload of a successful mesh generation task.
// Data carries the mesh asset URL; FullResponse preserves the provider's
// complete response body for clients that need timings or metadata.
type MeshEnvelope struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	Data         string          `json:"data"`
	FullResponse json.RawMessage `json:"full_response,omitempty"`
}

// NewMeshEnvelope shapes a provider mesh result into its envelope.
func NewMeshEnvelope(mesh *generation.Mesh) MeshEnvelope {
	return MeshEnvelope{
		Status:       EnvelopeStatusCompleted,
		Message:      "Task completed successfully",
		Data:         mesh.URL,
		FullResponse: mesh.Raw,
	}
}

// ErrorEnvelope is the uniform terminal payload of a failed task,
// regardless of family.
type ErrorEnvelope struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
	TaskID    string `json:"task_id"`
}

// NewErrorEnvelope shapes a classified failure into the uniform envelope.
func NewErrorEnvelope(taskID string, gerr *generation.Error) ErrorEnvelope {
	return ErrorEnvelope{
		Status:    EnvelopeStatusError,
		Error:     gerr.Message,
		ErrorType: string(gerr.Kind),
		TaskID:    taskID,
	}
}

// EnvelopeStatus extracts the status field from a stored envelope without
// committing to a concrete envelope shape. Returns an empty string when the
// payload is not a JSON object with a status field.
func EnvelopeStatus(payload []byte) string {
	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.Status
}

// StatusFromEnvelope maps a stored envelope's status field to the task
// status it implies.
func StatusFromEnvelope(payload []byte) Status {
	switch EnvelopeStatus(payload) {
	case EnvelopeStatusError, "failed":
		return StatusFailed
	default:
		return StatusCompleted
	}
}
