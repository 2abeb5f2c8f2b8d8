package task

import (
	"encoding/json"
	"testing"

	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationEnvelope(t *testing.T) {
	t.Parallel()

	env := NewGenerationEnvelope("task-1", &generation.Generation{
		Content: "const scene = ...",
		Model:   "claude-3-7-sonnet-20250219",
		Usage: generation.Usage{
			InputTokens:  100,
			OutputTokens: 50,
			TotalTokens:  150,
		},
	})

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "success",
		"content": "const scene = ...",
		"model": "claude-3-7-sonnet-20250219",
		"usage": {"input_tokens": 100, "output_tokens": 50, "total_tokens": 150},
		"task_id": "task-1"
	}`, string(raw))
}

func TestNewMeshEnvelope(t *testing.T) {
	t.Parallel()

	full := json.RawMessage(`{"model_mesh":{"url":"https://cdn.example/mesh.glb"},"timings":{"total":42}}`)
	env := NewMeshEnvelope(&generation.Mesh{
		URL: "https://cdn.example/mesh.glb",
		Raw: full,
	})

	assert.Equal(t, EnvelopeStatusCompleted, env.Status)
	assert.Equal(t, "Task completed successfully", env.Message)
	assert.Equal(t, "https://cdn.example/mesh.glb", env.Data)
	assert.JSONEq(t, string(full), string(env.FullResponse))
}

func TestNewErrorEnvelope(t *testing.T) {
	t.Parallel()

	env := NewErrorEnvelope("task-9", generation.NewValidationError("image is required"))

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "error",
		"error": "image is required",
		"error_type": "ValidationError",
		"task_id": "task-9"
	}`, string(raw))
}

func TestEnvelopeStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", EnvelopeStatus([]byte(`{"status":"success"}`)))
	assert.Equal(t, "", EnvelopeStatus([]byte(`not json`)))
	assert.Equal(t, "", EnvelopeStatus([]byte(`{"other":"field"}`)))
}

func TestStatusFromEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    Status
	}{
		{"success envelope", `{"status":"success"}`, StatusCompleted},
		{"mesh completed envelope", `{"status":"completed"}`, StatusCompleted},
		{"error envelope", `{"status":"error"}`, StatusFailed},
		{"failed status", `{"status":"failed"}`, StatusFailed},
		{"unknown status defaults to completed", `{"status":"weird"}`, StatusCompleted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, StatusFromEnvelope([]byte(tc.payload)))
		})
	}
}
