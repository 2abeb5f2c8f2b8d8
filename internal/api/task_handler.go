package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sketchforge/sketchforge-api/internal/api/shared"
	"github.com/sketchforge/sketchforge-api/internal/service"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

// TaskHandler handles task submission and one-shot status queries.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With("component", "task_handler"),
	}
}

// QueueTask handles POST /api/queue/{type} requests. The submission is
// acknowledged with 202 as soon as the job is queued; results arrive through
// the status, SSE, or WebSocket surfaces.
func (h *TaskHandler) QueueTask(w http.ResponseWriter, r *http.Request) {
	taskType := task.Type(chi.URLParam(r, "type"))

	var req QueueTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	params := task.Params{
		Prompt:      req.Prompt,
		SceneCode:   req.SceneCode,
		ImageBase64: req.ImageBase64,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	taskID, err := h.tasks.Submit(r.Context(), taskType, params, req.TaskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, QueueTaskResponse{
		TaskID:  taskID,
		Status:  string(task.StatusPending),
		Message: "Task submitted successfully",
	})
}

// GetTaskStatus handles GET /api/task/{taskID} requests.
func (h *TaskHandler) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	status, err := h.tasks.Status(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to query task status", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskStatusResponse{
		TaskID: status.TaskID,
		Status: status.Status,
		Result: status.Result,
	})
}
