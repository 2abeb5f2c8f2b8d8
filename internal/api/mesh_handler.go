package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sketchforge/sketchforge-api/internal/api/shared"
	"github.com/sketchforge/sketchforge-api/internal/service"
	"github.com/sketchforge/sketchforge-api/internal/store"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

// stopToken is the literal inbound message that ends the polling loop early.
const stopToken = "close"

// readWait bounds the per-iteration wait for an inbound client message.
// The poll interval, not this wait, sets the effective poll cadence.
const readWait = 100 * time.Millisecond

// MeshHandler handles mesh task submission and the WebSocket polling-loop
// delivery adapter for transports without server push.
type MeshHandler struct {
	tasks        *service.TaskService
	results      store.ResultStore
	pollCeiling  time.Duration
	pollInterval time.Duration
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewMeshHandler creates a new MeshHandler.
func NewMeshHandler(
	tasks *service.TaskService,
	results store.ResultStore,
	pollCeiling time.Duration,
	pollInterval time.Duration,
	logger *slog.Logger,
) *MeshHandler {
	return &MeshHandler{
		tasks:        tasks,
		results:      results,
		pollCeiling:  pollCeiling,
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			// The API is consumed from arbitrary origins; task identity is
			// the only capability a socket needs.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "mesh_handler"),
	}
}

// CreateMeshTask handles POST /api/mesh/task requests. It routes through
// the same dispatcher as every other task type; only the response shape is
// specific to the mesh clients.
func (h *MeshHandler) CreateMeshTask(w http.ResponseWriter, r *http.Request) {
	var req MeshTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	params := task.Params{
		ImageBase64:          req.Input.Image,
		SSGuidanceStrength:   req.Input.SSGuidanceStrength,
		SSSamplingSteps:      req.Input.SSSamplingSteps,
		SlatGuidanceStrength: req.Input.SlatGuidanceStrength,
		SlatSamplingSteps:    req.Input.SlatSamplingSteps,
	}

	taskID, err := h.tasks.Submit(r.Context(), task.TypeMeshGeneration, params, "")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeshTaskResponse{
		Code:    http.StatusOK,
		Data:    MeshTaskData{TaskID: taskID},
		Message: "Task submitted successfully",
	})
}

// StatusSocket handles GET /api/mesh/task/ws/{taskID}: the polling-loop
// delivery adapter. It repeatedly reads the result store and reports status
// frames until a terminal result, the wall-clock ceiling, a client stop
// token, or disconnection. The loop only observes the task; stopping it
// never cancels the underlying execution.
func (h *MeshHandler) StatusSocket(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	logger := h.logger.With("task_id", taskID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	// Closed on every exit path; an already-closed connection is fine.
	defer func() { _ = conn.Close() }()

	// Inbound traffic is read on its own goroutine: a deadline-based read
	// in the poll loop would poison the connection on the first timeout.
	// The goroutine exits when the connection closes.
	inbound := make(chan string, 1)
	readFailed := make(chan struct{})
	go func() {
		defer close(readFailed)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			select {
			case inbound <- string(message):
			default:
			}
		}
	}()

	ctx := r.Context()
	start := time.Now()

	for {
		if time.Since(start) > h.pollCeiling {
			// Purely a client-facing guarantee: the task keeps running.
			_ = h.send(conn, wsStatusMessage{
				Status:  "error",
				Message: "Task timed out",
				Data:    nil,
			})
			return
		}

		payload, err := h.results.Get(ctx, taskID)
		switch {
		case err == nil:
			if h.sendResult(conn, payload, logger) {
				return
			}

		case errors.Is(err, store.ErrResultNotFound):
			if err := h.send(conn, wsStatusMessage{
				Status:  "processing",
				Message: "Task is being processed, please wait...",
				Data:    nil,
			}); err != nil {
				logger.Debug("client disconnected", "error", err)
				return
			}

		default:
			// Transient store fault: tell the client and keep polling
			// rather than aborting a task that may still finish.
			logger.Warn("failed to read result store", "error", err)
			_ = h.send(conn, wsStatusMessage{
				Status:  "error",
				Message: "Error checking task status: " + err.Error(),
				Data:    nil,
			})
			time.Sleep(h.pollInterval)
			continue
		}

		// Wait briefly for a stop token before sleeping out the interval.
		select {
		case message := <-inbound:
			if message == stopToken {
				logger.Debug("client requested stop")
				return
			}
		case <-readFailed:
			logger.Debug("client disconnected")
			return
		case <-time.After(readWait):
		}

		time.Sleep(h.pollInterval)
	}
}

// sendResult translates a stored envelope into a frame. It reports whether
// the envelope was terminal; a record in any other state keeps the poll loop
// alive until the task reaches one.
func (h *MeshHandler) sendResult(conn *websocket.Conn, payload []byte, logger *slog.Logger) bool {
	var envelope struct {
		Status       string          `json:"status"`
		Message      string          `json:"message"`
		Error        string          `json:"error"`
		Data         any             `json:"data"`
		FullResponse json.RawMessage `json:"full_response"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		logger.Warn("failed to decode stored result", "error", err)
		_ = h.send(conn, wsStatusMessage{
			Status:  "error",
			Message: "Error checking task status: stored result is malformed",
			Data:    nil,
		})
		return true
	}

	switch envelope.Status {
	case task.EnvelopeStatusCompleted, task.EnvelopeStatusSuccess:
		message := envelope.Message
		if message == "" {
			message = "Task completed successfully"
		}
		_ = h.send(conn, wsStatusMessage{
			Status:       string(task.StatusCompleted),
			Message:      message,
			Data:         envelope.Data,
			FullResponse: envelope.FullResponse,
		})
		return true

	case task.EnvelopeStatusError, "failed":
		message := envelope.Error
		if message == "" {
			message = envelope.Message
		}
		if message == "" {
			message = "Task processing failed"
		}
		_ = h.send(conn, wsStatusMessage{
			Status:       string(task.StatusFailed),
			Message:      message,
			Data:         nil,
			FullResponse: payload,
		})
		return true

	default:
		_ = h.send(conn, wsStatusMessage{
			Status:  "processing",
			Message: "Task is " + envelope.Status + ", waiting for completion",
			Data:    nil,
		})
		return false
	}
}

func (h *MeshHandler) send(conn *websocket.Conn, msg wsStatusMessage) error {
	return conn.WriteJSON(msg)
}
