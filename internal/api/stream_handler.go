package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sketchforge/sketchforge-api/internal/api/shared"
	"github.com/sketchforge/sketchforge-api/internal/events"
	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

// StreamHandler is the push delivery adapter: it tails a task's event
// channel and relays each event to the client as server-sent events until a
// terminal event or disconnection.
type StreamHandler struct {
	channel events.Channel
	logger  *slog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(channel events.Channel, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		channel: channel,
		logger:  logger.With("component", "stream_handler"),
	}
}

// Subscribe handles GET /api/subscribe/{taskID} requests.
//
// There is no replay buffer: the stream carries only events published after
// the subscription attaches, so a client connecting late may see nothing
// before the terminal event.
func (h *StreamHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Streaming is not supported")
		return
	}

	sub, err := h.channel.Subscribe(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to subscribe to task events", err)
		return
	}
	// Released exactly once on every exit path; Close is idempotent.
	defer func() {
		if err := sub.Close(); err != nil {
			h.logger.Warn("failed to close subscription", "task_id", taskID, "error", err)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger := h.logger.With("task_id", taskID)
	logger.Debug("client subscribed")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("client disconnected")
			return

		case raw, open := <-sub.Messages():
			if !open {
				// The broker dropped the subscription mid-stream. Tell this
				// one client; nothing is published to the channel itself.
				h.relaySyntheticError(w, flusher, taskID,
					fmt.Errorf("event subscription closed: %w", sub.Err()))
				return
			}

			var ev events.Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				h.relaySyntheticError(w, flusher, taskID,
					fmt.Errorf("failed to decode event: %w", err))
				return
			}

			h.writeEvent(w, flusher, ev.Type, ev.Data)

			if events.IsTerminal(ev.Type) {
				logger.Debug("relayed terminal event", "event_type", ev.Type)
				return
			}
		}
	}
}

// writeEvent emits one SSE frame and flushes it.
func (h *StreamHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
	flusher.Flush()
}

// relaySyntheticError sends a locally built error event to this client only.
func (h *StreamHandler) relaySyntheticError(w http.ResponseWriter, flusher http.Flusher, taskID string, err error) {
	h.logger.Error("stream fault", "task_id", taskID, "error", err)

	envelope := task.NewErrorEnvelope(taskID, generation.Classify(err))
	data, marshalErr := json.Marshal(envelope)
	if marshalErr != nil {
		return
	}
	h.writeEvent(w, flusher, events.TypeError, data)
}
