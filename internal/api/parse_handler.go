package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/sketchforge/sketchforge-api/internal/api/shared"
	"github.com/sketchforge/sketchforge-api/internal/generation"
)

// maxParseBody bounds the scene code accepted for object extraction.
const maxParseBody = 4 << 20

// ParseHandler handles the synchronous POST /api/parse endpoint, which
// extracts the main object from a Three.js scene without going through the
// task pipeline.
type ParseHandler struct {
	extractor generation.ObjectExtractor
	logger    *slog.Logger
}

// NewParseHandler creates a new ParseHandler.
func NewParseHandler(extractor generation.ObjectExtractor, logger *slog.Logger) *ParseHandler {
	return &ParseHandler{
		extractor: extractor,
		logger:    logger.With("component", "parse_handler"),
	}
}

// ParseObject reads the scene code as a plain text body and responds with
// the extracted object code. The upstream call runs within the request;
// there is no task, channel, or stored result involved.
func (h *ParseHandler) ParseObject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxParseBody))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Scene code is required")
		return
	}

	result, err := h.extractor.ExtractObject(r.Context(), string(body))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParseResponse{
		Status:  "success",
		Content: result.Content,
		Model:   result.Model,
		Usage:   result.Usage,
	})
}
