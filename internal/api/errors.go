package api

import (
	"errors"
	"net/http"

	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	if errors.Is(err, service.ErrUnsupportedTaskType) {
		return http.StatusBadRequest
	}

	var genErr *generation.Error
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case generation.KindValidation:
			return http.StatusBadRequest
		case generation.KindUpstreamStatus, generation.KindUpstreamConnectivity:
			return http.StatusBadGateway
		}
	}

	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Validation messages describe the caller's own input and
// are surfaced verbatim; everything else gets a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	if errors.Is(err, service.ErrUnsupportedTaskType) {
		return err.Error()
	}

	var genErr *generation.Error
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case generation.KindValidation:
			return genErr.Message
		case generation.KindUpstreamStatus, generation.KindUpstreamConnectivity:
			return "Upstream provider error"
		}
	}

	return "An unexpected error occurred"
}
