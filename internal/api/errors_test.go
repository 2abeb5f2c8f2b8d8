package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unsupported task type",
			err:  fmt.Errorf("%w: video-generation", service.ErrUnsupportedTaskType),
			want: http.StatusBadRequest,
		},
		{
			name: "validation error",
			err:  generation.NewValidationError("image is required"),
			want: http.StatusBadRequest,
		},
		{
			name: "upstream status error",
			err:  generation.NewStatusError("302.ai", 429, nil),
			want: http.StatusBadGateway,
		},
		{
			name: "upstream connectivity error",
			err:  generation.NewConnectivityError("302.ai", errors.New("dial tcp")),
			want: http.StatusBadGateway,
		},
		{
			name: "internal error",
			err:  generation.NewInternalError("decode failed", errors.New("eof")),
			want: http.StatusInternalServerError,
		},
		{
			name: "unclassified error",
			err:  errors.New("something odd"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("validation messages pass through verbatim", func(t *testing.T) {
		t.Parallel()

		err := generation.NewValidationError("scene code is required for editing")
		assert.Equal(t, "scene code is required for editing", GetSafeErrorMessage(err))
	})

	t.Run("upstream detail is hidden", func(t *testing.T) {
		t.Parallel()

		err := generation.NewStatusError("302.ai", 500,
			[]byte(`{"error":{"message":"internal stack trace here"}}`))
		assert.Equal(t, "Upstream provider error", GetSafeErrorMessage(err))
	})

	t.Run("internal detail is hidden", func(t *testing.T) {
		t.Parallel()

		err := generation.NewInternalError("db exploded", errors.New("password=hunter2"))
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(err))
	})

	t.Run("nil gets the generic message", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}
