package generation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies a task failure for the uniform error envelope.
type ErrorKind string

const (
	// KindValidation marks missing or invalid required input.
	KindValidation ErrorKind = "ValidationError"

	// KindUpstreamStatus marks a non-success HTTP status from a provider.
	KindUpstreamStatus ErrorKind = "UpstreamStatusError"

	// KindUpstreamConnectivity marks a network failure reaching a provider.
	KindUpstreamConnectivity ErrorKind = "UpstreamConnectivityError"

	// KindInternal marks any other fault caught during execution.
	KindInternal ErrorKind = "InternalError"
)

// Error is a classified task failure. The Kind becomes the error_type field
// of the stored error envelope and Message becomes its error field.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError builds a KindValidation error with the given message.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewInternalError wraps err as a KindInternal error.
func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// NewConnectivityError builds a KindUpstreamConnectivity error for a
// transport failure reaching the named provider.
func NewConnectivityError(provider string, err error) *Error {
	return &Error{
		Kind:    KindUpstreamConnectivity,
		Message: fmt.Sprintf("error connecting to %s API: %v", provider, err),
		Err:     err,
	}
}

// NewStatusError builds a KindUpstreamStatus error for a non-success
// provider response. The message is extracted from the provider's structured
// error body on a best-effort basis: error.message, then error as a string,
// then a top-level message field, falling back to the status code.
func NewStatusError(provider string, statusCode int, body []byte) *Error {
	return &Error{
		Kind:    KindUpstreamStatus,
		Message: extractErrorMessage(provider, statusCode, body),
	}
}

// Classify returns err as an *Error, wrapping unclassified errors as
// KindInternal. A nil err yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// extractErrorMessage pulls a human-readable message out of a provider's
// JSON error body. Bodies vary: OpenAI-compatible APIs nest the message
// under error.message, others use a bare error string or a message field.
func extractErrorMessage(provider string, statusCode int, body []byte) string {
	fallback := fmt.Sprintf("%s API error: %d", provider, statusCode)
	if len(body) == 0 {
		return fallback
	}

	var parsed struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback
	}

	if len(parsed.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(parsed.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if err := json.Unmarshal(parsed.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return fallback
}
