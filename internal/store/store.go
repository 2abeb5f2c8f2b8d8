package store

import (
	"context"
	"errors"
	"time"
)

// ErrResultNotFound is returned when no stored result exists for a task,
// either because none was written or because it expired.
var ErrResultNotFound = errors.New("task result not found")

// ResultKey returns the key under which taskID's terminal result is stored.
func ResultKey(taskID string) string {
	return "task_response:" + taskID
}

// ResultStore persists the terminal outcome of a task for a bounded interval.
// The worker execution unit is the sole writer; delivery adapters and the
// status service only read.
type ResultStore interface {
	// Save writes the JSON-encoded terminal payload for taskID with the given
	// time-to-live. An existing entry is overwritten.
	Save(ctx context.Context, taskID string, payload []byte, ttl time.Duration) error

	// Get returns the stored payload for taskID, or ErrResultNotFound when
	// absent or expired.
	Get(ctx context.Context, taskID string) ([]byte, error)
}
