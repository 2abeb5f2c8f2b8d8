package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrEmpty is returned by Dequeue when no job arrived within the wait window.
var ErrEmpty = errors.New("queue is empty")

// Job is one unit of work handed from the dispatcher to a worker process.
type Job struct {
	// TaskID identifies the task; the worker keys all events and results by it.
	TaskID string `json:"task_id"`

	// Type is the task type string from the closed set in internal/task.
	Type string `json:"type"`

	// Params carries the task parameters serialized as JSON.
	Params json.RawMessage `json:"params"`
}

// State is the queue's own view of a job's execution progress. It is a
// fallback signal only: the result store is the durable source of truth,
// and the state record may lag or expire independently.
type State string

const (
	StateUnknown   State = "unknown"
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Record pairs a job's state with the fault description recorded when a
// worker raised an unhandled failure.
type Record struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Queue is the distributed work queue capability. The Redis implementation
// lives in internal/platform/redis.
type Queue interface {
	// Enqueue submits a job for execution and records it as queued.
	// It returns without waiting for the job to run.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue blocks up to wait for the next job. It returns ErrEmpty when
	// the wait elapses with nothing available.
	Dequeue(ctx context.Context, wait time.Duration) (*Job, error)

	// SetState updates the execution-state record for taskID. errMsg is
	// recorded only with StateFailed.
	SetState(ctx context.Context, taskID string, state State, errMsg string) error

	// GetState returns the execution-state record for taskID. Unknown tasks
	// yield a Record with StateUnknown, not an error.
	GetState(ctx context.Context, taskID string) (Record, error)
}
