package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sketchforge/sketchforge-api/internal/queue"
	"github.com/sketchforge/sketchforge-api/internal/store"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

// TaskStatus is the answer to a one-shot status query.
type TaskStatus struct {
	TaskID string
	Status string
	Result json.RawMessage
}

// TaskService dispatches typed work onto the distributed queue and answers
// status queries. It never blocks on provider latency: Submit returns as
// soon as the job is queued.
type TaskService struct {
	registry *task.Registry
	queue    queue.Queue
	results  store.ResultStore
	logger   *slog.Logger
}

// NewTaskService wires a TaskService from its injected capabilities.
func NewTaskService(
	registry *task.Registry,
	q queue.Queue,
	results store.ResultStore,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		registry: registry,
		queue:    q,
		results:  results,
		logger:   logger.With("component", "task_service"),
	}
}

// Submit validates a typed work request, assigns an identity when the caller
// supplied none, and enqueues execution. Validation failures reject the
// submission synchronously; nothing is queued.
//
// Identity uniqueness is not enforced: two submissions sharing a
// caller-supplied identity race, and the result store's last-write-wins
// semantics decide which outcome survives.
func (s *TaskService) Submit(ctx context.Context, taskType task.Type, params task.Params, taskID string) (string, error) {
	if _, ok := s.registry.Definition(taskType); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedTaskType, taskType)
	}
	if err := s.registry.Validate(taskType, params); err != nil {
		return "", err
	}

	if taskID == "" {
		taskID = uuid.NewString()
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task parameters: %w", err)
	}

	job := queue.Job{
		TaskID: taskID,
		Type:   string(taskType),
		Params: rawParams,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.InfoContext(ctx, "task submitted", "task_id", taskID, "task_type", taskType)
	return taskID, nil
}

// Status answers "what is the state of task X". The result store is
// consulted first because it is the durable source of truth; on a miss the
// queue's own execution-state record covers the window before the store
// write lands. A task unknown to both reports pending.
func (s *TaskService) Status(ctx context.Context, taskID string) (*TaskStatus, error) {
	payload, err := s.results.Get(ctx, taskID)
	if err == nil {
		return &TaskStatus{
			TaskID: taskID,
			Status: string(task.StatusFromEnvelope(payload)),
			Result: payload,
		}, nil
	}
	if !errors.Is(err, store.ErrResultNotFound) {
		return nil, fmt.Errorf("failed to query result store: %w", err)
	}

	record, err := s.queue.GetState(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task state: %w", err)
	}

	switch record.State {
	case queue.StateUnknown, queue.StateQueued:
		return &TaskStatus{TaskID: taskID, Status: string(task.StatusPending)}, nil
	case queue.StateFailed:
		envelope, err := json.Marshal(task.ErrorEnvelope{
			Status:    task.EnvelopeStatusError,
			Error:     record.Error,
			ErrorType: "InternalError",
			TaskID:    taskID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal error envelope: %w", err)
		}
		return &TaskStatus{
			TaskID: taskID,
			Status: string(task.StatusFailed),
			Result: envelope,
		}, nil
	default:
		// The queue's raw state name, already lower-cased (e.g. "running").
		return &TaskStatus{TaskID: taskID, Status: string(record.State)}, nil
	}
}
