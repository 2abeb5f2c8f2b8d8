package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sketchforge/sketchforge-api/internal/events"
	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/queue"
	"github.com/sketchforge/sketchforge-api/internal/store"
)

// Executor is the worker execution unit. Execute runs one job end to end:
// start event, exactly one provider call through the registry handler, then
// the terminal report to the event channel and result store. Every failure
// below it is normalized at this single boundary; Execute never returns an
// error to the pool.
type Executor struct {
	registry  *Registry
	channel   events.Channel
	results   store.ResultStore
	resultTTL time.Duration
	logger    *slog.Logger
}

// NewExecutor wires an Executor from its injected capabilities.
func NewExecutor(
	registry *Registry,
	channel events.Channel,
	results store.ResultStore,
	resultTTL time.Duration,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		registry:  registry,
		channel:   channel,
		results:   results,
		resultTTL: resultTTL,
		logger:    logger.With("component", "executor"),
	}
}

// Execute runs job to completion. Re-invoking with the same task identity
// re-runs the provider call and overwrites prior results; idempotence is
// not guaranteed.
func (e *Executor) Execute(ctx context.Context, job queue.Job) {
	logger := e.logger.With("task_id", job.TaskID, "task_type", job.Type)

	e.publishStart(ctx, job.TaskID, logger)

	def, ok := e.registry.Definition(Type(job.Type))
	if !ok {
		e.reportError(ctx, job.TaskID, generation.NewValidationError(
			fmt.Sprintf("unsupported task type: %s", job.Type)), logger)
		return
	}

	var params Params
	if err := json.Unmarshal(job.Params, &params); err != nil {
		e.reportError(ctx, job.TaskID,
			generation.NewInternalError("failed to decode task parameters", err), logger)
		return
	}

	logger.Info("executing task")

	envelope, err := def.Handle(ctx, job.TaskID, params)
	if err != nil {
		e.reportError(ctx, job.TaskID, generation.Classify(err), logger)
		return
	}

	// A failure while reporting success degrades to the error path so the
	// client still observes a terminal outcome for the task.
	if err := e.reportSuccess(ctx, job.TaskID, envelope, logger); err != nil {
		e.reportError(ctx, job.TaskID, generation.Classify(err), logger)
		return
	}

	logger.Info("task completed")
}

// publishStart emits the start event. It is best-effort: a broker fault here
// must not prevent the provider call, and the client still learns the
// outcome through the result store.
func (e *Executor) publishStart(ctx context.Context, taskID string, logger *slog.Logger) {
	ev, err := events.NewStart(taskID)
	if err == nil {
		err = e.channel.Publish(ctx, taskID, ev)
	}
	if err != nil {
		logger.Warn("failed to publish start event", "error", err)
	}
}

// reportSuccess publishes the complete event and stores the envelope.
func (e *Executor) reportSuccess(ctx context.Context, taskID string, envelope any, logger *slog.Logger) error {
	ev, err := events.New(events.TypeComplete, envelope)
	if err != nil {
		return fmt.Errorf("failed to build complete event: %w", err)
	}
	if err := e.channel.Publish(ctx, taskID, ev); err != nil {
		return fmt.Errorf("failed to publish complete event: %w", err)
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal result envelope: %w", err)
	}
	if err := e.results.Save(ctx, taskID, payload, e.resultTTL); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

// reportError publishes the error event and stores the uniform error
// envelope. Both are best-effort: a broker or store fault is logged and
// swallowed so it never masks the original error or crashes the worker.
func (e *Executor) reportError(ctx context.Context, taskID string, gerr *generation.Error, logger *slog.Logger) {
	logger.Error("task failed", "error_type", string(gerr.Kind), "error", gerr.Message)

	envelope := NewErrorEnvelope(taskID, gerr)

	ev, err := events.New(events.TypeError, envelope)
	if err == nil {
		err = e.channel.Publish(ctx, taskID, ev)
	}
	if err != nil {
		logger.Warn("failed to publish error event", "error", err)
	}

	payload, err := json.Marshal(envelope)
	if err == nil {
		err = e.results.Save(ctx, taskID, payload, e.resultTTL)
	}
	if err != nil {
		logger.Warn("failed to store error envelope", "error", err)
	}
}
