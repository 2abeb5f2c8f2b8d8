package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sketchforge/sketchforge-api/internal/queue"
)

// PoolConfig holds configuration for the worker pool.
type PoolConfig struct {
	// WorkerCount determines how many concurrent workers consume the queue.
	WorkerCount int

	// DequeueWait is the blocking wait per dequeue attempt. Shorter waits
	// make shutdown more responsive; longer waits reduce queue round trips.
	DequeueWait time.Duration
}

// DefaultPoolConfig returns a PoolConfig with reasonable defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		WorkerCount: 4,
		DequeueWait: 2 * time.Second,
	}
}

// Pool consumes the distributed queue and hands each job to the executor.
// Multiple pools across processes share one queue; each job is delivered to
// exactly one worker (at-least-once overall, since a worker dying mid-job
// loses no queue entry but produces no result either).
type Pool struct {
	queue      queue.Queue
	executor   *Executor
	config     PoolConfig
	logger     *slog.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewPool creates a Pool. Call Start to begin consuming.
func NewPool(q queue.Queue, executor *Executor, config PoolConfig, logger *slog.Logger) *Pool {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultPoolConfig().WorkerCount
	}
	if config.DequeueWait <= 0 {
		config.DequeueWait = DefaultPoolConfig().DequeueWait
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:      q,
		executor:   executor,
		config:     config,
		logger:     logger.With("component", "worker_pool"),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "worker_count", p.config.WorkerCount)
}

// Stop shuts the pool down and waits for in-flight jobs to finish. Jobs
// already dispatched run to completion; only idle dequeue waits are cut
// short.
func (p *Pool) Stop() {
	p.cancelFunc()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// worker consumes jobs until the pool context is cancelled.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	logger := p.logger.With("worker_id", id)
	logger.Debug("starting worker")

	for {
		select {
		case <-p.ctx.Done():
			logger.Debug("stopping worker")
			return
		default:
		}

		job, err := p.queue.Dequeue(p.ctx, p.config.DequeueWait)
		if errors.Is(err, queue.ErrEmpty) {
			continue
		}
		if err != nil {
			if p.ctx.Err() != nil {
				logger.Debug("stopping worker")
				return
			}
			logger.Error("failed to dequeue job", "error", err)
			// Back off so a broken queue connection does not busy-loop.
			select {
			case <-p.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		p.process(job, logger)
	}
}

// process runs one job, keeping the queue's state record in step. A panic in
// a handler is recovered here and recorded as a raised fault; it never takes
// the worker down.
func (p *Pool) process(job *queue.Job, logger *slog.Logger) {
	// Jobs run against a fresh context: pool shutdown must not cancel a
	// provider call already dispatched.
	ctx := context.Background()
	logger = logger.With("task_id", job.TaskID, "task_type", job.Type)

	if err := p.queue.SetState(ctx, job.TaskID, queue.StateRunning, ""); err != nil {
		logger.Warn("failed to record running state", "error", err)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task handler panicked", "panic", r)
			if err := p.queue.SetState(ctx, job.TaskID, queue.StateFailed,
				fmt.Sprintf("panic: %v", r)); err != nil {
				logger.Warn("failed to record failed state", "error", err)
			}
		}
	}()

	p.executor.Execute(ctx, *job)

	if err := p.queue.SetState(ctx, job.TaskID, queue.StateSucceeded, ""); err != nil {
		logger.Warn("failed to record succeeded state", "error", err)
	}
}
