package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sketchforge/sketchforge-api/internal/queue"
)

const (
	jobsKey     = "task_queue:jobs"
	stateKeyFmt = "task_queue_state:%s"

	// stateTTL bounds how long the queue's own execution-state record
	// outlives the job. It is a fallback signal for early polls, not the
	// durable result, so it expires independently of the result store.
	stateTTL = 24 * time.Hour
)

// Queue implements queue.Queue on a Redis list plus per-job state keys.
// LPUSH/BRPOP gives FIFO hand-off to however many worker processes are
// attached; each job is delivered to exactly one of them.
type Queue struct {
	client *redis.Client
}

// NewQueue constructs a Queue backed by the given client.
func NewQueue(client *redis.Client) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	return &Queue{client: client}, nil
}

// Enqueue pushes job onto the shared list and records it as queued.
func (q *Queue) Enqueue(ctx context.Context, job queue.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, jobsKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task %s: %w", job.TaskID, err)
	}
	// State record failures do not fail the submission: the job is already
	// queued and the status service treats a missing record as pending.
	_ = q.SetState(ctx, job.TaskID, queue.StateQueued, "")
	return nil
}

// Dequeue blocks up to wait for the next job via BRPOP.
func (q *Queue) Dequeue(ctx context.Context, wait time.Duration) (*queue.Job, error) {
	res, err := q.client.BRPop(ctx, wait, jobsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, queue.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(res))
	}

	var job queue.Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

// SetState writes the execution-state record for taskID.
func (q *Queue) SetState(ctx context.Context, taskID string, state queue.State, errMsg string) error {
	record := queue.Record{State: state}
	if state == queue.StateFailed {
		record.Error = errMsg
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal state record: %w", err)
	}
	key := fmt.Sprintf(stateKeyFmt, taskID)
	if err := q.client.Set(ctx, key, payload, stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to record state for task %s: %w", taskID, err)
	}
	return nil
}

// GetState returns the execution-state record for taskID; unknown tasks
// yield StateUnknown.
func (q *Queue) GetState(ctx context.Context, taskID string) (queue.Record, error) {
	key := fmt.Sprintf(stateKeyFmt, taskID)
	payload, err := q.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return queue.Record{State: queue.StateUnknown}, nil
	}
	if err != nil {
		return queue.Record{}, fmt.Errorf("failed to read state for task %s: %w", taskID, err)
	}

	var record queue.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return queue.Record{}, fmt.Errorf("failed to unmarshal state record: %w", err)
	}
	return record, nil
}
