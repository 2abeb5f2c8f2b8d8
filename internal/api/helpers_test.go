package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sketchforge/sketchforge-api/internal/events"
	"github.com/sketchforge/sketchforge-api/internal/queue"
	"github.com/sketchforge/sketchforge-api/internal/service"
	"github.com/sketchforge/sketchforge-api/internal/store"
	"github.com/sketchforge/sketchforge-api/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memQueue is an in-memory queue.Queue for handler tests.
type memQueue struct {
	mu       sync.Mutex
	enqueued []queue.Job
	records  map[string]queue.Record
}

func newMemQueue() *memQueue {
	return &memQueue{records: make(map[string]queue.Record)}
}

func (q *memQueue) Enqueue(ctx context.Context, job queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, job)
	q.records[job.TaskID] = queue.Record{State: queue.StateQueued}
	return nil
}

func (q *memQueue) Dequeue(ctx context.Context, wait time.Duration) (*queue.Job, error) {
	return nil, queue.ErrEmpty
}

func (q *memQueue) SetState(ctx context.Context, taskID string, state queue.State, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	record := queue.Record{State: state}
	if state == queue.StateFailed {
		record.Error = errMsg
	}
	q.records[taskID] = record
	return nil
}

func (q *memQueue) GetState(ctx context.Context, taskID string) (queue.Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	record, ok := q.records[taskID]
	if !ok {
		return queue.Record{State: queue.StateUnknown}, nil
	}
	return record, nil
}

func (q *memQueue) jobs() []queue.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.Job(nil), q.enqueued...)
}

// memStore is an in-memory store.ResultStore for handler tests.
type memStore struct {
	mu       sync.Mutex
	payloads map[string][]byte
	getErr   error
}

func newMemStore() *memStore {
	return &memStore{payloads: make(map[string][]byte)}
}

func (s *memStore) Save(ctx context.Context, taskID string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[taskID] = append([]byte(nil), payload...)
	return nil
}

func (s *memStore) Get(ctx context.Context, taskID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	payload, ok := s.payloads[taskID]
	if !ok {
		return nil, store.ErrResultNotFound
	}
	return payload, nil
}

func (s *memStore) put(taskID string, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[taskID] = []byte(payload)
}

func (s *memStore) setGetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

// memSubscription is a directly drivable events.Subscription.
type memSubscription struct {
	messages chan []byte
	err      error
	once     sync.Once
}

func newMemSubscription() *memSubscription {
	return &memSubscription{messages: make(chan []byte, 16)}
}

func (s *memSubscription) Messages() <-chan []byte { return s.messages }
func (s *memSubscription) Err() error              { return s.err }

func (s *memSubscription) Close() error {
	s.once.Do(func() { close(s.messages) })
	return nil
}

func (s *memSubscription) push(ev events.Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		panic(err)
	}
	s.messages <- raw
}

func (s *memSubscription) pushRaw(raw []byte) {
	s.messages <- raw
}

// memChannel hands out a prepared subscription.
type memChannel struct {
	sub          *memSubscription
	subscribeErr error
	published    []events.Event
	mu           sync.Mutex
}

func (c *memChannel) Publish(ctx context.Context, taskID string, ev events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, ev)
	return nil
}

func (c *memChannel) Subscribe(ctx context.Context, taskID string) (events.Subscription, error) {
	if c.subscribeErr != nil {
		return nil, c.subscribeErr
	}
	return c.sub, nil
}

func newTestService(q queue.Queue, s store.ResultStore) *service.TaskService {
	registry := task.NewDefaultRegistry(task.Providers{})
	return service.NewTaskService(registry, q, s, testLogger())
}
