package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sketchforge/sketchforge-api/internal/events"
	"github.com/sketchforge/sketchforge-api/internal/generation"
	"github.com/sketchforge/sketchforge-api/internal/queue"
	"github.com/sketchforge/sketchforge-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel records published events and can be made to fail.
type fakeChannel struct {
	mu         sync.Mutex
	published  []events.Event
	publishErr error
}

func (c *fakeChannel) Publish(ctx context.Context, taskID string, ev events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, ev)
	return nil
}

func (c *fakeChannel) Subscribe(ctx context.Context, taskID string) (events.Subscription, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeChannel) events() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.published...)
}

// fakeResultStore records saves in memory and can be made to fail.
type fakeResultStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	ttls    map[string]time.Duration
	saveErr error
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{
		saved: make(map[string][]byte),
		ttls:  make(map[string]time.Duration),
	}
}

func (s *fakeResultStore) Save(ctx context.Context, taskID string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[taskID] = append([]byte(nil), payload...)
	s.ttls[taskID] = ttl
	return nil
}

func (s *fakeResultStore) Get(ctx context.Context, taskID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.saved[taskID]
	if !ok {
		return nil, store.ErrResultNotFound
	}
	return payload, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func successRegistry(envelope any, err error) *Registry {
	r := NewRegistry()
	r.Register(TypeTextGeneration, Definition{
		Handle: func(ctx context.Context, taskID string, params Params) (any, error) {
			return envelope, err
		},
	})
	return r
}

func textJob(taskID string) queue.Job {
	return queue.Job{
		TaskID: taskID,
		Type:   string(TypeTextGeneration),
		Params: json.RawMessage(`{"prompt":"a house"}`),
	}
}

func TestExecutorSuccessPath(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{}
	results := newFakeResultStore()
	envelope := NewGenerationEnvelope("task-1", &generation.Generation{
		Content: "code",
		Model:   "m",
	})
	exec := NewExecutor(successRegistry(envelope, nil), channel, results, time.Hour, testLogger())

	exec.Execute(context.Background(), textJob("task-1"))

	published := channel.events()
	require.Len(t, published, 2)
	assert.Equal(t, events.TypeStart, published[0].Type)
	assert.Equal(t, events.TypeComplete, published[1].Type)

	var startData events.StartData
	require.NoError(t, json.Unmarshal(published[0].Data, &startData))
	assert.Equal(t, "task-1", startData.TaskID)
	assert.NotZero(t, startData.Timestamp)

	payload, err := results.Get(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "success", EnvelopeStatus(payload))
	assert.Equal(t, time.Hour, results.ttls["task-1"])

	// The complete event carries the same envelope the store does.
	assert.JSONEq(t, string(payload), string(published[1].Data))
}

func TestExecutorHandlerFailure(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{}
	results := newFakeResultStore()
	handlerErr := generation.NewStatusError("302.ai", 429, []byte(`{"error":{"message":"rate limited"}}`))
	exec := NewExecutor(successRegistry(nil, handlerErr), channel, results, time.Hour, testLogger())

	exec.Execute(context.Background(), textJob("task-2"))

	published := channel.events()
	require.Len(t, published, 2)
	assert.Equal(t, events.TypeError, published[1].Type)

	payload, err := results.Get(context.Background(), "task-2")
	require.NoError(t, err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, EnvelopeStatusError, env.Status)
	assert.Equal(t, "rate limited", env.Error)
	assert.Equal(t, "UpstreamStatusError", env.ErrorType)
	assert.Equal(t, "task-2", env.TaskID)
}

func TestExecutorUnsupportedType(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{}
	results := newFakeResultStore()
	exec := NewExecutor(NewRegistry(), channel, results, time.Hour, testLogger())

	exec.Execute(context.Background(), queue.Job{
		TaskID: "task-3",
		Type:   "video-generation",
		Params: json.RawMessage(`{}`),
	})

	payload, err := results.Get(context.Background(), "task-3")
	require.NoError(t, err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, "ValidationError", env.ErrorType)
	assert.Contains(t, env.Error, "unsupported task type")
}

func TestExecutorMalformedParams(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{}
	results := newFakeResultStore()
	exec := NewExecutor(successRegistry(nil, nil), channel, results, time.Hour, testLogger())

	exec.Execute(context.Background(), queue.Job{
		TaskID: "task-4",
		Type:   string(TypeTextGeneration),
		Params: json.RawMessage(`not json`),
	})

	payload, err := results.Get(context.Background(), "task-4")
	require.NoError(t, err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, "InternalError", env.ErrorType)
}

func TestExecutorPublishFailureDegradesToErrorPath(t *testing.T) {
	t.Parallel()

	// Publishing fails entirely. The start event is best-effort so the
	// handler still runs; the complete event is not, so reporting falls back
	// to the error path and the store still receives a terminal envelope.
	channel := &fakeChannel{publishErr: errors.New("broker down")}
	results := newFakeResultStore()
	envelope := NewGenerationEnvelope("task-5", &generation.Generation{Content: "code"})
	exec := NewExecutor(successRegistry(envelope, nil), channel, results, time.Hour, testLogger())

	exec.Execute(context.Background(), textJob("task-5"))

	// Success reporting degrades to the error path when the complete event
	// cannot be published, and that path stores an error envelope.
	payload, err := results.Get(context.Background(), "task-5")
	require.NoError(t, err)
	assert.Equal(t, EnvelopeStatusError, EnvelopeStatus(payload))
}

func TestExecutorStoreFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	channel := &fakeChannel{}
	results := newFakeResultStore()
	results.saveErr = errors.New("store down")
	handlerErr := generation.NewValidationError("bad input")
	exec := NewExecutor(successRegistry(nil, handlerErr), channel, results, time.Hour, testLogger())

	// Must not panic and must still publish the error event.
	exec.Execute(context.Background(), textJob("task-6"))

	published := channel.events()
	require.Len(t, published, 2)
	assert.Equal(t, events.TypeError, published[1].Type)
}
