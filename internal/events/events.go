package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event type values published over a task's channel.
const (
	TypeStart    = "start"
	TypeComplete = "complete"
	TypeError    = "error"
)

// Event is a single lifecycle notification for one task.
// It is published at most once per lifecycle point and never persisted.
type Event struct {
	// Type is one of TypeStart, TypeComplete, TypeError.
	Type string `json:"event"`

	// Data carries the event payload: {task_id, timestamp} for start events,
	// the terminal result envelope for complete and error events.
	Data json.RawMessage `json:"data"`
}

// IsTerminal reports whether eventType ends a task's event stream.
func IsTerminal(eventType string) bool {
	return eventType == TypeComplete || eventType == TypeError
}

// ChannelName returns the pub/sub channel carrying events for taskID.
func ChannelName(taskID string) string {
	return "task_stream:" + taskID
}

// New builds an Event of the given type with data serialized as JSON.
func New(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{Type: eventType, Data: raw}, nil
}

// StartData is the payload of a start event.
type StartData struct {
	TaskID    string  `json:"task_id"`
	Timestamp float64 `json:"timestamp"`
}

// NewStart builds a start event for taskID stamped with the current time
// (unix seconds with fractional precision).
func NewStart(taskID string) (Event, error) {
	return New(TypeStart, StartData{
		TaskID:    taskID,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	})
}

// Subscription is a live attachment to one task's event channel.
// Close must be safe to call multiple times.
type Subscription interface {
	// Messages returns the stream of raw JSON-encoded events. The channel is
	// closed when the subscription ends, whether by Close or by a broker
	// failure; Err distinguishes the two.
	Messages() <-chan []byte

	// Err returns the error that terminated the subscription, or nil.
	Err() error

	// Close detaches from the channel and releases the subscription.
	Close() error
}

// Channel is the per-task publish/subscribe capability.
// Implementations must deliver events for one task to one connected
// subscriber in publish order. The process-wide implementation lives in
// internal/platform/redis.
type Channel interface {
	// Publish sends ev to every current subscriber of taskID's channel.
	Publish(ctx context.Context, taskID string, ev Event) error

	// Subscribe attaches to taskID's channel. The caller owns the returned
	// subscription and must close it exactly once.
	Subscribe(ctx context.Context, taskID string) (Subscription, error)
}
