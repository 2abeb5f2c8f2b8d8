package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sketchforge/sketchforge-api/internal/events"
)

// EventChannel implements events.Channel using Redis pub/sub.
type EventChannel struct {
	client *redis.Client
}

// NewEventChannel constructs an EventChannel backed by the given client.
func NewEventChannel(client *redis.Client) (*EventChannel, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	return &EventChannel{client: client}, nil
}

// Publish sends ev to every current subscriber of taskID's channel.
// Delivery is fire-and-forget: with no subscribers the event is dropped,
// matching the no-replay contract.
func (c *EventChannel) Publish(ctx context.Context, taskID string, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.client.Publish(ctx, events.ChannelName(taskID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event for task %s: %w", ev.Type, taskID, err)
	}
	return nil
}

// Subscribe attaches to taskID's channel. The subscription confirmation is
// awaited before returning so that events published afterwards are not lost
// to a half-open subscriber.
func (c *EventChannel) Subscribe(ctx context.Context, taskID string) (events.Subscription, error) {
	pubsub := c.client.Subscribe(ctx, events.ChannelName(taskID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to task %s: %w", taskID, err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte, 64)
	sub := &subscription{pubsub: pubsub, cancel: cancel, messages: out}

	go func(in <-chan *redis.Message) {
		defer close(out)
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					sub.setErr(errors.New("pub/sub connection closed"))
					return
				}
				if msg == nil {
					continue
				}
				payload := []byte(msg.Payload)
				select {
				case out <- payload:
				case <-subCtx.Done():
					return
				}
			}
		}
	}(pubsub.Channel())

	return sub, nil
}

type subscription struct {
	pubsub   *redis.PubSub
	cancel   context.CancelFunc
	messages <-chan []byte

	mu   sync.Mutex
	err  error
	once sync.Once
}

func (s *subscription) Messages() <-chan []byte {
	return s.messages
}

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Close detaches from the channel. Safe to call more than once; only the
// first call unsubscribes.
func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		err = s.pubsub.Close()
	})
	return err
}
