package events

import (
	"context"
	"sync"
)

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

// Recorded is one event captured by a RecordingPublisher.
type Recorded struct {
	Topic string
	Event any
}

// RecordingPublisher keeps every published event in memory. Tests use it to
// assert on what a component emitted.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Recorded
}

func (r *RecordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Topic: topic, Event: event})
	return nil
}

func (r *RecordingPublisher) Close() error {
	return nil
}

// Events returns a copy of the recorded events in publish order.
func (r *RecordingPublisher) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Topics returns the topics of the recorded events in publish order.
func (r *RecordingPublisher) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}
