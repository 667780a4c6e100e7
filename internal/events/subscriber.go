package events

import (
	"context"
	"time"
)

// Message is one event received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers events on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// Coalesce calls fn once per burst of messages on ch: each message restarts a
// quiet-period timer of length window, and fn runs when the timer fires. A
// signal on refresh runs fn right away. Coalesce returns when ctx is done or
// ch is closed, or with fn's first error.
func Coalesce(ctx context.Context, ch <-chan Message, refresh <-chan struct{}, window time.Duration, fn func(context.Context) error) error {
	debounce := time.NewTimer(0)
	debounce.Stop()
	select {
	case <-debounce.C:
	default:
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(window)
		case <-refresh:
			debounce.Reset(0)
		case <-debounce.C:
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}
