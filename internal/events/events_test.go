package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ideafactory/ideas/internal/model"
)

func TestNoopPublisher_Publish(t *testing.T) {
	pub := &NoopPublisher{}
	err := pub.Publish(context.Background(), TopicIdeaCreated, IdeaCreated{})
	if err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestPublishersImplementPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = (*RecordingPublisher)(nil)
}

func TestPublishChange(t *testing.T) {
	rec := &RecordingPublisher{}
	err := PublishChange(context.Background(), rec, TopicIdeaDeleted, IdeaDeleted{IdeaID: "7"})
	if err != nil {
		t.Fatalf("PublishChange: %v", err)
	}
	topics := rec.Topics()
	if len(topics) != 2 || topics[0] != TopicIdeaDeleted || topics[1] != TopicCatalogUpdated {
		t.Fatalf("topics = %v", topics)
	}
	cu, ok := rec.Events()[1].Event.(CatalogUpdated)
	if !ok || cu.Reason != TopicIdeaDeleted {
		t.Errorf("second event = %#v", rec.Events()[1].Event)
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicIdeaCreated, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := IdeaCreated{Idea: &model.Idea{ID: 12, Title: "Food truck"}}
	if err := pub.Publish(context.Background(), TopicIdeaCreated, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		var got IdeaCreated
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Idea.ID != 12 {
			t.Errorf("got idea ID=%d, want 12", got.Idea.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_CanceledContext(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicFavoriteToggled, FavoriteToggled{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Publish with canceled ctx = %v, want context.Canceled", err)
	}
}

func TestCoalesce_DebouncesBurst(t *testing.T) {
	ch := make(chan Message, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Coalesce(ctx, ch, nil, 50*time.Millisecond, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	for range 5 {
		ch <- Message{Topic: TopicIdeaUpdated}
	}

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for coalesced call")
	}
	select {
	case <-calls:
		t.Fatal("burst produced more than one call")
	case <-time.After(150 * time.Millisecond):
	}

	close(ch)
	if err := <-done; err != nil {
		t.Fatalf("Coalesce returned %v", err)
	}
}

func TestCoalesce_RefreshRunsImmediately(t *testing.T) {
	refresh := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	called := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Coalesce(ctx, make(chan Message), refresh, time.Hour, func(context.Context) error {
			called <- struct{}{}
			return nil
		})
	}()

	refresh <- struct{}{}
	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not trigger a call")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Coalesce returned %v", err)
	}
}

func TestCoalesce_PropagatesError(t *testing.T) {
	ch := make(chan Message, 1)
	boom := errors.New("boom")
	ch <- Message{}
	err := Coalesce(context.Background(), ch, nil, time.Millisecond, func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Coalesce = %v, want boom", err)
	}
}
