package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx := context.Background()
	subs := []<-chan Event[int]{broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(CreatedEvent, 42)

	for _, ch := range subs {
		event := receive(t, ch)
		require.Equal(t, 42, event.Payload)
		require.Equal(t, CreatedEvent, event.Type)
		require.False(t, event.Timestamp.IsZero())
	}
}

func TestBroker_ContextCancellationUnsubscribes(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_FullSubscriberDropsInsteadOfBlocking(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		broker.Publish(UpdatedEvent, 1)
		broker.Publish(UpdatedEvent, 2)
		broker.Publish(UpdatedEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "Publish blocked")
	}

	first := receive(t, ch)
	require.Equal(t, 1, first.Payload)
	require.Equal(t, uint64(1), first.Seq)
	require.Equal(t, uint64(2), broker.Dropped())

	broker.Publish(UpdatedEvent, 4)
	next := receive(t, ch)
	require.Equal(t, uint64(4), next.Seq, "gap in Seq shows the dropped events")
}

func TestBroker_CloseEndsSubscriptions(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Zero(t, broker.SubscriberCount())

	late := broker.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok, "subscriptions after close start closed")

	broker.Publish(CreatedEvent, "ignored")
}
