package pubsub

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd waits for the next event on ch and returns it as a tea.Msg.
// It yields nil once ctx is done or ch is closed, which ends the listen loop.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// ContinuousListener keeps one subscription open across Update calls.
// Re-issue Listen after each received event to keep receiving.
type ContinuousListener[T any] struct {
	ctx    context.Context
	ch     <-chan Event[T]
	last   atomic.Uint64
	missed atomic.Uint64
}

// NewContinuousListener subscribes to src for the lifetime of ctx.
func NewContinuousListener[T any](ctx context.Context, src Subscriber[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{ctx: ctx, ch: src.Subscribe(ctx)}
}

// Listen returns a command that delivers the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	if l == nil {
		return nil
	}
	next := ListenCmd(l.ctx, l.ch)
	return func() tea.Msg {
		msg := next()
		if event, ok := msg.(Event[T]); ok {
			l.observe(event.Seq)
		}
		return msg
	}
}

// observe counts the sequence numbers skipped since the previous delivery.
// Events published before the subscription existed are not counted.
func (l *ContinuousListener[T]) observe(seq uint64) {
	prev := l.last.Swap(seq)
	if prev != 0 && seq > prev+1 {
		l.missed.Add(seq - prev - 1)
	}
}

// Missed returns how many events the subscription dropped because it fell
// behind.
func (l *ContinuousListener[T]) Missed() uint64 {
	if l == nil {
		return 0
	}
	return l.missed.Load()
}
