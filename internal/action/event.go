package action

// EventAction tags a value produced while handling an input event. Absorbed
// stops the raw event from reaching anything else; Unabsorbed lets the next
// handler see it. The value is applied either way.
type EventAction[T any] struct {
	absorbed bool
	value    T
}

// Absorbed consumes the event.
func Absorbed[T any](v T) EventAction[T] {
	return EventAction[T]{absorbed: true, value: v}
}

// Unabsorbed declines the event.
func Unabsorbed[T any](v T) EventAction[T] {
	return EventAction[T]{value: v}
}

// IsAbsorbed reports whether the event was consumed.
func (e EventAction[T]) IsAbsorbed() bool { return e.absorbed }

// Value returns the carried value.
func (e EventAction[T]) Value() T { return e.value }
