// Package action implements deferred commands that mutate an execution
// context, and the trampoline that applies them.
//
// An Action is a value: building one has no side effects. Side effects happen
// only inside Apply, which runs callbacks with the context passed as a
// parameter, so callbacks never capture the mutable state they operate on.
package action

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zjrosen/wildo/internal/log"
)

// ErrNotImplemented marks operations that are bound to keys but have no
// behavior yet. Callers wrap it with the operation name.
var ErrNotImplemented = errors.New("not implemented")

// Kind discriminates Action variants.
type Kind int

const (
	KindNone Kind = iota
	KindCallback
	KindSequence
	KindMoveRight
	KindMoveLeft
	KindMoveUp
	KindMoveDown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindCallback:
		return "Callback"
	case KindSequence:
		return "Sequence"
	case KindMoveRight:
		return "MoveRight"
	case KindMoveLeft:
		return "MoveLeft"
	case KindMoveUp:
		return "MoveUp"
	case KindMoveDown:
		return "MoveDown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Callback is a deferred unit of work. It receives exclusive access to the
// context and returns the action to apply next.
type Callback[C any] func(ctx C) (Action[C], error)

// Action is a deferred command over a context of type C. The zero value is None.
type Action[C any] struct {
	kind Kind
	call Callback[C]
	seq  []Action[C]
}

// None does nothing.
func None[C any]() Action[C] { return Action[C]{} }

// Call defers fn.
func Call[C any](fn Callback[C]) Action[C] {
	if fn == nil {
		return Action[C]{}
	}
	return Action[C]{kind: KindCallback, call: fn}
}

// Do defers fn, which has no follow-up.
func Do[C any](fn func(ctx C) error) Action[C] {
	return Call(func(ctx C) (Action[C], error) {
		return Action[C]{}, fn(ctx)
	})
}

// Sequence applies actions left to right, stopping at the first failure.
func Sequence[C any](actions ...Action[C]) Action[C] {
	return Action[C]{kind: KindSequence, seq: slices.Clone(actions)}
}

// MoveRight focuses the selected child of the focused entity.
func MoveRight[C any]() Action[C] { return Action[C]{kind: KindMoveRight} }

// MoveLeft returns focus to the parent.
func MoveLeft[C any]() Action[C] { return Action[C]{kind: KindMoveLeft} }

// MoveUp moves the selection of the parent container up.
func MoveUp[C any]() Action[C] { return Action[C]{kind: KindMoveUp} }

// MoveDown moves the selection of the parent container down.
func MoveDown[C any]() Action[C] { return Action[C]{kind: KindMoveDown} }

// Kind reports the variant.
func (a Action[C]) Kind() Kind { return a.kind }

// IsNone reports whether a does nothing at the top level. A Sequence of Nones
// is not None.
func (a Action[C]) IsNone() bool { return a.kind == KindNone }

// Actions returns the elements of a Sequence, or nil for other variants.
func (a Action[C]) Actions() []Action[C] {
	if a.kind != KindSequence {
		return nil
	}
	return slices.Clone(a.seq)
}

// Chain returns a followed by others. A Sequence receiver is extended in
// place of nesting; any other receiver becomes the first element of a new
// Sequence. Nested Nones and Sequences are kept as they are.
func (a Action[C]) Chain(others ...Action[C]) Action[C] {
	if a.kind == KindSequence {
		return Action[C]{kind: KindSequence, seq: append(slices.Clip(a.seq), others...)}
	}
	seq := make([]Action[C], 0, 1+len(others))
	seq = append(seq, a)
	seq = append(seq, others...)
	return Action[C]{kind: KindSequence, seq: seq}
}

func (a Action[C]) String() string {
	if a.kind != KindSequence {
		return a.kind.String()
	}
	parts := make([]string, len(a.seq))
	for i, s := range a.seq {
		parts[i] = s.String()
	}
	return "Sequence[" + strings.Join(parts, ", ") + "]"
}

// Navigator is the part of a context that directional actions drive.
type Navigator interface {
	MoveDeeper() error
	MoveShallower() error
	MoveUp() error
	MoveDown() error
}

// Apply runs a against ctx until no work is left. Callback follow-ups run
// before the next element of an enclosing Sequence. The first error aborts
// everything still pending and is returned.
func Apply[C Navigator](a Action[C], ctx C) error {
	pending := []Action[C]{a}
	steps := 0

	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		steps++

		var err error
		switch cur.kind {
		case KindNone:
		case KindCallback:
			var next Action[C]
			next, err = cur.call(ctx)
			if err == nil {
				pending = append(pending, next)
			}
		case KindSequence:
			for i := len(cur.seq) - 1; i >= 0; i-- {
				pending = append(pending, cur.seq[i])
			}
		case KindMoveRight:
			err = wrap("move right", ctx.MoveDeeper())
		case KindMoveLeft:
			err = wrap("move left", ctx.MoveShallower())
		case KindMoveUp:
			err = wrap("move up", ctx.MoveUp())
		case KindMoveDown:
			err = wrap("move down", ctx.MoveDown())
		default:
			err = fmt.Errorf("unknown action kind %s", cur.kind)
		}

		if err != nil {
			log.Debug(log.CatAction, "apply aborted", "steps", steps, "dropped", len(pending), "error", err)
			return err
		}
	}

	log.Debug(log.CatAction, "applied", "steps", steps)
	return nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
