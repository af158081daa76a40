// Package registry provides a generational arena that stores values behind
// opaque, copyable handles with manual reference counting.
//
// Every allocation draws its slot and epoch from a single monotonically
// increasing counter, so a handle is never issued twice. The epoch exists so
// that slots could be recycled in the future; today it always equals the slot.
//
// The registry is not safe for concurrent use. Callers serialize access.
package registry

import (
	"fmt"
	"slices"

	"github.com/zjrosen/wildo/internal/log"
)

// Handle addresses a value of kind T inside a Registry. The type parameter
// only tags the handle; two handles are equal when both fields are equal.
type Handle[T any] struct {
	Slot  uint64 `yaml:"slot"`
	Epoch uint64 `yaml:"epoch"`
}

// String implements fmt.Stringer.
func (h Handle[T]) String() string {
	return fmt.Sprintf("#%d.%d", h.Slot, h.Epoch)
}

// entry is a stored value plus its bookkeeping.
type entry[T any] struct {
	value T
	epoch uint64
	refs  uint32
}

// Registry owns values of type T. All other references to a value are handles.
type Registry[T any] struct {
	items      map[Handle[T]]*entry[T]
	generation uint64
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[Handle[T]]*entry[T])}
}

// Allocate stores v and returns its handle with a reference count of 1.
func (r *Registry[T]) Allocate(v T) Handle[T] {
	h := Handle[T]{Slot: r.generation, Epoch: r.generation}
	r.items[h] = &entry[T]{value: v, epoch: r.generation, refs: 1}
	r.generation++
	return h
}

// Get returns the value addressed by h.
func (r *Registry[T]) Get(h Handle[T]) (T, bool) {
	e, ok := r.items[h]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// GetMut returns a pointer to the stored value. The pointer must not be kept
// beyond the current operation.
func (r *Registry[T]) GetMut(h Handle[T]) (*T, bool) {
	e, ok := r.items[h]
	if !ok {
		return nil, false
	}
	return &e.value, true
}

// Contains reports whether h addresses a live value.
func (r *Registry[T]) Contains(h Handle[T]) bool {
	_, ok := r.items[h]
	return ok
}

// Register adds a reference to the value addressed by h.
// Registering a handle that is not live is a programming error and panics.
func (r *Registry[T]) Register(h Handle[T]) {
	e, ok := r.items[h]
	if !ok {
		panic(fmt.Sprintf("registry: register on missing entity %s", h))
	}
	e.refs++
}

// Unregister drops one reference to the value addressed by h. A value whose
// count is already zero is removed instead and returned, so a value survives
// one more Unregister than it has had Registers.
// Unregistering a handle that is not live is a programming error and panics.
func (r *Registry[T]) Unregister(h Handle[T]) (T, bool) {
	e, ok := r.items[h]
	if !ok {
		panic(fmt.Sprintf("registry: unregister on missing entity %s", h))
	}
	if e.refs > 0 {
		e.refs--
		var zero T
		return zero, false
	}
	delete(r.items, h)
	log.Debug(log.CatRegistry, "entity released", "handle", h.String())
	return e.value, true
}

// Len returns the number of live values.
func (r *Registry[T]) Len() int {
	return len(r.items)
}

// Generation returns the next counter value that Allocate will use.
func (r *Registry[T]) Generation() uint64 {
	return r.generation
}

// Handles returns every live handle ordered by slot.
func (r *Registry[T]) Handles() []Handle[T] {
	hs := make([]Handle[T], 0, len(r.items))
	for h := range r.items {
		hs = append(hs, h)
	}
	slices.SortFunc(hs, func(a, b Handle[T]) int {
		switch {
		case a.Slot < b.Slot:
			return -1
		case a.Slot > b.Slot:
			return 1
		default:
			return 0
		}
	})
	return hs
}
