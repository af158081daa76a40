// Package nav tracks the path of focus from the root entity down through
// nested containers.
package nav

// Stack is a non-empty path of handles. The first element is the root and is
// never removed; the last element has focus.
type Stack[H comparable] struct {
	frames []H
}

// New creates a stack holding only root.
func New[H comparable](root H) *Stack[H] {
	return &Stack[H]{frames: []H{root}}
}

// Root returns the bottom frame.
func (s *Stack[H]) Root() H { return s.frames[0] }

// Top returns the focused frame.
func (s *Stack[H]) Top() H { return s.frames[len(s.frames)-1] }

// Depth returns the number of frames, always at least one.
func (s *Stack[H]) Depth() int { return len(s.frames) }

// At returns the frame at index i, counting from the root. It panics when i is
// out of range.
func (s *Stack[H]) At(i int) H { return s.frames[i] }

// Push focuses h. Callers only push handles reachable from the current top.
func (s *Stack[H]) Push(h H) {
	s.frames = append(s.frames, h)
}

// Pop unfocuses the top frame and returns it. With only the root left it does
// nothing and reports false.
func (s *Stack[H]) Pop() (H, bool) {
	if len(s.frames) == 1 {
		var zero H
		return zero, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Path returns a copy of every frame from root to top.
func (s *Stack[H]) Path() []H {
	out := make([]H, len(s.frames))
	copy(out, s.frames)
	return out
}

// Reset drops every frame above the root and replaces the root with root.
func (s *Stack[H]) Reset(root H) {
	s.frames = append(s.frames[:0], root)
}
