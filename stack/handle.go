package stack

import "github.com/samber/mo"

// Handle is an optional reference to a Stack. It is absent once the stack
// has been destroyed through it.
type Handle[T any] struct {
	mo.Option[*Stack[T]]
}

// NewHandle creates a stack and wraps it in a present Handle.
// On error the handle is absent.
func NewHandle[T any](capacity int, opts ...Option[T]) (Handle[T], error) {
	s, err := New(capacity, opts...)
	if err != nil {
		return Handle[T]{mo.None[*Stack[T]]()}, err
	}
	return Handle[T]{mo.Some(s)}, nil
}

// Destroy destroys the stack held by h and clears h.
// A nil or absent handle is left untouched.
func Destroy[T any](h *Handle[T]) {
	if h == nil {
		return
	}
	s, ok := h.Get()
	if !ok {
		return
	}
	s.Destroy()
	h.Option = mo.None[*Stack[T]]()
}
