// Package stack provides a bounded, array-backed LIFO stack.
//
// A Stack holds at most the capacity it was created with. Its slot buffer is
// obtained once from an Allocator and never resized. A Stack is not safe for
// concurrent use.
package stack

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/lifostack/lifostack/errs"
	"github.com/lifostack/lifostack/internal/allocator"
)

var (
	// ErrInvalidCapacity happens when a stack is created with capacity <= 0.
	ErrInvalidCapacity = errs.New(errs.RetInvalidCapacity, "stack capacity must be positive")
	// ErrStackFull happens when pushing onto a full stack.
	ErrStackFull = errs.New(errs.RetStackFull, "stack is full")
	// ErrStackEmpty happens when popping or peeking an empty stack.
	ErrStackEmpty = errs.New(errs.RetStackEmpty, "stack is empty")
	// ErrNilElement happens when pushing a nil reference.
	ErrNilElement = errs.New(errs.RetInvalidArgument, "nil element")
	// ErrDestroyed happens when a destroyed stack is used.
	ErrDestroyed = errs.New(errs.RetInvalidArgument, "stack is destroyed")
)

// Allocator obtains and recycles slot buffers.
type Allocator[T any] interface {
	// Malloc returns a buffer of length n.
	Malloc(n int) ([]T, error)
	// Free takes back a buffer returned by Malloc.
	Free(buf []T)
}

// NewPooledAllocator returns an allocator that recycles buffers of destroyed
// stacks by power-of-two size class. One pooled allocator may back many stacks.
func NewPooledAllocator[T any]() Allocator[T] {
	return allocator.NewClassAllocator[T]()
}

// Stack is a bounded LIFO stack.
type Stack[T any] struct {
	buf       []T // slots [0, size) hold elements, bottom first.
	size      int // also the index of the next free slot.
	release   func(T)
	alloc     Allocator[T]
	destroyed bool
}

// New creates a stack holding at most capacity elements.
func New[T any](capacity int, opts ...Option[T]) (*Stack[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	o := &options[T]{alloc: allocator.Heap[T]{}}
	for _, opt := range opts {
		opt(o)
	}
	buf, err := o.alloc.Malloc(capacity)
	if err != nil {
		return nil, errs.Wrapf(err, errs.RetAllocationFailure, "allocate %d slots", capacity)
	}
	if len(buf) != capacity {
		o.alloc.Free(buf)
		return nil, errs.Newf(errs.RetAllocationFailure,
			"allocator returned %d slots, want %d", len(buf), capacity)
	}
	return &Stack[T]{
		buf:     buf,
		release: o.release,
		alloc:   o.alloc,
	}, nil
}

// Push puts v at the top of the stack.
// Nil references are rejected, they would be indistinguishable from an empty slot.
func (s *Stack[T]) Push(v T) error {
	if s == nil || s.destroyed {
		return ErrDestroyed
	}
	if lo.IsNil(v) {
		return ErrNilElement
	}
	if s.size == len(s.buf) {
		return ErrStackFull
	}
	s.buf[s.size] = v
	s.size++
	return nil
}

// Pop removes and returns the top element. The caller owns the returned value.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if s == nil || s.destroyed {
		return zero, ErrDestroyed
	}
	if s.size == 0 {
		return zero, ErrStackEmpty
	}
	s.size--
	v := s.buf[s.size]
	s.buf[s.size] = zero
	return v, nil
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, error) {
	var zero T
	if s == nil || s.destroyed {
		return zero, ErrDestroyed
	}
	if s.size == 0 {
		return zero, ErrStackEmpty
	}
	return s.buf[s.size-1], nil
}

// Size returns the number of elements in the stack.
func (s *Stack[T]) Size() int {
	if s == nil {
		return 0
	}
	return s.size
}

// Cap returns the number of elements the stack can hold, 0 once destroyed.
func (s *Stack[T]) Cap() int {
	if s == nil {
		return 0
	}
	return len(s.buf)
}

// IsFull checks whether the stack holds Cap elements.
// A destroyed stack is never full.
func (s *Stack[T]) IsFull() bool {
	return s.Cap() > 0 && s.Size() == s.Cap()
}

// IsEmpty checks whether the stack holds no element.
func (s *Stack[T]) IsEmpty() bool {
	return s.Size() == 0
}

// Traverse calls visit on every element from bottom to top.
// visit must not modify the stack.
func (s *Stack[T]) Traverse(visit func(T)) {
	if s == nil || visit == nil {
		return
	}
	for i := 0; i < s.size; i++ {
		visit(s.buf[i])
	}
}

// Destroy pops every remaining element, hands each one to the releaser if one
// was given, and returns the slot buffer to its allocator.
// Destroy on a nil or already destroyed stack does nothing.
func (s *Stack[T]) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	for s.size > 0 {
		v, _ := s.Pop()
		if s.release != nil {
			s.release(v)
		}
	}
	s.alloc.Free(s.buf)
	s.buf = nil
	s.release = nil
	s.destroyed = true
}

// String prints the structure of Stack.
func (s *Stack[T]) String() string {
	if s == nil || s.destroyed {
		return "Stack: destroyed"
	}
	return fmt.Sprintf("Stack: Cap=%d, Size=%d", s.Cap(), s.Size())
}
