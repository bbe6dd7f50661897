package stack

// Option sets a Stack option.
type Option[T any] func(*options[T])

type options[T any] struct {
	release func(T)
	alloc   Allocator[T]
}

// WithReleaser sets the function Destroy calls on every element still in the
// stack. Without one the stack never frees element content.
func WithReleaser[T any](release func(T)) Option[T] {
	return func(o *options[T]) {
		o.release = release
	}
}

// WithAllocator sets the allocator of the slot buffer. A nil allocator keeps
// the default, which allocates with make.
func WithAllocator[T any](alloc Allocator[T]) Option[T] {
	return func(o *options[T]) {
		if alloc != nil {
			o.alloc = alloc
		}
	}
}
