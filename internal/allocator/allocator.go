// Package allocator obtains and recycles the fixed-length slot buffers
// that back bounded stacks.
package allocator

import (
	"errors"
	"fmt"
	"sync"
)

// maxPower bounds the largest size class, 1<<maxPower slots.
const maxPower = 30

// MaxSize is the largest buffer length an allocator hands out.
const MaxSize = 1 << maxPower

// ErrInvalidSize is returned for a requested length outside [1, MaxSize].
var ErrInvalidSize = errors.New("allocator: invalid size")

// Heap allocates every buffer with make and leaves reclamation to the GC.
type Heap[T any] struct{}

// Malloc returns a zeroed buffer of length n.
// A runtime panic raised by make is returned as an error.
func (Heap[T]) Malloc(n int) (buf []T, err error) {
	if n <= 0 || n > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("allocator: make %d slots: %v", n, r)
		}
	}()
	return make([]T, n), nil
}

// Free zeroes buf so the elements it referenced can be collected.
func (Heap[T]) Free(buf []T) {
	zero(buf)
}

// ClassAllocator pools buffers by size class. The capacity of every buffer it
// hands out is 1 << n. It is safe for concurrent use.
type ClassAllocator[T any] struct {
	pools [maxPower + 1]*sync.Pool
}

// NewClassAllocator creates a new ClassAllocator.
func NewClassAllocator[T any]() *ClassAllocator[T] {
	a := &ClassAllocator[T]{}
	for i := range a.pools {
		size := 1 << i
		a.pools[i] = &sync.Pool{
			New: func() interface{} {
				buf := make([]T, size)
				return &buf
			},
		}
	}
	return a
}

// Malloc gets a buffer of length n from the pool of its size class.
func (a *ClassAllocator[T]) Malloc(n int) ([]T, error) {
	if n <= 0 || n > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	buf := a.pools[powerToRoundUp(n)].Get().(*[]T)
	return (*buf)[:n], nil
}

// Free zeroes buf and returns it to its size class.
// Buffers that did not come from a ClassAllocator are dropped.
func (a *ClassAllocator[T]) Free(buf []T) {
	c := cap(buf)
	if c == 0 {
		return
	}
	power := powerToRoundUp(c)
	if 1<<power != c || power > maxPower {
		return
	}
	buf = buf[:c]
	zero(buf)
	a.pools[power].Put(&buf)
}

func zero[T any](buf []T) {
	var z T
	for i := range buf {
		buf[i] = z
	}
}

func powerToRoundUp(n int) int {
	powerOfTwo, power := 1, 0
	for ; n-powerOfTwo > 0; power++ {
		powerOfTwo <<= 1
	}
	return power
}
