package allocator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifostack/lifostack/internal/allocator"
)

func TestHeap(t *testing.T) {
	var a allocator.Heap[*int]
	buf, err := a.Malloc(10)
	require.Nil(t, err)
	require.Len(t, buf, 10)

	v := 1
	buf[3] = &v
	a.Free(buf)
	require.Nil(t, buf[3])
}

func TestHeap_InvalidMalloc(t *testing.T) {
	var a allocator.Heap[int]
	for _, n := range []int{-1, 0, allocator.MaxSize + 1} {
		buf, err := a.Malloc(n)
		require.Nil(t, buf)
		require.True(t, errors.Is(err, allocator.ErrInvalidSize), "size %d", n)
	}
}

func TestClassAllocator(t *testing.T) {
	a := allocator.NewClassAllocator[string]()
	buf, err := a.Malloc(10)
	require.Nil(t, err)
	require.Len(t, buf, 10)
	require.Equal(t, 16, cap(buf))
	a.Free(buf)

	buf, err = a.Malloc(1)
	require.Nil(t, err)
	require.Len(t, buf, 1)
	require.Equal(t, 1, cap(buf))
}

func TestClassAllocator_FreeZeroes(t *testing.T) {
	a := allocator.NewClassAllocator[*int]()
	buf, err := a.Malloc(4)
	require.Nil(t, err)
	v := 7
	for i := range buf {
		buf[i] = &v
	}
	a.Free(buf)
	for i := range buf {
		require.Nil(t, buf[i])
	}
}

func TestClassAllocator_InvalidMalloc(t *testing.T) {
	a := allocator.NewClassAllocator[int]()
	_, err := a.Malloc(-1)
	require.True(t, errors.Is(err, allocator.ErrInvalidSize))
	_, err = a.Malloc(allocator.MaxSize + 1)
	require.True(t, errors.Is(err, allocator.ErrInvalidSize))
}

func TestClassAllocator_InvalidFree(t *testing.T) {
	a := allocator.NewClassAllocator[int]()
	require.NotPanics(t, func() { a.Free(nil) })
	require.NotPanics(t, func() { a.Free(make([]int, 9)) })
}
