package stack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifostack/lifostack/errs"
	"github.com/lifostack/lifostack/stack"
)

func TestHandle(t *testing.T) {
	var released []int
	h, err := stack.NewHandle(3, stack.WithReleaser(func(v int) { released = append(released, v) }))
	require.Nil(t, err)
	require.True(t, h.IsPresent())

	st := h.MustGet()
	require.Nil(t, st.Push(1))
	require.Nil(t, st.Push(2))

	stack.Destroy(&h)
	require.True(t, h.IsAbsent())
	require.Equal(t, []int{2, 1}, released)

	_, ok := h.Get()
	require.False(t, ok)
	require.NotPanics(t, func() { stack.Destroy(&h) })
	require.Equal(t, []int{2, 1}, released)
}

func TestHandle_InvalidCapacity(t *testing.T) {
	h, err := stack.NewHandle[string](0)
	require.Equal(t, errs.RetInvalidCapacity, errs.Code(err))
	require.True(t, h.IsAbsent())
}

func TestDestroy_NilHandle(t *testing.T) {
	require.NotPanics(t, func() { stack.Destroy[int](nil) })

	var zero stack.Handle[int]
	require.True(t, zero.IsAbsent())
	require.NotPanics(t, func() { stack.Destroy(&zero) })
}
