package stack_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifostack/lifostack/errs"
	"github.com/lifostack/lifostack/stack"
)

func TestNew(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		st, err := stack.New[int](capacity)
		require.Nil(t, st)
		require.Equal(t, errs.RetInvalidCapacity, errs.Code(err))
		require.True(t, errors.Is(err, stack.ErrInvalidCapacity))
	}

	st, err := stack.New[int](5)
	require.Nil(t, err)
	require.True(t, st.IsEmpty())
	require.False(t, st.IsFull())
	require.Equal(t, 0, st.Size())
	require.Equal(t, 5, st.Cap())
	require.Equal(t, "Stack: Cap=5, Size=0", st.String())
}

func TestNew_AllocationFailure(t *testing.T) {
	st, err := stack.New[int](3, stack.WithAllocator[int](&failingAllocator[int]{}))
	require.Nil(t, st)
	require.Equal(t, errs.RetAllocationFailure, errs.Code(err))
	require.True(t, errors.Is(err, errOutOfSlots))

	short := &recordingAllocator[int]{short: true}
	st, err = stack.New[int](3, stack.WithAllocator[int](short))
	require.Nil(t, st)
	require.Equal(t, errs.RetAllocationFailure, errs.Code(err))
	require.Equal(t, 1, short.frees, "a short buffer is handed back")
}

func TestPushPop(t *testing.T) {
	st, err := stack.New[string](3)
	require.Nil(t, err)

	for i, v := range []string{"A", "B", "C"} {
		require.Nil(t, st.Push(v))
		require.Equal(t, i+1, st.Size())
	}
	require.True(t, st.IsFull())

	require.True(t, errors.Is(st.Push("D"), stack.ErrStackFull))
	require.Equal(t, errs.RetStackFull, errs.Code(st.Push("D")))
	require.Equal(t, 3, st.Size())

	for _, want := range []string{"C", "B", "A"} {
		v, err := st.Pop()
		require.Nil(t, err)
		require.Equal(t, want, v)
	}
	require.True(t, st.IsEmpty())

	v, err := st.Pop()
	require.Equal(t, "", v)
	require.Equal(t, errs.RetStackEmpty, errs.Code(err))
	require.Equal(t, 0, st.Size())
}

func TestPeek(t *testing.T) {
	st, err := stack.New[int](2)
	require.Nil(t, err)

	_, err = st.Peek()
	require.True(t, errors.Is(err, stack.ErrStackEmpty))
	require.Equal(t, 0, st.Size())

	require.Nil(t, st.Push(1))
	require.Nil(t, st.Push(2))
	v, err := st.Peek()
	require.Nil(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, 2, st.Size())

	popped, err := st.Pop()
	require.Nil(t, err)
	require.Equal(t, v, popped)
}

func TestPush_NilElement(t *testing.T) {
	st, err := stack.New[*int](2)
	require.Nil(t, err)
	require.Equal(t, errs.RetInvalidArgument, errs.Code(st.Push(nil)))
	require.Equal(t, 0, st.Size())

	var m map[string]int
	ms, err := stack.New[map[string]int](1)
	require.Nil(t, err)
	require.True(t, errors.Is(ms.Push(m), stack.ErrNilElement))

	is, err := stack.New[interface{}](1)
	require.Nil(t, err)
	require.True(t, errors.Is(is.Push(nil), stack.ErrNilElement))
	require.True(t, errors.Is(is.Push((*int)(nil)), stack.ErrNilElement))

	zs, err := stack.New[int](1)
	require.Nil(t, err)
	require.Nil(t, zs.Push(0), "zero values of non-reference types are elements")
}

func TestInvalidArgument_DistinctSentinels(t *testing.T) {
	st, err := stack.New[*int](2)
	require.Nil(t, err)

	err = st.Push(nil)
	require.True(t, errors.Is(err, stack.ErrNilElement))
	require.False(t, errors.Is(err, stack.ErrDestroyed))

	v := 1
	st.Destroy()
	for _, err := range []error{st.Push(&v), st.Push(nil)} {
		require.True(t, errors.Is(err, stack.ErrDestroyed))
		require.False(t, errors.Is(err, stack.ErrNilElement))
	}
	_, err = st.Pop()
	require.False(t, errors.Is(err, stack.ErrNilElement))

	// a code-only target still matches both
	anyInvalid := errs.New(errs.RetInvalidArgument, "")
	require.True(t, errors.Is(stack.ErrNilElement, anyInvalid))
	require.True(t, errors.Is(stack.ErrDestroyed, anyInvalid))
}

func TestPushPopRoundTrip(t *testing.T) {
	st, err := stack.New[int](4)
	require.Nil(t, err)
	require.Nil(t, st.Push(1))
	require.Nil(t, st.Push(2))

	before := st.Size()
	require.Nil(t, st.Push(3))
	v, err := st.Pop()
	require.Nil(t, err)
	require.Equal(t, 3, v)
	require.Equal(t, before, st.Size())

	top, err := st.Peek()
	require.Nil(t, err)
	require.Equal(t, 2, top)
}

func TestPop_ClearsSlot(t *testing.T) {
	rec := &recordingAllocator[*int]{}
	st, err := stack.New[*int](2, stack.WithAllocator[*int](rec))
	require.Nil(t, err)

	v := 1
	require.Nil(t, st.Push(&v))
	require.Equal(t, &v, rec.buf[0])
	_, err = st.Pop()
	require.Nil(t, err)
	require.Nil(t, rec.buf[0])
}

func TestTraverse(t *testing.T) {
	st, err := stack.New[int](5)
	require.Nil(t, err)

	var visited []int
	st.Traverse(func(v int) { visited = append(visited, v) })
	require.Empty(t, visited)
	st.Traverse(nil)

	for i := 1; i <= 4; i++ {
		require.Nil(t, st.Push(i*10))
	}
	st.Traverse(func(v int) { visited = append(visited, v) })
	if diff := cmp.Diff([]int{10, 20, 30, 40}, visited); diff != "" {
		t.Fatalf("traverse order (-want +got):\n%s", diff)
	}
	require.Equal(t, 4, st.Size())
	top, err := st.Peek()
	require.Nil(t, err)
	require.Equal(t, 40, top)
}

func TestSizeMatchesPushes(t *testing.T) {
	const capacity = 16
	for n := 0; n <= capacity; n++ {
		st, err := stack.New[int](capacity)
		require.Nil(t, err)
		for i := 0; i < n; i++ {
			require.Nil(t, st.Push(i))
		}
		require.Equal(t, n, st.Size())
		require.Equal(t, n == capacity, st.IsFull())

		for i := n - 1; i >= 0; i-- {
			v, err := st.Pop()
			require.Nil(t, err)
			require.Equal(t, i, v)
		}
	}
}

func TestDestroy(t *testing.T) {
	var released []string
	rec := &recordingAllocator[string]{}
	st, err := stack.New(3,
		stack.WithReleaser(func(v string) { released = append(released, v) }),
		stack.WithAllocator[string](rec),
	)
	require.Nil(t, err)

	for _, v := range []string{"A", "B", "C"} {
		require.Nil(t, st.Push(v))
	}
	require.True(t, st.IsFull())
	require.True(t, errors.Is(st.Push("D"), stack.ErrStackFull))
	require.Equal(t, 3, st.Size())

	v, err := st.Pop()
	require.Nil(t, err)
	require.Equal(t, "C", v)
	require.Equal(t, 2, st.Size())

	v, err = st.Peek()
	require.Nil(t, err)
	require.Equal(t, "B", v)
	require.Equal(t, 2, st.Size())

	st.Destroy()
	require.Equal(t, []string{"B", "A"}, released)
	require.Equal(t, 1, rec.frees)
	require.Equal(t, []string{"", "", ""}, rec.buf)

	st.Destroy()
	require.Equal(t, []string{"B", "A"}, released)
	require.Equal(t, 1, rec.frees)

	assert.True(t, errors.Is(st.Push("E"), stack.ErrDestroyed))
	_, err = st.Pop()
	assert.True(t, errors.Is(err, stack.ErrDestroyed))
	assert.False(t, errors.Is(err, stack.ErrStackEmpty))
	_, err = st.Peek()
	assert.Equal(t, errs.RetInvalidArgument, errs.Code(err))
	assert.False(t, errors.Is(err, stack.ErrNilElement))
	assert.Equal(t, 0, st.Size())
	assert.Equal(t, 0, st.Cap())
	assert.True(t, st.IsEmpty())
	assert.False(t, st.IsFull())
	assert.Equal(t, "Stack: destroyed", st.String())
}

func TestDestroy_NoReleaser(t *testing.T) {
	st, err := stack.New[*int](2)
	require.Nil(t, err)
	a, b := 1, 2
	require.Nil(t, st.Push(&a))
	require.Nil(t, st.Push(&b))
	require.NotPanics(t, st.Destroy)
	require.Equal(t, 1, a)
	require.Equal(t, 2, b)
}

func TestDestroy_EmptyStackReleasesNothing(t *testing.T) {
	calls := 0
	st, err := stack.New(2, stack.WithReleaser(func(int) { calls++ }))
	require.Nil(t, err)
	st.Destroy()
	require.Zero(t, calls)
}

func TestNilStack(t *testing.T) {
	var st *stack.Stack[int]
	require.NotPanics(t, st.Destroy)
	require.True(t, errors.Is(st.Push(1), stack.ErrDestroyed))
	require.False(t, errors.Is(st.Push(1), stack.ErrNilElement))
	_, err := st.Pop()
	require.True(t, errors.Is(err, stack.ErrDestroyed))
	_, err = st.Peek()
	require.True(t, errors.Is(err, stack.ErrDestroyed))
	require.Equal(t, 0, st.Size())
	require.True(t, st.IsEmpty())
	st.Traverse(func(int) { t.Fatal("visited a nil stack") })
	require.Equal(t, "Stack: destroyed", st.String())
}

func TestPooledAllocator(t *testing.T) {
	alloc := stack.NewPooledAllocator[*int]()
	v := 1

	first, err := stack.New(5, stack.WithAllocator(alloc))
	require.Nil(t, err)
	require.Equal(t, 5, first.Cap())
	require.Nil(t, first.Push(&v))
	first.Destroy()

	second, err := stack.New(7, stack.WithAllocator(alloc))
	require.Nil(t, err)
	require.Equal(t, 7, second.Cap())
	require.True(t, second.IsEmpty())
	for i := 0; i < 7; i++ {
		require.Nil(t, second.Push(&v))
	}
	require.True(t, errors.Is(second.Push(&v), stack.ErrStackFull))
}

var errOutOfSlots = errors.New("out of slots")

type failingAllocator[T any] struct{}

func (*failingAllocator[T]) Malloc(int) ([]T, error) { return nil, errOutOfSlots }

func (*failingAllocator[T]) Free([]T) {}

type recordingAllocator[T any] struct {
	buf   []T
	frees int
	short bool
}

func (a *recordingAllocator[T]) Malloc(n int) ([]T, error) {
	if a.short {
		n--
	}
	a.buf = make([]T, n)
	return a.buf, nil
}

func (a *recordingAllocator[T]) Free(buf []T) {
	a.frees++
	var zero T
	for i := range buf {
		buf[i] = zero
	}
}
