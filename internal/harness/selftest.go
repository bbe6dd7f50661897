package harness

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/hashicorp/go-multierror"

	"github.com/lifostack/lifostack/log"
	"github.com/lifostack/lifostack/stack"
)

const selfTestCapacity = 10

type check struct {
	name string
	run  func(rng *rand.Rand) error
}

var operationChecks = []check{
	{"Create (New)", checkCreate},
	{"Peek (Peek)", checkPeek},
	{"Push (Push)", checkPush},
	{"Pop (Pop)", checkPop},
	{"Destroy (Destroy)", checkDestroy},
}

// SelfTest runs the stack operation checks and prints a Pass or Fail line per
// operation to w. Failures are logged and returned together, wrapping ErrCheckFailed.
func SelfTest(w io.Writer, seed int64) error {
	return runChecks(w, newRand(seed), operationChecks)
}

func runChecks(w io.Writer, rng *rand.Rand, checks []check) error {
	var result *multierror.Error
	for _, c := range checks {
		status := "Pass"
		if err := c.run(rng); err != nil {
			status = "Fail"
			log.Warnf("test %s: %v", c.name, err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", c.name, err))
		}
		fmt.Fprintf(w, "Test %s:\t%s\n", c.name, status)
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}
	return nil
}

// expect fails unless err matches want.
func expect(op string, err, want error) error {
	if errors.Is(err, want) {
		return nil
	}
	return fmt.Errorf("%s returned %v, want %v", op, err, want)
}

func fill(st *stack.Stack[*int], rng *rand.Rand) error {
	for !st.IsFull() {
		v := rng.Intn(10)
		if err := st.Push(&v); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	}
	return nil
}

func checkCreate(*rand.Rand) error {
	h, err := stack.NewHandle(selfTestCapacity, stack.WithReleaser(func(*int) {}))
	if err != nil {
		return fmt.Errorf("create with releaser: %w", err)
	}
	stack.Destroy(&h)

	if _, err := stack.New[*int](0); !errors.Is(err, stack.ErrInvalidCapacity) {
		return fmt.Errorf("create with capacity 0 returned %v", err)
	}

	h, err = stack.NewHandle[*int](selfTestCapacity)
	if err != nil {
		return fmt.Errorf("create without releaser: %w", err)
	}
	stack.Destroy(&h)
	return nil
}

func checkPeek(*rand.Rand) error {
	st, err := stack.New[*int](2)
	if err != nil {
		return err
	}
	defer st.Destroy()

	_, err = st.Peek()
	if err := expect("peek on an empty stack", err, stack.ErrStackEmpty); err != nil {
		return err
	}
	num := 1
	if err := st.Push(&num); err != nil {
		return err
	}
	top, err := st.Peek()
	if err != nil {
		return err
	}
	if top != &num || st.Size() != 1 {
		return fmt.Errorf("peek returned %p with size %d, want %p with size 1", top, st.Size(), &num)
	}

	var nilStack *stack.Stack[*int]
	_, err = nilStack.Peek()
	return expect("peek on a nil stack", err, stack.ErrDestroyed)
}

func checkPush(rng *rand.Rand) error {
	st, err := stack.New[*int](selfTestCapacity)
	if err != nil {
		return err
	}
	defer st.Destroy()

	if err := fill(st, rng); err != nil {
		return err
	}
	extra := rng.Intn(10)
	if err := expect("push onto a full stack", st.Push(&extra), stack.ErrStackFull); err != nil {
		return err
	}
	if _, err := st.Pop(); err != nil {
		return err
	}

	var nilStack *stack.Stack[*int]
	if err := expect("push onto a nil stack", nilStack.Push(&extra), stack.ErrDestroyed); err != nil {
		return err
	}
	return expect("push of a nil element", st.Push(nil), stack.ErrNilElement)
}

func checkPop(rng *rand.Rand) error {
	st, err := stack.New[*int](selfTestCapacity)
	if err != nil {
		return err
	}
	defer st.Destroy()

	if err := fill(st, rng); err != nil {
		return err
	}
	for !st.IsEmpty() {
		if _, err := st.Pop(); err != nil {
			return err
		}
	}
	_, err = st.Pop()
	if err := expect("pop from an empty stack", err, stack.ErrStackEmpty); err != nil {
		return err
	}
	v := rng.Intn(20)
	if err := st.Push(&v); err != nil {
		return fmt.Errorf("push after drain: %w", err)
	}

	var nilStack *stack.Stack[*int]
	_, err = nilStack.Pop()
	return expect("pop from a nil stack", err, stack.ErrDestroyed)
}

func checkDestroy(rng *rand.Rand) error {
	released := 0
	release := stack.WithReleaser(func(*int) { released++ })

	h, err := stack.NewHandle(selfTestCapacity, release)
	if err != nil {
		return err
	}
	stack.Destroy(&h)
	if h.IsPresent() {
		return errors.New("handle still present after destroying an empty stack")
	}

	h, err = stack.NewHandle(selfTestCapacity, release)
	if err != nil {
		return err
	}
	if err := fill(h.MustGet(), rng); err != nil {
		return err
	}
	stack.Destroy(&h)
	if h.IsPresent() {
		return errors.New("handle still present after destroying a full stack")
	}
	if released != selfTestCapacity {
		return fmt.Errorf("released %d elements, want %d", released, selfTestCapacity)
	}

	stack.Destroy(&h)
	stack.Destroy[*int](nil)
	return nil
}
