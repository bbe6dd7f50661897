// Package harness runs the stack debug scenario: fill a stack with random
// ints, check that a full stack rejects a push, peek, drain it, check that an
// empty stack rejects a pop, then destroy it.
package harness

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/lifostack/lifostack/config"
	"github.com/lifostack/lifostack/errs"
	"github.com/lifostack/lifostack/log"
	"github.com/lifostack/lifostack/stack"
)

// ErrCheckFailed is returned when the stack breaks one of the checks of the scenario.
var ErrCheckFailed = errors.New("harness: check failed")

// errSimulated is the cause of a simulated allocation failure.
var errSimulated = errors.New("simulated allocation failure")

// Report records what a run observed.
type Report struct {
	Pushed   []int
	Peeked   int
	Popped   []int
	Released int
}

// Run executes the scenario on a stack configured by cfg and prints each step to w.
// The returned error carries errs.RetAllocationFailure when the stack could not be created.
// Progress goes to the default logger.
func Run(cfg config.StackConfig, w io.Writer) (*Report, error) {
	report := &Report{}
	opts := []stack.Option[*int]{
		stack.WithReleaser(func(*int) { report.Released++ }),
	}
	switch {
	case cfg.SimulateAllocFailure:
		opts = append(opts, stack.WithAllocator[*int](failingAllocator{}))
	case cfg.Pooled:
		opts = append(opts, stack.WithAllocator(stack.NewPooledAllocator[*int]()))
	}

	h, err := stack.NewHandle(cfg.Capacity, opts...)
	if err != nil {
		log.Errorf("could not create stack: %+v", err)
		return nil, err
	}
	defer stack.Destroy(&h)
	st := h.MustGet()
	log.Debugf("created %s", st)

	rng := newRand(cfg.Seed)

	fmt.Fprintln(w, "==== Inserting ====")
	values := lo.Times(cfg.Fill, func(int) int { return rng.Intn(10) })
	for _, v := range values {
		p := new(int)
		*p = v
		fmt.Fprintf(w, "int %d @ %p\n", *p, p)
		if err := st.Push(p); err != nil {
			return report, fmt.Errorf("push %d: %w", v, err)
		}
		log.Tracef("pushed %d, %s", v, st)
		report.Pushed = append(report.Pushed, v)
	}

	if st.IsFull() {
		extra := rng.Intn(10)
		if err := st.Push(&extra); !errors.Is(err, stack.ErrStackFull) {
			log.Warnf("push onto a full stack returned %v", err)
			return report, fmt.Errorf("%w: push onto a full stack returned %v", ErrCheckFailed, err)
		}
		log.Debugf("full stack rejected %d", extra)
	}

	if top, err := st.Peek(); err == nil {
		fmt.Fprintln(w, "==== Peek ====")
		fmt.Fprintf(w, "int %d @ %p\n", *top, top)
		fmt.Fprintln(w, "==============")
		report.Peeked = *top
	}

	fmt.Fprintln(w, "==== Removing =====")
	for !st.IsEmpty() {
		p, err := st.Pop()
		if err != nil {
			return report, fmt.Errorf("pop: %w", err)
		}
		fmt.Fprintf(w, "int %d @ %p\n", *p, p)
		report.Popped = append(report.Popped, *p)
	}

	if _, err := st.Pop(); errs.Code(err) != errs.RetStackEmpty {
		log.Warnf("pop from an empty stack returned %v", err)
		return report, fmt.Errorf("%w: pop from an empty stack returned %v", ErrCheckFailed, err)
	}

	stack.Destroy(&h)
	log.Infof("pushed %d, popped %d, released %d", len(report.Pushed), len(report.Popped), report.Released)
	return report, nil
}

// newRand seeds from the clock when seed is 0.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

type failingAllocator struct{}

func (failingAllocator) Malloc(int) ([]*int, error) { return nil, errSimulated }

func (failingAllocator) Free([]*int) {}
