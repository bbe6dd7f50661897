package stack_test

import (
	"fmt"

	"github.com/lifostack/lifostack/stack"
)

func Example() {
	st, err := stack.New(3, stack.WithReleaser(func(v string) {
		fmt.Println("release", v)
	}))
	if err != nil {
		panic(err)
	}
	for _, v := range []string{"A", "B", "C", "D"} {
		if err := st.Push(v); err != nil {
			fmt.Println("push", v, "failed:", err == stack.ErrStackFull)
		}
	}
	top, _ := st.Pop()
	fmt.Println("pop", top)
	top, _ = st.Peek()
	fmt.Println("peek", top, "size", st.Size())
	st.Destroy()
	// Output:
	// push D failed: true
	// pop C
	// peek B size 2
	// release B
	// release A
}
