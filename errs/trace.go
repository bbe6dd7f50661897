package errs

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"
)

var traceable bool // if traceable is true, new errors record a stack trace.

const (
	stackSkip     = 3
	maxStackDepth = 32
)

// SetTraceable controls whether new errors record a stack trace.
// It is meant to be called once at startup and is not safe for concurrent use.
func SetTraceable(x bool) {
	traceable = x
}

// frame is a program counter + 1 inside a stack frame.
type frame uintptr

func (f frame) pc() uintptr { return uintptr(f) - 1 }

func (f frame) file() string {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return "unknown"
	}
	file, _ := fn.FileLine(f.pc())
	return file
}

func (f frame) line() int {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return 0
	}
	_, line := fn.FileLine(f.pc())
	return line
}

func (f frame) name() string {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

// Format formats the frame.
//
//	%s    source file
//	%d    source line
//	%n    function name
//	%v    equivalent to %s:%d
//	%+s   function name and full path separated by \n\t
//	%+v   equivalent to %+s:%d
func (f frame) Format(s fmt.State, verb rune) {
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, f.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, f.file())
			return
		}
		_, _ = io.WriteString(s, path.Base(f.file()))
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(f.line()))
	case 'n':
		_, _ = io.WriteString(s, funcName(f.name()))
	case 'v':
		f.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		f.Format(s, 'd')
	}
}

// stackTrace is a stack of frames from innermost to outermost.
type stackTrace []frame

// Format prints one frame per line for %+v and a bracketed list otherwise.
func (st stackTrace) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		for _, f := range st {
			_, _ = io.WriteString(s, "\n")
			f.Format(s, verb)
		}
		return
	}
	_, _ = io.WriteString(s, "[")
	for i, f := range st {
		if i > 0 {
			_, _ = io.WriteString(s, " ")
		}
		f.Format(s, verb)
	}
	_, _ = io.WriteString(s, "]")
}

func callers() stackTrace {
	return callersSkip(1)
}

// callersSkip records the stack, skipping extra frames on top of stackSkip.
func callersSkip(extra int) stackTrace {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(stackSkip+extra, pcs[:])
	st := make(stackTrace, n)
	for i := 0; i < n; i++ {
		st[i] = frame(pcs[i])
	}
	return st
}

// funcName removes the path prefix component of a function's name.
func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}
