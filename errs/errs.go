// Package errs provides the coded error type returned by every lifostack package.
// A code identifies the failure class, the message describes the instance.
package errs

import (
	"errors"
	"fmt"
	"io"
)

// RetCode is the failure class of an Error.
type RetCode int32

// lifostack return codes.
const (
	// RetOK means success.
	RetOK RetCode = 0

	// RetInvalidCapacity is returned when a stack is constructed with a non-positive capacity.
	RetInvalidCapacity RetCode = 1
	// RetAllocationFailure is returned when the slot buffer could not be obtained.
	RetAllocationFailure RetCode = 2
	// RetStackFull is returned by a push onto a stack holding capacity elements.
	RetStackFull RetCode = 3
	// RetStackEmpty is returned by a pop or peek on a stack holding no elements.
	RetStackEmpty RetCode = 4
	// RetInvalidArgument is returned for nil elements and for use of a destroyed stack.
	RetInvalidArgument RetCode = 5

	// RetUnknown is the code for errors that do not carry one.
	RetUnknown RetCode = 999
)

var codeNames = map[RetCode]string{
	RetOK:                "ok",
	RetInvalidCapacity:   "invalid capacity",
	RetAllocationFailure: "allocation failure",
	RetStackFull:         "stack full",
	RetStackEmpty:        "stack empty",
	RetInvalidArgument:   "invalid argument",
	RetUnknown:           "unknown",
}

// String returns the name of the code.
func (c RetCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int32(c))
}

// Success is the message of a nil error.
const Success = "success"

// Error is the error structure which contains the error code and message.
type Error struct {
	Code RetCode
	Msg  string

	cause error      // internal error, forms the error chain.
	stack stackTrace // call stack, not set if the chain already has one.
}

// Error implements the error interface and returns the error description.
func (e *Error) Error() string {
	if e == nil {
		return Success
	}
	if e.cause != nil {
		return fmt.Sprintf("code:%d(%s), msg:%s, caused by %s", e.Code, e.Code, e.Msg, e.cause.Error())
	}
	return fmt.Sprintf("code:%d(%s), msg:%s", e.Code, e.Code, e.Msg)
}

// Format implements the fmt.Formatter interface.
// %+v prints the stack trace when one was recorded.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "code:%d(%s), msg:%s", e.Code, e.Code, e.Msg)
			if e.stack != nil {
				e.stack.Format(s, verb)
			}
			if e.cause != nil {
				_, _ = fmt.Fprintf(s, "\nCause by %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = fmt.Fprintf(s, "%%!%c(errs.Error=%s)", verb, e.Error())
	}
}

// Unwrap supports Go 1.13+ error chains.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same code and message.
// A target with an empty Msg matches on code alone, so
// errors.Is(err, errs.New(RetStackFull, "")) holds for any stack-full error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if e == t {
		return true
	}
	return e.Code == t.Code && (t.Msg == "" || e.Msg == t.Msg)
}

// New creates an error.
func New(code RetCode, msg string) error {
	err := &Error{Code: code, Msg: msg}
	if traceable {
		err.stack = callers()
	}
	return err
}

// Newf creates an error, msg supports format strings.
func Newf(code RetCode, format string, params ...interface{}) error {
	return newWithSkip(code, fmt.Sprintf(format, params...))
}

func newWithSkip(code RetCode, msg string) error {
	err := &Error{Code: code, Msg: msg}
	if traceable {
		err.stack = callersSkip(1)
	}
	return err
}

// Wrap creates a new error containing err.
// The stack is only recorded when the chain holds no *Error yet,
// so a chain never carries more than one trace.
func Wrap(err error, code RetCode, msg string) error {
	if err == nil {
		return nil
	}
	wrapErr := &Error{Code: code, Msg: msg, cause: err}
	var e *Error
	if traceable && !errors.As(err, &e) {
		wrapErr.stack = callers()
	}
	return wrapErr
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code RetCode, format string, params ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapErr := &Error{Code: code, Msg: fmt.Sprintf(format, params...), cause: err}
	var e *Error
	if traceable && !errors.As(err, &e) {
		wrapErr.stack = callers()
	}
	return wrapErr
}

// Code gets the error code through error.
func Code(e error) RetCode {
	if e == nil {
		return RetOK
	}
	err, ok := e.(*Error)
	if !ok && !errors.As(e, &err) {
		return RetUnknown
	}
	if err == nil {
		return RetOK
	}
	return err.Code
}

// Msg gets the error msg through error.
func Msg(e error) string {
	if e == nil {
		return Success
	}
	err, ok := e.(*Error)
	if !ok && !errors.As(e, &err) {
		return e.Error()
	}
	if err == (*Error)(nil) {
		return Success
	}
	// the whole chain is printed when the error wraps another one.
	if err.Unwrap() != nil {
		return err.Error()
	}
	return err.Msg
}
