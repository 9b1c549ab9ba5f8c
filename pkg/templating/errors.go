package templating

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrLimitExceeded is reported when a template registers more scales,
	// axes or variables than the configuration allows.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrNotArray is reported by sequence helpers given a non-sequence.
	ErrNotArray = errors.New("expected an array")
)

// HelperError is a failure raised by a helper during a render pass. It
// records the stack at the point of failure for the error block.
type HelperError struct {
	Helper string
	Err    error
	Stack  []byte
}

func (e *HelperError) Error() string {
	if e.Helper == "" {
		return e.Err.Error()
	}
	return e.Helper + ": " + e.Err.Error()
}

func (e *HelperError) Unwrap() error { return e.Err }

// fail aborts the current render pass. The template engine recovers error
// panics and returns them from execution.
func fail(helper string, err error) {
	panic(&HelperError{Helper: helper, Err: err, Stack: debug.Stack()})
}

func failf(helper, format string, args ...any) {
	fail(helper, fmt.Errorf(format, args...))
}
