package assisted

import (
	"errors"
	"fmt"
)

// Tool errors
var (
	ErrToolUnavailable  = errors.New("assisted tool is not available")
	ErrInvocationFailed = errors.New("assisted tool invocation failed")
	ErrTimeout          = errors.New("assisted tool timed out")
)

// Output errors
var (
	ErrEmptyOutput = errors.New("assisted tool produced no output")
	ErrNoHeading   = errors.New("assisted tool output does not start with a markdown heading")
)

// InvocationError carries the exit status of a failed tool run.
type InvocationError struct {
	ExitCode int
	Err      error
}

func (e *InvocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: exit code %d", ErrInvocationFailed, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit code %d: %v", ErrInvocationFailed, e.ExitCode, e.Err)
}

// Unwrap lets errors.Is match both ErrInvocationFailed and the underlying cause.
func (e *InvocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvocationFailed}
	}
	return []error{ErrInvocationFailed, e.Err}
}
