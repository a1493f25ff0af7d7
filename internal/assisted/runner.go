package assisted

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultWaitDelay bounds how long I/O copying may continue after the process is killed.
const DefaultWaitDelay = 5 * time.Second

// Result is the captured outcome of one tool run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int // -1 when the process did not report one
}

// Runner executes an argv and captures its output.
type Runner interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	WaitDelay time.Duration
}

// Run executes argv. A non-zero exit is not an error here; it is reported through
// Result.ExitCode. Errors are returned when the process could not be started or the
// context ended first.
func (r ExecRunner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, &InvocationError{ExitCode: -1, Err: errors.New("empty argv")}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	err := cmd.Run()
	res := Result{
		Stdout:   strings.ToValidUTF8(stdout.String(), "\uFFFD"),
		Stderr:   strings.ToValidUTF8(stderr.String(), "\uFFFD"),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%w: %v", ErrTimeout, ctxErr)
		}
		return res, &InvocationError{ExitCode: res.ExitCode, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return res, &InvocationError{ExitCode: res.ExitCode, Err: err}
	}
	return res, nil
}
