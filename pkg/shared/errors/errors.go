package errors

// CommandError represents an error that stopped a command, carrying the exit code and
// whatever partial result the command produced.
type CommandError struct {
	ExitCode    int
	CommonError string
	Args        interface{}
	Result      interface{}
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance, encapsulating args, result, and the error message.
func NewCommandError(args interface{}, result interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Args:        args,
		Result:      result,
		Err:         err,
	}
}
