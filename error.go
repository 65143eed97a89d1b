package basecmd

import (
	"fmt"

	"github.com/pkg/errors"
)

// Process exit codes used by [RunFromArgs].
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// CommandError is the error a command returns to signal an expected failure. On the command line
// it is reported tersely through the command's sink and the process exits with its return code.
// [Call] returns it unmodified.
type CommandError struct {
	Message string
	// ReturnCode is the process exit code. Zero means [ExitFailure].
	ReturnCode int

	err   error // wrapped error, if any
	trace error // carries the stack recorded at construction
}

// NewCommandError creates a CommandError with the default return code. The call stack is recorded
// and shown when the command runs with --traceback.
func NewCommandError(msg string) *CommandError {
	return &CommandError{Message: msg, trace: errors.New(msg)}
}

// Errorf is like [NewCommandError] with a formatted message.
func Errorf(format string, args ...any) *CommandError {
	return NewCommandError(fmt.Sprintf(format, args...))
}

// Wrap creates a CommandError whose message is msg followed by err's message. The wrapped error
// stays reachable through errors.Is and errors.As.
func Wrap(err error, msg string) *CommandError {
	if err == nil {
		return NewCommandError(msg)
	}
	return &CommandError{Message: msg + ": " + err.Error(), err: err, trace: errors.Wrap(err, msg)}
}

// WithReturnCode sets the return code and returns e.
func (e *CommandError) WithReturnCode(code int) *CommandError {
	e.ReturnCode = code
	return e
}

// Code returns the process exit code for e.
func (e *CommandError) Code() int {
	if e.ReturnCode == 0 {
		return ExitFailure
	}
	return e.ReturnCode
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error { return e.err }

// withTrace returns e, or a copy of e carrying the current stack when e was built without one.
func (e *CommandError) withTrace() *CommandError {
	if e.trace != nil {
		return e
	}
	c := *e
	if e.err != nil {
		c.trace = errors.WithStack(e.err)
	} else {
		c.trace = errors.New(e.Message)
	}
	return &c
}

// Format supports %+v, which prints the message followed by the recorded stack trace.
func (e *CommandError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "CommandError: %s (return code %d)", e.Message, e.Code())
		if e.trace != nil {
			fmt.Fprintf(s, "\n%+v", e.trace)
		}
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Message)
	default:
		fmt.Fprint(s, e.Message)
	}
}

// ErrorCode classifies a [UsageError].
type ErrorCode int

const (
	ErrMissingArguments ErrorCode = iota + 1
	ErrInvalidArgument
	ErrUnrecognizedArguments
	ErrUnknownCommand
)

func (c ErrorCode) String() string {
	switch c {
	case ErrMissingArguments:
		return "missing arguments"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrUnrecognizedArguments:
		return "unrecognized arguments"
	case ErrUnknownCommand:
		return "unknown command"
	default:
		return "unknown error"
	}
}

// UsageError is returned when command-line arguments are malformed or missing. It is detected
// before the command runs and maps to [ExitUsage].
type UsageError struct {
	Code ErrorCode
	Err  error
}

func newUsageError(code ErrorCode, format string, args ...any) *UsageError {
	return &UsageError{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *UsageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return e.Code.String() + ": <nil>"
	}
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error { return e.Err }

// ConfigError reports a mistake in how commands are assembled: colliding argument names,
// duplicate registrations, or discovery conflicts. It is a defect, not a user error.
type ConfigError struct {
	err error
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{err: errors.Errorf(format, args...)}
}

func (e *ConfigError) Error() string { return e.err.Error() }

// StackTrace returns the stack recorded where the error was detected.
func (e *ConfigError) StackTrace() errors.StackTrace {
	if st, ok := e.err.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// withStack records the current stack on err unless err already carries one.
func withStack(err error) error {
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return errors.WithStack(err)
}

// Format supports %+v, which includes the stack where the error was detected.
func (e *ConfigError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%+v", e.err)
		return
	}
	fmt.Fprint(s, e.err.Error())
}
