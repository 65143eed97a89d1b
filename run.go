package basecmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mfridman/basecmd/pkg/output"
)

// RunOptions specifies options for running a command.
type RunOptions struct {
	// Stdin, Stdout, and Stderr are the standard input, output, and error streams for the command.
	// If any of these are nil, the command will use the default streams ([os.Stdin], [os.Stdout],
	// and [os.Stderr], respectively).
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Prog is the program name shown in usage and help text. Defaults to the base name of
	// os.Args[0].
	Prog string

	// Sink is used by commands that have neither a Sink nor an Output configuration of their own.
	Sink output.Sink

	// Output configures the sink built for commands without one. If nil, the configuration is
	// read with [output.ConfigFromEnv].
	Output *output.Config
}

// Main runs cmd with the process arguments and exits with the resulting code.
func Main(ctx context.Context, cmd *Command) {
	os.Exit(RunFromArgs(ctx, cmd, os.Args[1:], nil))
}

// RunFromArgs parses args (without the program name) for cmd, executes it, and returns the process
// exit code. Error policy:
//
//   - -h/--help prints help, --version prints the version; both return [ExitSuccess] without
//     calling Exec.
//   - Malformed or missing arguments print usage and return [ExitUsage].
//   - A [*CommandError] is written through the command's sink at error severity and its return
//     code is returned. With --traceback the error is printed to stderr with its stack trace
//     instead.
//   - Any other error is a defect: it is printed to stderr with its type and stack trace and
//     [ExitFailure] is returned.
//     Panics are not recovered.
//
// The options parameter may be nil, in which case default values are used.
func RunFromArgs(ctx context.Context, cmd *Command, args []string, options *RunOptions) int {
	options = checkAndSetRunOptions(options)

	s, set, done, err := prepare(cmd, args, options)
	switch {
	case errors.Is(err, errHelp), errors.Is(err, errVersion):
		return ExitSuccess
	case err != nil:
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(options.Stderr, "Usage: %s\n%s: error: %v\n", formatUsage(options.Prog, set), options.Prog, usageErr)
			return ExitUsage
		}
		return reportDefect(options.Stderr, err, withStack(err))
	}
	defer done()

	_, err = execute(ctx, cmd, s)
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		if traceback, _ := LookupOption[bool](s, OptionTraceback); traceback {
			fmt.Fprintf(options.Stderr, "%+v\n", cmdErr.withTrace())
		} else {
			s.Out.Errorf("CommandError: %s", cmdErr.Message)
		}
		return cmdErr.Code()
	}
	return reportDefect(options.Stderr, err, withStack(err))
}

// ParseAndRun parses args for cmd and executes it, returning the command's result. Help and
// version requests are printed and return no error. All errors are returned unmodified: a
// [*UsageError] for bad arguments, a [*CommandError] from the command, or any defect.
func ParseAndRun(ctx context.Context, cmd *Command, args []string, options *RunOptions) (string, error) {
	options = checkAndSetRunOptions(options)
	s, _, done, err := prepare(cmd, args, options)
	if err != nil {
		if errors.Is(err, errHelp) || errors.Is(err, errVersion) {
			return "", nil
		}
		return "", err
	}
	defer done()
	return execute(ctx, cmd, s)
}

// prepare builds the parser for cmd, parses args, and creates the invocation state. Help and
// version output is written here. The returned func releases the sink and must be called once the
// command is done.
func prepare(cmd *Command, args []string, options *RunOptions) (*State, *ArgSet, func(), error) {
	if cmd == nil {
		return nil, nil, nil, errors.New("command is nil")
	}
	set, err := buildArgSet(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := set.parse(args)
	if err != nil {
		switch {
		case errors.Is(err, errHelp):
			fmt.Fprintln(options.Stdout, formatHelp(options.Prog, cmd.Metadata(), set, helpWidth(options.Stdout)))
		case errors.Is(err, errVersion):
			fmt.Fprintln(options.Stdout, cmd.Metadata().Version)
		}
		return nil, set, nil, err
	}
	s, done, err := newState(cmd, opts, options)
	if err != nil {
		return nil, set, nil, err
	}
	return s, set, done, nil
}

// execute runs the command with ready state. A non-empty result is wrapped in transaction markers
// when requested and written through the sink.
func execute(ctx context.Context, c *Command, s *State) (string, error) {
	noColor, _ := LookupOption[bool](s, OptionNoColor)
	forceColor, _ := LookupOption[bool](s, OptionForceColor)
	if noColor && forceColor {
		return "", NewCommandError("The --no-color and --force-color options can't be used together.")
	}
	if c.Exec == nil {
		return "", &NoExecError{Command: c}
	}
	out, err := c.Exec(ctx, s)
	if err != nil {
		return "", err
	}
	if out != "" {
		if c.OutputTransaction {
			out = "BEGIN;\n" + out + "\nCOMMIT;"
		}
		s.Out.Infof("%s", out)
	}
	return out, nil
}

// newState creates the state for one invocation, including the command's sink.
func newState(c *Command, opts Options, options *RunOptions) (*State, func(), error) {
	s := &State{
		Options: opts,
		Stdin:   options.Stdin,
		Stdout:  options.Stdout,
		Stderr:  options.Stderr,
	}
	done := func() {}

	var sink output.Sink
	switch {
	case c.Sink != nil:
		sink = c.Sink
	case c.Output == nil && options.Sink != nil:
		sink = options.Sink
	default:
		cfg, err := sinkConfig(c, options)
		if err != nil {
			return nil, nil, err
		}
		noColor, _ := LookupOption[bool](s, OptionNoColor)
		forceColor, _ := LookupOption[bool](s, OptionForceColor)
		if noColor {
			cfg.NoColor, cfg.ForceColor = true, false
		} else if forceColor {
			cfg.NoColor, cfg.ForceColor = false, true
		}
		built, err := output.New(cfg, options.Stdout, options.Stderr)
		if err != nil {
			return nil, nil, err
		}
		if closer, ok := built.(io.Closer); ok {
			done = func() { _ = closer.Close() }
		}
		sink = built
	}
	s.Out = output.Filter(sink, s.Verbosity())
	return s, done, nil
}

func sinkConfig(c *Command, options *RunOptions) (output.Config, error) {
	var cfg output.Config
	switch {
	case c.Output != nil:
		cfg = *c.Output
	case options.Output != nil:
		cfg = *options.Output
	default:
		var err error
		if cfg, err = output.ConfigFromEnv(); err != nil {
			return output.Config{}, err
		}
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = options.Prog + "__" + time.Now().Format("2006-01-02_15-04-05")
	}
	return cfg, nil
}

// reportDefect prints err's type followed by traced, the same error with its stack trace.
func reportDefect(w io.Writer, err, traced error) int {
	fmt.Fprintf(w, "Error (%T): %+v\n", err, traced)
	return ExitFailure
}

func checkAndSetRunOptions(opt *RunOptions) *RunOptions {
	var o RunOptions
	if opt != nil {
		o = *opt
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Prog == "" {
		o.Prog = filepath.Base(os.Args[0])
	}
	return &o
}
