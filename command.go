package basecmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mfridman/basecmd/pkg/output"
)

// DefaultVersion is reported by --version when a command does not set one.
const DefaultVersion = "unknown"

// NoExecError is returned when a command has no execution function.
type NoExecError struct {
	Command *Command
}

func (e *NoExecError) Error() string {
	return "command has no execution function"
}

// Command is one unit of CLI functionality. A command does not carry its own name: the name comes
// from the [Registry] or [Runner] it is dispatched from.
type Command struct {
	// Help is a short description shown in help text and command listings.
	Help string

	// Version is printed by --version. Defaults to [DefaultVersion].
	Version string

	// OutputTransaction wraps a non-empty result of Exec between "BEGIN;" and "COMMIT;" lines.
	OutputTransaction bool

	// SuppressedBaseArguments lists built-in options hidden from help text, e.g. "--traceback" or
	// "-v". They are still accepted.
	SuppressedBaseArguments []string

	// StealthOptions lists option names the command reads but does not declare. They are accepted
	// by [Call] without validation.
	StealthOptions []string

	// MissingArgsMessage replaces the usage error shown when a required positional argument is
	// missing.
	MissingArgsMessage string

	// Args declares the command's arguments. The built-in arguments are already present.
	Args func(*ArgSet)

	// Exec is the command's unit of work. A non-empty result is written through the command's sink
	// (after transaction wrapping) and returned to [Call] callers. Return a [*CommandError] for
	// expected failures; any other error is treated as a defect.
	Exec func(ctx context.Context, s *State) (string, error)

	// Sink, if set, receives the command's output. Otherwise a sink is built from Output.
	Sink output.Sink
	// Output configures the default sink. If nil, [RunOptions.Output] or the environment is used.
	Output *output.Config
}

// Metadata describes a command. See the fields of [Command] for details.
type Metadata struct {
	Help                    string
	Version                 string
	OutputTransaction       bool
	SuppressedBaseArguments []string
	StealthOptions          []string
	MissingArgsMessage      string
}

// Metadata returns the command's metadata with defaults applied.
func (c *Command) Metadata() Metadata {
	md := Metadata{
		Help:                    c.Help,
		Version:                 c.Version,
		OutputTransaction:       c.OutputTransaction,
		SuppressedBaseArguments: c.SuppressedBaseArguments,
		StealthOptions:          c.StealthOptions,
		MissingArgsMessage:      c.MissingArgsMessage,
	}
	if md.Version == "" {
		md.Version = DefaultVersion
	}
	return md
}

// Factory creates a fresh command instance. It is the unit stored in a [Registry].
type Factory func() *Command

// Commander is implemented by everything [Call] accepts: a [*Command] instance, a [Factory], or a
// [*LabelCommand].
type Commander interface {
	command() *Command
}

func (c *Command) command() *Command { return c }

func (f Factory) command() *Command {
	if f == nil {
		return nil
	}
	return f()
}

// Names of the built-in options present on every command.
const (
	OptionVersion    = "version"
	OptionVerbosity  = "verbosity"
	OptionTraceback  = "traceback"
	OptionNoColor    = "no-color"
	OptionForceColor = "force-color"
)

// buildArgSet merges the built-in arguments with the arguments declared by c.
func buildArgSet(c *Command) (*ArgSet, error) {
	md := c.Metadata()
	a := newArgSet(md)
	a.addingBase = true
	a.Add(ArgSpec{Name: OptionVersion, Type: TypeBool, Help: "Show program's version number and exit."})
	a.Add(ArgSpec{
		Name:    OptionVerbosity,
		Short:   "v",
		Type:    TypeInt,
		Default: 1,
		Choices: []string{"0", "1", "2", "3"},
		Help:    "Verbosity level; 0=minimal, 1=normal, 2=verbose, 3=very verbose.",
	})
	a.Add(ArgSpec{Name: OptionTraceback, Type: TypeBool, Help: "Print the full trace on CommandError instead of a terse message."})
	a.Add(ArgSpec{Name: OptionNoColor, Type: TypeBool, Help: "Don't colorize the command output."})
	a.Add(ArgSpec{Name: OptionForceColor, Type: TypeBool, Help: "Force colorization of the command output."})
	a.addingBase = false

	if c.Args != nil {
		c.Args(a)
	}
	if a.err != nil {
		return nil, a.err
	}
	return a, nil
}

func validateName(name string) error {
	if name == "" {
		return errors.New("command has no name")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("command name %q contains spaces, must be a single word", name)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("command name %q must not start with '-'", name)
	}
	return nil
}
