package basecmd

import (
	"fmt"
	"io"

	"github.com/mfridman/basecmd/pkg/output"
)

// Options maps option names to parsed values. It is produced once per invocation.
type Options map[string]any

// State is what a command's Exec receives for one invocation.
type State struct {
	// Options holds the parsed (or, with [Call], supplied) option values. Use [GetOption] to read
	// them.
	Options Options

	// Out is the command's output sink, already filtered by verbosity.
	Out output.Sink

	// Standard I/O streams.
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Verbosity returns the verbosity option, 1 if it is missing.
func (s *State) Verbosity() int {
	if v, ok := LookupOption[int](s, OptionVerbosity); ok {
		return v
	}
	return 1
}

// GetOption retrieves an option value by name, with type inference. Example usage:
//
//	shout := GetOption[bool](s, "shout")
//	name := GetOption[string](s, "name")
//	labels := GetOption[[]string](s, "args")
//
// It panics if the option is missing or has a different type. Both are programming errors in the
// command: a misspelled name or a type that does not match the declaration.
func GetOption[T any](s *State, name string) T {
	v, ok := LookupOption[T](s, name)
	if !ok {
		panic(fmt.Sprintf("internal error: option not found: %q", name))
	}
	return v
}

// LookupOption is like [GetOption] but reports whether the option is present instead of panicking.
// Use it for stealth options that callers may omit. A type mismatch still panics.
func LookupOption[T any](s *State, name string) (T, bool) {
	raw, ok := s.Options[name]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Sprintf("internal error: type mismatch for option %q: stored %T, requested %T", name, raw, *new(T)))
	}
	return v, true
}
