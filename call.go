package basecmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Call invokes a command programmatically, without parsing command-line arguments. It accepts a
// [*Command], a [Factory] or a [*LabelCommand].
//
// The options are merged over the defaults declared by the command and the built-in options
// (verbosity 1, every built-in flag false). Keys must be declared argument names or stealth
// options; values are not validated. Positional arguments are supplied by name, for example
// "args" for the labels of a [LabelCommand].
//
// Call never reports or swallows errors: a [*CommandError] and any other error are returned
// unmodified. The result is the command's output after transaction wrapping.
//
// The runOptions parameter may be nil, in which case default values are used.
func Call(ctx context.Context, c Commander, options map[string]any, runOptions *RunOptions) (string, error) {
	if c == nil {
		return "", errors.New("call: command is nil")
	}
	cmd := c.command()
	if cmd == nil {
		return "", errors.New("call: command is nil")
	}
	runOptions = checkAndSetRunOptions(runOptions)

	set, err := buildArgSet(cmd)
	if err != nil {
		return "", err
	}
	opts := set.defaults()
	var unknown []string
	for name, v := range options {
		if set.lookup(name) == nil && !slices.Contains(cmd.StealthOptions, name) {
			unknown = append(unknown, name)
			continue
		}
		opts[name] = v
	}
	if len(unknown) > 0 {
		valid := make([]string, 0, len(opts)+len(cmd.StealthOptions))
		for name := range set.defaults() {
			valid = append(valid, name)
		}
		valid = append(valid, cmd.StealthOptions...)
		slices.Sort(unknown)
		slices.Sort(valid)
		return "", fmt.Errorf("call: unknown option(s): %s; valid options are: %s",
			strings.Join(unknown, ", "), strings.Join(slices.Compact(valid), ", "))
	}

	s, done, err := newState(cmd, opts, runOptions)
	if err != nil {
		return "", err
	}
	defer done()
	return execute(ctx, cmd, s)
}
