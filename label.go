package basecmd

import (
	"context"
	"fmt"
	"strings"
)

// LabelsOption is the name of the positional argument that holds a [LabelCommand]'s labels. Pass
// it to [Call] as a []string.
const LabelsOption = "args"

// LabelFunc handles one label. A non-empty result becomes one line of the command's output.
type LabelFunc func(ctx context.Context, s *State, label string) (string, error)

// LabelCommand is a command that takes one or more arbitrary labels on the command line and runs
// HandleLabel for each of them, in order. The first error stops the iteration and is returned
// as-is; labels after it are not handled.
//
// The embedded Command carries help text, additional arguments and output settings. Its Exec is
// ignored.
type LabelCommand struct {
	Command

	// Label names one positional value in help text and in the missing-arguments message.
	// Defaults to "label".
	Label string

	// HandleLabel is required. Running a LabelCommand without it returns a [*NoExecError].
	HandleLabel LabelFunc
}

// Build returns a [*Command] that handles each label with HandleLabel. The method value
// lc.Build is a [Factory], so a LabelCommand can be added to a [Registry] directly.
func (lc *LabelCommand) Build() *Command {
	c := lc.Command
	label := lc.Label
	if label == "" {
		label = "label"
	}
	if c.MissingArgsMessage == "" {
		c.MissingArgsMessage = fmt.Sprintf("Enter at least one %s.", label)
	}
	userArgs := lc.Command.Args
	c.Args = func(a *ArgSet) {
		a.Add(ArgSpec{
			Name:       LabelsOption,
			Positional: true,
			Nargs:      NargsOneOrMore,
			Metavar:    label,
			Help:       fmt.Sprintf("One or more %ss.", label),
		})
		if userArgs != nil {
			userArgs(a)
		}
	}
	c.Exec = nil
	if handle := lc.HandleLabel; handle != nil {
		c.Exec = func(ctx context.Context, s *State) (string, error) {
			var output []string
			for _, l := range GetOption[[]string](s, LabelsOption) {
				out, err := handle(ctx, s, l)
				if err != nil {
					return "", err
				}
				if out != "" {
					output = append(output, out)
				}
			}
			return strings.Join(output, "\n"), nil
		}
	}
	return &c
}

func (lc *LabelCommand) command() *Command {
	if lc == nil {
		return nil
	}
	return lc.Build()
}
