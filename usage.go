package basecmd

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/mfridman/basecmd/pkg/textutil"
)

const defaultHelpWidth = 80

// formatHelp renders the help text of one command. The command's own flags are listed before the
// built-in ones.
func formatHelp(prog string, md Metadata, a *ArgSet, width int) string {
	var b strings.Builder

	if md.Help != "" {
		for _, line := range textutil.Wrap(md.Help, width) {
			b.WriteString(line)
			b.WriteRune('\n')
		}
		b.WriteRune('\n')
	}

	b.WriteString("Usage:\n  ")
	b.WriteString(formatUsage(prog, a))
	b.WriteString("\n\n")

	var positionals, local, global []textutil.Row
	for _, arg := range a.positionals {
		if !arg.Hidden {
			positionals = append(positionals, textutil.Row{Name: arg.displayName(), Desc: describe(arg)})
		}
	}
	for _, arg := range a.flags {
		if arg.Hidden {
			continue
		}
		row := textutil.Row{Name: flagDisplayName(arg), Desc: describe(arg)}
		if arg.base {
			global = append(global, row)
		} else {
			local = append(local, row)
		}
	}
	for _, section := range []struct {
		title string
		rows  []textutil.Row
	}{
		{"Arguments", positionals},
		{"Flags", local},
		{"Global Flags", global},
	} {
		if len(section.rows) == 0 {
			continue
		}
		b.WriteString(section.title + ":\n")
		b.WriteString(textutil.Columns(section.rows, width))
		b.WriteRune('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatUsage renders the synopsis, e.g. "prog greet [flags] name [label ...]".
func formatUsage(prog string, a *ArgSet) string {
	usage := prog + " [flags]"
	if a == nil {
		return usage
	}
	for _, arg := range a.positionals {
		name := arg.displayName()
		switch arg.Nargs {
		case NargsOptional:
			usage += " [" + name + "]"
		case NargsZeroOrMore:
			usage += " [" + name + " ...]"
		case NargsOneOrMore:
			usage += " " + name + " [" + name + " ...]"
		default:
			usage += " " + name
		}
	}
	return usage
}

func flagDisplayName(arg *argument) string {
	name := "--" + arg.Name
	if len(arg.Name) == 1 {
		name = "-" + arg.Name
	}
	if arg.Short != "" {
		name = "-" + arg.Short + ", " + name
	}
	if arg.Type == TypeBool {
		return name
	}
	hint := arg.Type.String()
	switch {
	case len(arg.Choices) > 0:
		hint = "{" + strings.Join(arg.Choices, ",") + "}"
	case arg.Metavar != "":
		hint = arg.Metavar
	}
	return name + " " + hint
}

func describe(arg *argument) string {
	desc := arg.Help
	if arg.Nargs.repeated() {
		return desc
	}
	if def := arg.value.String(); def != fmt.Sprint(zeroValue(arg.Type)) {
		desc += fmt.Sprintf(" (default: %s)", def)
	}
	return strings.TrimSpace(desc)
}

// helpWidth is the terminal width of w, clamped to a readable range, or 80 when w is not a
// terminal.
func helpWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return defaultHelpWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultHelpWidth
	}
	return min(max(width, 40), 100)
}
