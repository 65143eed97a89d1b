package basecmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/mfridman/basecmd/pkg/suggest"
	"github.com/mfridman/basecmd/pkg/textutil"
)

// Registry maps command names to factories. Populate it before calling Run; it is not safe for
// concurrent registration.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Add binds f to name. It returns a [*ConfigError] if the name is invalid, f is nil, or the name
// is already registered.
func (r *Registry) Add(name string, f Factory) error {
	if err := validateName(name); err != nil {
		return configErrorf("registry: %v", err)
	}
	if f == nil {
		return configErrorf("registry: command %q has a nil factory", name)
	}
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	if _, ok := r.factories[name]; ok {
		return configErrorf("registry: command %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Register is like [Registry.Add] but panics on error and returns r, so registrations can be
// chained in a package-level var:
//
//	var Commands = basecmd.NewRegistry().
//		Register("export", newExport).
//		Register("import", newImport)
func (r *Registry) Register(name string, f Factory) *Registry {
	if err := r.Add(name, f); err != nil {
		panic(err)
	}
	return r
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.factories)
}

// Merge adds every command of other to r. It stops at the first name collision.
func (r *Registry) Merge(other *Registry) error {
	if other == nil {
		return nil
	}
	for _, name := range other.List() {
		if err := r.Add(name, other.factories[name]); err != nil {
			return err
		}
	}
	return nil
}

// Run dispatches args to a registered command and returns the process exit code. The first
// argument selects the command; the rest are passed to it unchanged. With no arguments, or with
// -h/--help, it prints the available commands and returns [ExitSuccess]. An unknown name prints a
// usage error and returns [ExitUsage].
//
// The options parameter may be nil, in which case default values are used.
func (r *Registry) Run(ctx context.Context, args []string, options *RunOptions) int {
	return dispatch(ctx, r, args, checkAndSetRunOptions(options))
}

func dispatch(ctx context.Context, r *Registry, args []string, options *RunOptions) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "-help" {
		fmt.Fprint(options.Stdout, formatRegistryHelp(options.Prog, r, helpWidth(options.Stdout)))
		return ExitSuccess
	}
	name := args[0]
	f, ok := r.Get(name)
	if !ok {
		writeUnknownCommand(options.Stderr, options.Prog, name, r.List())
		return ExitUsage
	}
	sub := *options
	sub.Prog = options.Prog + " " + name
	return RunFromArgs(ctx, f(), args[1:], &sub)
}

func formatRegistryHelp(prog string, r *Registry, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s <command> [options]\n\n", prog)
	b.WriteString("Available commands:\n")
	names := r.List()
	if len(names) == 0 {
		b.WriteString("  (none registered)\n")
	}
	rows := make([]textutil.Row, 0, len(names))
	for _, name := range names {
		help := "(no description)"
		if cmd := r.factories[name](); cmd != nil && cmd.Help != "" {
			help = cmd.Help
		}
		rows = append(rows, textutil.Row{Name: name, Desc: help})
	}
	b.WriteString(textutil.Columns(rows, width))
	fmt.Fprintf(&b, "\nRun '%s <command> --help' for command-specific help.\n", prog)
	return b.String()
}

func writeUnknownCommand(w io.Writer, prog, name string, known []string) {
	available := "(none registered)"
	if len(known) > 0 {
		available = strings.Join(known, ", ")
	}
	err := newUsageError(ErrUnknownCommand, "Unknown command: '%s'. Available commands: %s. Type '%s --help' for usage.",
		name, available, prog)
	fmt.Fprintf(w, "%s: error: %v\n", prog, err)
	if suggestions := suggest.FindSimilar(name, known, 3); len(suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean one of these?\n\t%s\n", strings.Join(suggestions, "\n\t"))
	}
}
