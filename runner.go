package basecmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/mfridman/basecmd/pkg/output"
)

// Module is what one file of a commands directory contributes: a single command registered under
// the file's stem, one or more registries, or both.
type Module struct {
	Command    Factory
	Registries []*Registry
}

// Catalog maps file names in a commands directory (e.g. "greet.go") to the commands they define.
// It is normally generated by basecmd-gen next to an embedded copy of the directory.
type Catalog map[string]Module

// Runner discovers commands from a directory and dispatches to them. Only files that are present
// in the directory and listed in the catalog take part, so removing a file disables its commands.
//
// Files are skipped when their name starts with "_" or ".", when they are not Go source files, or
// when they are test files.
type Runner struct {
	fsys    fs.FS
	catalog Catalog

	// Sink receives debug messages about skipped files. Run falls back to [RunOptions.Sink].
	Sink output.Sink
}

// NewRunner returns a runner that scans the root of fsys, typically an [embed.FS] of the commands
// directory.
func NewRunner(fsys fs.FS, catalog Catalog) *Runner {
	return &Runner{fsys: fsys, catalog: catalog}
}

// NewDirRunner returns a runner that scans dir on the local filesystem.
func NewDirRunner(dir string, catalog Catalog) *Runner {
	return NewRunner(os.DirFS(dir), catalog)
}

type discoveredModule struct {
	path       string
	command    Factory
	registries []*Registry
}

// Discover scans the directory and builds the dispatch table. A command name claimed by two
// sources is a [*ConfigError].
func (r *Runner) Discover() (*Registry, error) {
	if r.fsys == nil {
		return nil, configErrorf("runner: no filesystem")
	}
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("runner: read commands directory: %w", err)
	}
	var modules []discoveredModule
	for _, entry := range entries {
		name := entry.Name()
		if reason := skipReason(entry); reason != "" {
			r.debugf("skipping %s: %s", name, reason)
			continue
		}
		m, ok := r.catalog[name]
		if !ok {
			r.debugf("skipping %s: no commands", name)
			continue
		}
		modules = append(modules, discoveredModule{
			path:       name,
			command:    m.Command,
			registries: m.Registries,
		})
	}

	table := NewRegistry()
	claimed := make(map[string]string)
	claim := func(name, source string, f Factory) error {
		if prev, ok := claimed[name]; ok {
			return configErrorf("runner: command %q is defined by both %s and %s", name, prev, source)
		}
		claimed[name] = source
		return table.Add(name, f)
	}
	for _, m := range modules {
		if m.command != nil {
			if err := claim(strings.TrimSuffix(m.path, path.Ext(m.path)), m.path, m.command); err != nil {
				return nil, err
			}
		}
		for i, reg := range m.registries {
			if reg == nil {
				continue
			}
			source := m.path
			if len(m.registries) > 1 {
				source = fmt.Sprintf("%s (registry %d)", m.path, i+1)
			}
			for _, name := range reg.List() {
				if err := claim(name, source, reg.factories[name]); err != nil {
					return nil, err
				}
			}
		}
	}
	return table, nil
}

// Run discovers the commands and behaves like [Registry.Run]. The directory is scanned on every
// call. A discovery failure is printed to stderr and returns [ExitFailure].
func (r *Runner) Run(ctx context.Context, args []string, options *RunOptions) int {
	options = checkAndSetRunOptions(options)
	scan := *r
	if scan.Sink == nil {
		scan.Sink = options.Sink
	}
	table, err := scan.Discover()
	if err != nil {
		return reportDefect(options.Stderr, err, withStack(err))
	}
	return dispatch(ctx, table, args, options)
}

func skipReason(entry fs.DirEntry) string {
	name := entry.Name()
	switch {
	case entry.IsDir():
		return "directory"
	case strings.HasPrefix(name, "_"), strings.HasPrefix(name, "."):
		return "private"
	case path.Ext(name) != ".go":
		return "not a Go source file"
	case strings.HasSuffix(name, "_test.go"):
		return "test file"
	}
	return ""
}

func (r *Runner) debugf(format string, args ...any) {
	if r.Sink != nil {
		r.Sink.Debugf(format, args...)
	}
}
