package basecmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfridman/basecmd/pkg/output"
)

func echoFactory(prefix string) Factory {
	return func() *Command {
		return &Command{
			Help: "Echo with " + prefix + ".",
			Args: func(a *ArgSet) {
				a.Add(ArgSpec{Name: "words", Positional: true, Nargs: NargsZeroOrMore})
			},
			Exec: func(ctx context.Context, s *State) (string, error) {
				out := prefix
				for _, w := range GetOption[[]string](s, "words") {
					out += " " + w
				}
				return out, nil
			},
		}
	}
}

func dispatchArgs(t *testing.T, run func(context.Context, []string, *RunOptions) int, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &RunOptions{
		Stdout: &stdout,
		Stderr: &stderr,
		Prog:   "manage",
		Output: &output.Config{Kind: output.KindStream},
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("add and get", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		require.NoError(t, r.Add("export", echoFactory("export")))
		require.NoError(t, r.Add("import", echoFactory("import")))
		assert.Equal(t, []string{"export", "import"}, r.List())
		assert.Equal(t, 2, r.Len())
		f, ok := r.Get("export")
		require.True(t, ok)
		assert.Equal(t, "Echo with export.", f().Help)
		_, ok = r.Get("missing")
		assert.False(t, ok)
	})
	t.Run("duplicate fails at registration", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		require.NoError(t, r.Add("export", echoFactory("a")))
		err := r.Add("export", echoFactory("b"))
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.EqualError(t, err, `registry: command "export" already registered`)
		// The first registration is kept.
		f, _ := r.Get("export")
		assert.Equal(t, "Echo with a.", f().Help)
	})
	t.Run("register panics on duplicate", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			NewRegistry().
				Register("export", echoFactory("a")).
				Register("export", echoFactory("b"))
		})
	})
	t.Run("invalid registrations", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		assert.EqualError(t, r.Add("", echoFactory("a")), "registry: command has no name")
		assert.EqualError(t, r.Add("two words", echoFactory("a")),
			`registry: command name "two words" contains spaces, must be a single word`)
		assert.EqualError(t, r.Add("-x", echoFactory("a")), `registry: command name "-x" must not start with '-'`)
		assert.EqualError(t, r.Add("nil", nil), `registry: command "nil" has a nil factory`)
		assert.Zero(t, r.Len())
	})
	t.Run("zero value", func(t *testing.T) {
		t.Parallel()
		var r Registry
		require.NoError(t, r.Add("export", echoFactory("a")))
		assert.Equal(t, []string{"export"}, r.List())
	})
	t.Run("merge", func(t *testing.T) {
		t.Parallel()
		a := NewRegistry().Register("export", echoFactory("a"))
		b := NewRegistry().Register("import", echoFactory("b"))
		require.NoError(t, a.Merge(b))
		require.NoError(t, a.Merge(nil))
		assert.Equal(t, []string{"export", "import"}, a.List())
		err := a.Merge(NewRegistry().Register("import", echoFactory("c")))
		assert.EqualError(t, err, `registry: command "import" already registered`)
	})
}

func TestRegistryRun(t *testing.T) {
	t.Parallel()

	r := NewRegistry().
		Register("export", echoFactory("export")).
		Register("import", echoFactory("import")).
		Register("bare", func() *Command {
			return &Command{Exec: func(ctx context.Context, s *State) (string, error) { return "", nil }}
		})

	t.Run("dispatch", func(t *testing.T) {
		t.Parallel()
		res := dispatchArgs(t, r.Run, "export", "a", "b")
		assert.Equal(t, ExitSuccess, res.code)
		assert.Equal(t, "export a b\n", res.stdout)
		res = dispatchArgs(t, r.Run, "import")
		assert.Equal(t, ExitSuccess, res.code)
		assert.Equal(t, "import\n", res.stdout)
	})
	t.Run("remaining arguments belong to the command", func(t *testing.T) {
		t.Parallel()
		res := dispatchArgs(t, r.Run, "export", "--version")
		assert.Equal(t, ExitSuccess, res.code)
		assert.Equal(t, DefaultVersion+"\n", res.stdout)

		res = dispatchArgs(t, r.Run, "export", "--help")
		assert.Equal(t, ExitSuccess, res.code)
		assert.Contains(t, res.stdout, "Usage:\n  manage export [flags] [words ...]\n")
	})
	t.Run("help", func(t *testing.T) {
		t.Parallel()
		for _, args := range [][]string{nil, {"-h"}, {"--help"}} {
			res := dispatchArgs(t, r.Run, args...)
			assert.Equal(t, ExitSuccess, res.code)
			assert.Equal(t, "Usage: manage <command> [options]\n"+
				"\n"+
				"Available commands:\n"+
				"  bare      (no description)\n"+
				"  export    Echo with export.\n"+
				"  import    Echo with import.\n"+
				"\n"+
				"Run 'manage <command> --help' for command-specific help.\n", res.stdout)
		}
	})
	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()
		res := dispatchArgs(t, r.Run, "exprot")
		assert.Equal(t, ExitUsage, res.code)
		assert.Empty(t, res.stdout)
		assert.Equal(t, "manage: error: Unknown command: 'exprot'. Available commands: bare, export, import. "+
			"Type 'manage --help' for usage.\n"+
			"Did you mean one of these?\n\texport\n", res.stderr)
	})
	t.Run("empty registry", func(t *testing.T) {
		t.Parallel()
		res := dispatchArgs(t, NewRegistry().Run, "greet")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "Available commands: (none registered).")

		res = dispatchArgs(t, NewRegistry().Run)
		assert.Equal(t, ExitSuccess, res.code)
		assert.Contains(t, res.stdout, "Available commands:\n  (none registered)\n")
	})
}
