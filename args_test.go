package basecmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseArgs(t *testing.T, c *Command, args ...string) (Options, error) {
	t.Helper()
	set, err := buildArgSet(c)
	require.NoError(t, err)
	return set.parse(args)
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	greet := &Command{
		Args: func(a *ArgSet) {
			a.Positional("name", "Who to greet.")
			a.Bool("shout", "Uppercase the greeting.")
			a.Add(ArgSpec{Name: "times", Short: "n", Type: TypeInt, Default: 1, Help: "Repeat count."})
		},
	}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		opts, err := parseArgs(t, greet, "alice")
		require.NoError(t, err)
		assert.Equal(t, Options{
			"name":           "alice",
			"shout":          false,
			"times":          1,
			OptionVersion:    false,
			OptionVerbosity:  1,
			OptionTraceback:  false,
			OptionNoColor:    false,
			OptionForceColor: false,
		}, opts)
	})
	t.Run("flags anywhere", func(t *testing.T) {
		t.Parallel()
		opts, err := parseArgs(t, greet, "alice", "--shout", "-n", "3", "-v", "2")
		require.NoError(t, err)
		assert.Equal(t, "alice", opts["name"])
		assert.Equal(t, true, opts["shout"])
		assert.Equal(t, 3, opts["times"])
		assert.Equal(t, 2, opts[OptionVerbosity])
	})
	t.Run("double dash ends flags", func(t *testing.T) {
		t.Parallel()
		opts, err := parseArgs(t, greet, "--", "--shout")
		require.NoError(t, err)
		assert.Equal(t, "--shout", opts["name"])
		assert.Equal(t, false, opts["shout"])
	})
	t.Run("help after double dash is a value", func(t *testing.T) {
		t.Parallel()
		opts, err := parseArgs(t, greet, "--", "--help")
		require.NoError(t, err)
		assert.Equal(t, "--help", opts["name"])
	})
	t.Run("help and version", func(t *testing.T) {
		t.Parallel()
		for _, arg := range []string{"-h", "--help", "-help"} {
			_, err := parseArgs(t, greet, arg)
			assert.ErrorIs(t, err, errHelp, arg)
		}
		_, err := parseArgs(t, greet, "--version")
		assert.ErrorIs(t, err, errVersion)
		// Missing arguments do not hide a version request.
		_, err = parseArgs(t, greet, "--version=true")
		assert.ErrorIs(t, err, errVersion)
	})
	t.Run("flag value is not a request", func(t *testing.T) {
		t.Parallel()
		for _, arg := range []string{"--version", "-h"} {
			_, err := parseArgs(t, greet, "alice", "-n", arg)
			var usageErr *UsageError
			require.ErrorAs(t, err, &usageErr, arg)
			assert.Equal(t, ErrInvalidArgument, usageErr.Code)
			assert.EqualError(t, err, "argument -n: expected one argument")
		}
		// A bool flag takes no value, so the request still counts.
		_, err := parseArgs(t, greet, "--shout", "--version")
		assert.ErrorIs(t, err, errVersion)
		opts, err := parseArgs(t, greet, "alice", "-n", "-3")
		require.NoError(t, err)
		assert.Equal(t, -3, opts["times"])
	})
	t.Run("missing positional", func(t *testing.T) {
		t.Parallel()
		_, err := parseArgs(t, greet)
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.Equal(t, ErrMissingArguments, usageErr.Code)
		assert.EqualError(t, err, "the following arguments are required: name")
	})
	t.Run("unrecognized arguments", func(t *testing.T) {
		t.Parallel()
		_, err := parseArgs(t, greet, "alice", "bob", "carol")
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.Equal(t, ErrUnrecognizedArguments, usageErr.Code)
		assert.EqualError(t, err, "unrecognized arguments: bob carol")
	})
	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		_, err := parseArgs(t, greet, "alice", "--loud")
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.Equal(t, ErrInvalidArgument, usageErr.Code)
		assert.ErrorContains(t, err, "loud")
	})
	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		_, err := parseArgs(t, greet, "alice", "--times", "many")
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.ErrorContains(t, err, `invalid int value: "many"`)
	})
	t.Run("invalid choice", func(t *testing.T) {
		t.Parallel()
		_, err := parseArgs(t, greet, "alice", "-v", "7")
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.ErrorContains(t, err, `invalid choice: "7" (choose from 0, 1, 2, 3)`)
	})
	t.Run("custom missing message", func(t *testing.T) {
		t.Parallel()
		c := &Command{
			MissingArgsMessage: "Give me a name.",
			Args:               func(a *ArgSet) { a.Positional("name", "") },
		}
		_, err := parseArgs(t, c)
		assert.EqualError(t, err, "Give me a name.")
	})
}

func TestParseNargs(t *testing.T) {
	t.Parallel()

	c := &Command{
		Args: func(a *ArgSet) {
			a.Add(ArgSpec{Name: "src", Positional: true})
			a.Add(ArgSpec{Name: "files", Positional: true, Nargs: NargsZeroOrMore})
			a.Add(ArgSpec{Name: "dst", Positional: true})
			a.Add(ArgSpec{Name: "mode", Positional: true, Nargs: NargsOptional, Default: "copy"})
		},
	}
	tests := []struct {
		name  string
		args  []string
		files []string
		dst   string
		mode  string
	}{
		{name: "minimum", args: []string{"a", "b"}, files: []string{}, dst: "b", mode: "copy"},
		{name: "star before optional is greedy", args: []string{"a", "b", "c"}, files: []string{"b"}, dst: "c", mode: "copy"},
		{name: "greedy middle", args: []string{"a", "b", "c", "d"}, files: []string{"b", "c"}, dst: "d", mode: "copy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts, err := parseArgs(t, c, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, "a", opts["src"])
			assert.Equal(t, tt.files, opts["files"])
			assert.Equal(t, tt.dst, opts["dst"])
			assert.Equal(t, tt.mode, opts["mode"])
		})
	}

	t.Run("one or more", func(t *testing.T) {
		t.Parallel()
		c := &Command{
			Args: func(a *ArgSet) {
				a.Add(ArgSpec{Name: "ids", Positional: true, Nargs: NargsOneOrMore, Type: TypeInt})
			},
		}
		opts, err := parseArgs(t, c, "1", "2", "3")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, opts["ids"])

		_, err = parseArgs(t, c)
		assert.EqualError(t, err, "the following arguments are required: ids")

		_, err = parseArgs(t, c, "1", "two")
		assert.EqualError(t, err, `argument ids: invalid int value: "two"`)
	})
}

func TestArgSetConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args func(*ArgSet)
		want string
	}{
		{
			name: "no name",
			args: func(a *ArgSet) { a.Bool("", "") },
			want: "argument has no name",
		},
		{
			name: "space in name",
			args: func(a *ArgSet) { a.Bool("dry run", "") },
			want: `argument name "dry run" must not contain spaces or '='`,
		},
		{
			name: "duplicate",
			args: func(a *ArgSet) {
				a.Bool("force", "")
				a.Bool("force", "")
			},
			want: `argument "force" conflicts with an existing argument`,
		},
		{
			name: "collides with built-in",
			args: func(a *ArgSet) { a.Int("verbosity", 0, "") },
			want: `argument "verbosity" conflicts with an existing argument`,
		},
		{
			name: "short collides with built-in",
			args: func(a *ArgSet) { a.Add(ArgSpec{Name: "verbose", Short: "v", Type: TypeBool}) },
			want: `argument "v" conflicts with an existing argument`,
		},
		{
			name: "help is reserved",
			args: func(a *ArgSet) { a.Bool("help", "") },
			want: `argument "help" conflicts with an existing argument`,
		},
		{
			name: "positional with short",
			args: func(a *ArgSet) { a.Add(ArgSpec{Name: "name", Short: "n", Positional: true}) },
			want: `positional argument "name" cannot have a short name`,
		},
		{
			name: "bool positional",
			args: func(a *ArgSet) { a.Add(ArgSpec{Name: "ok", Positional: true, Type: TypeBool}) },
			want: `positional argument "ok" cannot be a bool`,
		},
		{
			name: "flag with nargs",
			args: func(a *ArgSet) { a.Add(ArgSpec{Name: "tag", Nargs: NargsZeroOrMore}) },
			want: `flag "tag" cannot set nargs`,
		},
		{
			name: "default type mismatch",
			args: func(a *ArgSet) { a.Add(ArgSpec{Name: "count", Type: TypeInt, Default: "3"}) },
			want: `argument "count": default string does not match type int`,
		},
		{
			name: "default not a choice",
			args: func(a *ArgSet) {
				a.Add(ArgSpec{Name: "format", Default: "xml", Choices: []string{"json", "text"}})
			},
			want: `argument "format": default xml is not one of the choices`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := buildArgSet(&Command{Args: tt.args})
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestSuppressedBaseArguments(t *testing.T) {
	t.Parallel()

	set, err := buildArgSet(&Command{SuppressedBaseArguments: []string{"--traceback", "-v"}})
	require.NoError(t, err)
	assert.True(t, set.lookup(OptionTraceback).Hidden)
	assert.True(t, set.lookup(OptionVerbosity).Hidden)
	assert.False(t, set.lookup(OptionNoColor).Hidden)

	// Hidden arguments are still accepted.
	opts, err := set.parse([]string{"--traceback", "-v", "0"})
	require.NoError(t, err)
	assert.Equal(t, true, opts[OptionTraceback])
	assert.Equal(t, 0, opts[OptionVerbosity])
}
