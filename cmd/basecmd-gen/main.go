// Command basecmd-gen generates the command catalog for a directory of basecmd commands. Run it
// from a go:generate directive in the commands package:
//
//	//go:generate go run github.com/mfridman/basecmd/cmd/basecmd-gen
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfridman/basecmd"
	"github.com/mfridman/basecmd/internal/discover"
	"github.com/mfridman/basecmd/pkg/output"
)

var version = "devel"

func main() {
	ctx := context.Background()
	cfg, err := output.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "basecmd-gen: %v\n", err)
		os.Exit(basecmd.ExitFailure)
	}
	if cfg.Kind == "" {
		cfg.Kind = output.KindStream
	}
	os.Exit(basecmd.RunFromArgs(ctx, newGenerateCommand(), os.Args[1:], &basecmd.RunOptions{
		Prog:   "basecmd-gen",
		Output: &cfg,
	}))
}

func newGenerateCommand() *basecmd.Command {
	return &basecmd.Command{
		Help:    "Generate the command catalog for a directory of basecmd commands.",
		Version: version,
		Args: func(a *basecmd.ArgSet) {
			a.String("dir", ".", "Commands directory to scan.")
			a.String("out", "zz_catalog.go", "Output file, relative to -dir.")
			a.String("import", discover.DefaultImportPath, "Import path of the basecmd package.")
			a.Bool("check", "Fail if the output file is out of date instead of writing it.")
		},
		Exec: generate,
	}
}

func generate(ctx context.Context, s *basecmd.State) (string, error) {
	dir := basecmd.GetOption[string](s, "dir")
	out := basecmd.GetOption[string](s, "out")
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}

	res, err := discover.Scan(dir, basecmd.GetOption[string](s, "import"))
	if err != nil {
		return "", basecmd.Wrap(err, "Cannot scan "+dir)
	}
	for _, skip := range res.Skipped {
		s.Out.Debugf("skipping %s: %s", skip.File, skip.Reason)
	}
	if len(res.Modules) == 0 {
		s.Out.Warnf("no commands found in %s", dir)
	}
	for _, m := range res.Modules {
		if m.Command != "" {
			s.Out.Debugf("%s: command %s", m.File, m.Command)
		}
		for _, r := range m.Registries {
			s.Out.Debugf("%s: registry %s", m.File, r)
		}
	}

	var buf bytes.Buffer
	if err := discover.Generate(&buf, res, basecmd.GetOption[string](s, "import")); err != nil {
		return "", basecmd.Wrap(err, "Cannot generate catalog")
	}

	if basecmd.GetOption[bool](s, "check") {
		current, err := os.ReadFile(out)
		if err != nil || !bytes.Equal(current, buf.Bytes()) {
			return "", basecmd.Errorf("%s is out of date, run basecmd-gen", out)
		}
		s.Out.Successf("%s is up to date", out)
		return "", nil
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", basecmd.Wrap(err, "Cannot write catalog")
	}
	s.Out.Successf("wrote %s (%d files with commands)", out, len(res.Modules))
	return "", nil
}
