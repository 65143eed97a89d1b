// Package output provides the sinks commands write user-facing text through. A [Sink] has one
// method per severity plus [Sink.Styled] for role based styling. Two implementations exist: a
// structured leveled [Logger] backed by logrus, and a [Stream] that writes styled text to
// stdout/stderr. [New] selects one from a [Config].
package output

import (
	"fmt"
	"io"
)

// Sink is the capability a command uses to emit user-facing text.
type Sink interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Styled writes at info severity using the style registered for role. Sinks without styling
	// support record the role instead.
	Styled(role Role, format string, args ...any)
}

// New creates the sink described by cfg. Stdout and stderr must not be nil. The returned sink may
// hold an open log file; callers should close it if it implements [io.Closer].
func New(cfg Config, stdout, stderr io.Writer) (Sink, error) {
	if cfg.NoColor && cfg.ForceColor {
		return nil, fmt.Errorf("output: no_color and force_color are mutually exclusive")
	}
	switch cfg.Kind {
	case "", KindLogger:
		return NewLogger(cfg, stdout, stderr)
	case KindStream:
		return NewStream(cfg, stdout, stderr), nil
	default:
		return nil, fmt.Errorf("output: unknown sink kind %q: must be %q or %q", cfg.Kind, KindLogger, KindStream)
	}
}

// Filter wraps s so that messages below the detail requested by verbosity are dropped:
//
//	0  warnings and errors
//	1  + info, success and styled (default)
//	2+ + debug
func Filter(s Sink, verbosity int) Sink {
	return &filtered{sink: s, verbosity: verbosity}
}

type filtered struct {
	sink      Sink
	verbosity int
}

func (f *filtered) Debugf(format string, args ...any) {
	if f.verbosity >= 2 {
		f.sink.Debugf(format, args...)
	}
}

func (f *filtered) Infof(format string, args ...any) {
	if f.verbosity >= 1 {
		f.sink.Infof(format, args...)
	}
}

func (f *filtered) Successf(format string, args ...any) {
	if f.verbosity >= 1 {
		f.sink.Successf(format, args...)
	}
}

func (f *filtered) Styled(role Role, format string, args ...any) {
	if f.verbosity >= 1 {
		f.sink.Styled(role, format, args...)
	}
}

func (f *filtered) Warnf(format string, args ...any)  { f.sink.Warnf(format, args...) }
func (f *filtered) Errorf(format string, args ...any) { f.sink.Errorf(format, args...) }

// Discard returns a sink that drops everything.
func Discard() Sink { return discard{} }

type discard struct{}

func (discard) Debugf(string, ...any)       {}
func (discard) Infof(string, ...any)        {}
func (discard) Successf(string, ...any)     {}
func (discard) Warnf(string, ...any)        {}
func (discard) Errorf(string, ...any)       {}
func (discard) Styled(Role, string, ...any) {}
