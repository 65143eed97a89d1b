package output

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

// Logger is a [Sink] that writes structured, leveled entries through logrus.
type Logger struct {
	entry *log.Entry
	file  *os.File
}

var _ Sink = (*Logger)(nil)

// NewLogger creates a logrus backed sink. Warnings and errors go to stderr, everything else to
// stdout. Every entry is also appended to cfg.LogFile when set.
func NewLogger(cfg Config, stdout, stderr io.Writer) (*Logger, error) {
	l := log.New()
	l.SetLevel(log.TraceLevel)
	switch cfg.Format {
	case "json":
		l.SetFormatter(&log.JSONFormatter{})
	default:
		l.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
			DisableColors: cfg.NoColor,
			ForceColors:   cfg.ForceColor || (!cfg.NoColor && IsTerminal(stdout)),
		})
	}
	var file *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("output: failed to open log file: %w", err)
		}
		file = f
		stdout = io.MultiWriter(stdout, f)
		stderr = io.MultiWriter(stderr, f)
	}
	l.SetOutput(io.Discard)
	l.AddHook(&writer.Hook{
		Writer:    stderr,
		LogLevels: []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel},
	})
	l.AddHook(&writer.Hook{
		Writer:    stdout,
		LogLevels: []log.Level{log.InfoLevel, log.DebugLevel, log.TraceLevel},
	})

	entry := log.NewEntry(l)
	if cfg.ProjectName != "" {
		entry = entry.WithField("project", cfg.ProjectName)
	}
	return &Logger{entry: entry, file: file}, nil
}

func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *Logger) Successf(format string, args ...any) {
	l.entry.WithField("status", "success").Infof(format, args...)
}

func (l *Logger) Styled(role Role, format string, args ...any) {
	l.entry.WithField("style", string(role)).Infof(format, args...)
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
