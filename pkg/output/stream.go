package output

import (
	"fmt"
	"io"
	"strings"
)

// Stream is a [Sink] that writes plain or styled text to an output and an error writer. Debug,
// info and success messages go to the output writer; warnings and errors to the error writer.
// Every message ends with Ending unless it already does.
type Stream struct {
	Ending string

	out, err           io.Writer
	outStyle, errStyle *Style
}

var _ Sink = (*Stream)(nil)

// NewStream creates a stream sink. Colors follow [ColorProfile] for each writer.
func NewStream(cfg Config, stdout, stderr io.Writer) *Stream {
	return &Stream{
		Ending:   "\n",
		out:      stdout,
		err:      stderr,
		outStyle: NewStyle(stdout, ColorProfile(stdout, cfg)),
		errStyle: NewStyle(stderr, ColorProfile(stderr, cfg)),
	}
}

func (s *Stream) Debugf(format string, args ...any) { s.write(s.out, fmt.Sprintf(format, args...)) }
func (s *Stream) Infof(format string, args ...any)  { s.write(s.out, fmt.Sprintf(format, args...)) }

func (s *Stream) Successf(format string, args ...any) {
	s.write(s.out, s.outStyle.Render(RoleSuccess, fmt.Sprintf(format, args...)))
}

func (s *Stream) Warnf(format string, args ...any) {
	s.write(s.err, s.errStyle.Render(RoleWarning, fmt.Sprintf(format, args...)))
}

func (s *Stream) Errorf(format string, args ...any) {
	s.write(s.err, s.errStyle.Render(RoleError, fmt.Sprintf(format, args...)))
}

func (s *Stream) Styled(role Role, format string, args ...any) {
	s.write(s.out, s.outStyle.Render(role, fmt.Sprintf(format, args...)))
}

func (s *Stream) write(w io.Writer, msg string) {
	if s.Ending != "" && !strings.HasSuffix(msg, s.Ending) {
		msg += s.Ending
	}
	_, _ = io.WriteString(w, msg)
}
