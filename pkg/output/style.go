package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Role names a style. Commands pick roles by meaning; the palette decides the look.
type Role string

const (
	RoleSuccess         Role = "success"
	RoleWarning         Role = "warning"
	RoleError           Role = "error"
	RoleNotice          Role = "notice"
	RoleSQLField        Role = "sql-field"
	RoleSQLColType      Role = "sql-coltype"
	RoleSQLKeyword      Role = "sql-keyword"
	RoleSQLTable        Role = "sql-table"
	RoleHTTPInfo        Role = "http-info"
	RoleHTTPSuccess     Role = "http-success"
	RoleHTTPRedirect    Role = "http-redirect"
	RoleHTTPNotModified Role = "http-not-modified"
	RoleHTTPBadRequest  Role = "http-bad-request"
	RoleHTTPNotFound    Role = "http-not-found"
	RoleHTTPServerError Role = "http-server-error"
	RoleMigrateHeading  Role = "migrate-heading"
	RoleMigrateLabel    Role = "migrate-label"
)

// ANSI color indexes.
const (
	red     = lipgloss.Color("1")
	green   = lipgloss.Color("2")
	yellow  = lipgloss.Color("3")
	blue    = lipgloss.Color("4")
	magenta = lipgloss.Color("5")
	cyan    = lipgloss.Color("6")
)

// Style renders text for a [Role] on one writer. With colors disabled it returns text unchanged.
type Style struct {
	styles map[Role]lipgloss.Style
}

// NewStyle creates a style bound to w using profile.
func NewStyle(w io.Writer, profile termenv.Profile) *Style {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	fg := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c).TabWidth(lipgloss.NoTabConversion)
	}
	return &Style{styles: map[Role]lipgloss.Style{
		RoleSuccess:         fg(green),
		RoleWarning:         fg(yellow),
		RoleError:           fg(red),
		RoleNotice:          fg(blue),
		RoleSQLField:        fg(green).Bold(true),
		RoleSQLColType:      fg(yellow),
		RoleSQLKeyword:      fg(blue).Bold(true),
		RoleSQLTable:        fg(cyan),
		RoleHTTPInfo:        fg(blue),
		RoleHTTPSuccess:     fg(green),
		RoleHTTPRedirect:    fg(yellow),
		RoleHTTPNotModified: fg(cyan),
		RoleHTTPBadRequest:  fg(red).Bold(true),
		RoleHTTPNotFound:    fg(red),
		RoleHTTPServerError: r.NewStyle().Background(red).Bold(true).TabWidth(lipgloss.NoTabConversion),
		RoleMigrateHeading:  fg(blue).Bold(true),
		RoleMigrateLabel:    fg(magenta),
	}}
}

// Render applies the style registered for role line by line, so multi-line text is not padded to
// a common width. Unknown roles render unstyled.
func (s *Style) Render(role Role, text string) string {
	st, ok := s.styles[role]
	if !ok || text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = st.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// ColorProfile picks the color profile for w. NoColor wins over everything, ForceColor enables ANSI
// colors even when w is not a terminal, otherwise colors are used only for terminals.
func ColorProfile(w io.Writer, cfg Config) termenv.Profile {
	if cfg.NoColor {
		return termenv.Ascii
	}
	if cfg.ForceColor {
		return termenv.ANSI
	}
	if IsTerminal(w) {
		return termenv.NewOutput(w).ColorProfile()
	}
	return termenv.Ascii
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
