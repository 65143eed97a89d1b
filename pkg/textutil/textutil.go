// Package textutil formats help text: word wrapping and two column listings. Widths are measured in
// terminal cells, so wide characters align correctly.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap splits text into lines no wider than width cells. Runs of whitespace collapse to a single
// space. A word wider than width gets a line of its own.
func Wrap(text string, width int) []string {
	var (
		lines   []string
		current strings.Builder
		used    int
	)
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if used > 0 && used+1+w > width {
			lines = append(lines, current.String())
			current.Reset()
			used = 0
		}
		if used > 0 {
			current.WriteByte(' ')
			used++
		}
		current.WriteString(word)
		used += w
	}
	if used > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Row is one entry of a two column listing.
type Row struct {
	Name string
	Desc string
}

// Columns renders rows indented by two spaces, with descriptions aligned four cells after the
// widest name and wrapped to fit width. Continuation lines align with the description column.
func Columns(rows []Row, width int) string {
	maxName := 0
	for _, r := range rows {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
	}
	descCol := 2 + maxName + 4
	wrapWidth := max(width-descCol, 20)

	var b strings.Builder
	for _, r := range rows {
		lines := Wrap(r.Desc, wrapWidth)
		if len(lines) == 0 {
			b.WriteString("  " + r.Name + "\n")
			continue
		}
		b.WriteString("  " + runewidth.FillRight(r.Name, maxName+4) + lines[0] + "\n")
		for _, line := range lines[1:] {
			b.WriteString(strings.Repeat(" ", descCol) + line + "\n")
		}
	}
	return b.String()
}
