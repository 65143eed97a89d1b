package discover

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"
)

// Header is the first line of every generated file.
const Header = "// Code generated by basecmd-gen. DO NOT EDIT."

var catalogTemplate = template.Must(template.New("catalog").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(Header + `

package {{ .Package }}

import (
	"embed"

	basecmd "{{ .ImportPath }}"
)

// Files holds the Go sources of this directory. Only files present here take part in discovery.
//
//go:embed *.go
var Files embed.FS

// Catalog maps the files of this directory to the commands they define.
var Catalog = basecmd.Catalog{
{{- range .Modules }}
	{{ printf "%q" .File }}: {
		{{- if .Command }}
		Command: {{ .Command }},
		{{- end }}
		{{- if .Registries }}
		Registries: []*basecmd.Registry{ {{- join .Registries ", " -}} },
		{{- end }}
	},
{{- end }}
}
`))

// Generate writes the catalog source for res to w. The output is gofmt'ed.
func Generate(w io.Writer, res *Result, importPath string) error {
	if res == nil || res.Package == "" {
		return errors.New("no Go files to generate a catalog for")
	}
	if importPath == "" {
		importPath = DefaultImportPath
	}
	var buf bytes.Buffer
	if err := catalogTemplate.Execute(&buf, struct {
		*Result
		ImportPath string
	}{res, importPath}); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}
