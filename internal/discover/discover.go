// Package discover inspects a directory of Go files for basecmd commands and generates the catalog
// a basecmd.Runner dispatches from.
//
// A file is a single-command module when it declares a top-level func named after the file stem
// in CamelCase with a "Command" suffix, taking no parameters and returning *basecmd.Command. For
// example greet.go declares GreetCommand and db-dump.go declares DbDumpCommand. A file is a
// registry module for every package-level var whose type is *basecmd.Registry, or whose
// initializer is a call chain rooted in basecmd.NewRegistry(). A file can be both.
package discover

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// DefaultImportPath is the import path of the basecmd package.
const DefaultImportPath = "github.com/mfridman/basecmd"

// Module is what one file contributes to the catalog.
type Module struct {
	// File is the file name, e.g. "greet.go".
	File string
	// Command is the name of the factory func of a single-command file, empty otherwise.
	Command string
	// Registries are the package-level registry vars, in declaration order.
	Registries []string
}

// Skip records a file that was not inspected, or that defines no commands.
type Skip struct {
	File   string
	Reason string
}

// Result is the outcome of scanning one directory.
type Result struct {
	// Package is the package name shared by the inspected files.
	Package string
	// Modules are the files that define commands, sorted by file name.
	Modules []Module
	Skipped []Skip
}

// Scan inspects the Go files directly inside dir. Files are skipped when their name starts with "_"
// or ".", when they are test files, or when they are generated. importPath identifies the basecmd
// package; files that do not import it define no commands.
func Scan(dir, importPath string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	res := new(Result)
	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if reason := skipReason(entry); reason != "" {
			res.Skipped = append(res.Skipped, Skip{File: name, Reason: reason})
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		if ast.IsGenerated(f) {
			res.Skipped = append(res.Skipped, Skip{File: name, Reason: "generated"})
			continue
		}
		if res.Package == "" {
			res.Package = f.Name.Name
		} else if f.Name.Name != res.Package {
			return nil, fmt.Errorf("%s: package %s, expected %s", name, f.Name.Name, res.Package)
		}
		m, err := inspect(name, f, importPath)
		if err != nil {
			return nil, err
		}
		if m.Command == "" && len(m.Registries) == 0 {
			res.Skipped = append(res.Skipped, Skip{File: name, Reason: "no commands"})
			continue
		}
		res.Modules = append(res.Modules, m)
	}
	return res, nil
}

// CommandFuncName returns the factory func name expected in a single-command file.
func CommandFuncName(file string) string {
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	var b strings.Builder
	for _, part := range strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	}) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	b.WriteString("Command")
	return b.String()
}

func skipReason(entry os.DirEntry) string {
	name := entry.Name()
	switch {
	case entry.IsDir():
		return "directory"
	case strings.HasPrefix(name, "_"), strings.HasPrefix(name, "."):
		return "private"
	case filepath.Ext(name) != ".go":
		return "not a Go source file"
	case strings.HasSuffix(name, "_test.go"):
		return "test file"
	}
	return ""
}

func inspect(name string, f *ast.File, importPath string) (Module, error) {
	m := Module{File: name}
	pkg := localName(f, importPath)
	if pkg == "" {
		return m, nil
	}
	want := CommandFuncName(name)
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil || d.Name.Name != want {
				continue
			}
			if !isFactory(d.Type, pkg) {
				return m, fmt.Errorf("%s: %s must take no parameters and return *%s.Command",
					name, want, pkg)
			}
			m.Command = want
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs := spec.(*ast.ValueSpec)
				for i, ident := range vs.Names {
					if ident.Name == "_" {
						continue
					}
					if isRegistryType(vs.Type, pkg) || (i < len(vs.Values) && rootedInNewRegistry(vs.Values[i], pkg)) {
						m.Registries = append(m.Registries, ident.Name)
					}
				}
			}
		}
	}
	return m, nil
}

// localName returns the name f uses for the package at importPath, or "" if f does not import it.
func localName(f *ast.File, importPath string) string {
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != importPath {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				return ""
			}
			return imp.Name.Name
		}
		return p[strings.LastIndex(p, "/")+1:]
	}
	return ""
}

func isFactory(ft *ast.FuncType, pkg string) bool {
	if ft.TypeParams != nil && len(ft.TypeParams.List) > 0 {
		return false
	}
	if ft.Params != nil && len(ft.Params.List) > 0 {
		return false
	}
	if ft.Results == nil || len(ft.Results.List) != 1 || len(ft.Results.List[0].Names) > 1 {
		return false
	}
	return isPointerTo(ft.Results.List[0].Type, pkg, "Command")
}

func isRegistryType(expr ast.Expr, pkg string) bool {
	return expr != nil && isPointerTo(expr, pkg, "Registry")
}

func isPointerTo(expr ast.Expr, pkg, typ string) bool {
	star, ok := expr.(*ast.StarExpr)
	if !ok {
		return false
	}
	return isSelector(star.X, pkg, typ)
}

func isSelector(expr ast.Expr, pkg, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == pkg
}

// rootedInNewRegistry reports whether expr is pkg.NewRegistry() or a method chain on it, such as
// pkg.NewRegistry().Register("a", newA).Register("b", newB).
func rootedInNewRegistry(expr ast.Expr, pkg string) bool {
	for {
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			return false
		}
		if isSelector(call.Fun, pkg, "NewRegistry") {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		expr = sel.X
	}
}
