// Copyright 2026 The Metapool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Mtpstencil is a code generator invoked via go:generate that materializes
// typed alloc/free wrapper pairs over [allocator.Construct]/
// [allocator.Destruct] for a package's pooled types, so call sites need
// not repeat the generic instantiation at every use.
//
// It looks for directives of the form
//
//	//mtpstencil:generate TypeName
//
// in the package named by the GOFILE environment variable (set by
// go:generate) and writes mtpstencil_gen.go in the same directory,
// containing:
//
//	func AllocTypeName(a *allocator.Allocator, v TypeName) *TypeName
//	func FreeTypeName(a *allocator.Allocator, p *TypeName)
//
//nolint:errcheck // internal tool; panicking on error is acceptable.
package main

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tiendc/go-deepcopy"
	"golang.org/x/tools/go/packages"
)

var directive = regexp.MustCompile(`^//mtpstencil:generate\s+(\w+)\s*$`)

// target is one type this run will generate wrappers for, as named by an
// //mtpstencil:generate directive.
type target struct {
	Name string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mtpstencil:", err)
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv("GOFILE")
	if path == "" {
		return fmt.Errorf("GOFILE is not set; run via go:generate")
	}
	dir := filepath.Dir(path)

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes,
		Dir:  dir,
	}, ".")
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no package found in %s", dir)
	}
	pkg := pkgs[0]

	var targets []target
	for _, f := range pkg.Syntax {
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				m := directive.FindStringSubmatch(c.Text)
				if m == nil {
					continue
				}
				var t target
				if err := deepcopy.Copy(&t, &target{Name: m[1]}); err != nil {
					return fmt.Errorf("copying directive target: %w", err)
				}
				targets = append(targets, t)
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })

	var body strings.Builder
	fmt.Fprintf(&body, "// Code generated by mtpstencil. DO NOT EDIT.\n\n")
	fmt.Fprintf(&body, "package %s\n\n", pkg.Name)
	fmt.Fprintf(&body, "import \"github.com/esterlein/metapool/allocator\"\n\n")

	for _, t := range targets {
		fmt.Fprintf(&body, "// Alloc%s constructs a pooled %s from a.\n", t.Name, t.Name)
		fmt.Fprintf(&body, "func Alloc%s(a *allocator.Allocator, v %s) *%s {\n", t.Name, t.Name, t.Name)
		fmt.Fprintf(&body, "\treturn allocator.Construct(a, v)\n}\n\n")

		fmt.Fprintf(&body, "// Free%s returns a pooled %s to a.\n", t.Name, t.Name)
		fmt.Fprintf(&body, "func Free%s(a *allocator.Allocator, p *%s) {\n", t.Name, t.Name)
		fmt.Fprintf(&body, "\tallocator.Destruct(a, p)\n}\n\n")
	}

	fset := token.NewFileSet()
	astFile, err := parseSource(fset, body.String())
	if err != nil {
		return fmt.Errorf("generated source did not parse: %w", err)
	}

	out, err := formatFile(fset, astFile)
	if err != nil {
		return err
	}

	outPath := filepath.Join(dir, "mtpstencil_gen.go")
	return os.WriteFile(outPath, out, 0o644)
}

func parseSource(fset *token.FileSet, src string) (*ast.File, error) {
	const filename = "mtpstencil_gen.go"
	return parser.ParseFile(fset, filename, src, parser.ParseComments)
}

func formatFile(fset *token.FileSet, f *ast.File) ([]byte, error) {
	var buf strings.Builder
	if err := format.Node(&buf, fset, f); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
