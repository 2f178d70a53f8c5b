// Package scan locates accessor generation targets in a package directory.
//
// It parses the package source (go/parser, no type checking) and extracts, for
// every requested struct type, the declared fields in declaration order.
// Targets that cannot carry per-field accessors — missing types, non-structs,
// interface (variant) types, generic declarations, structs with no usable
// fields — are rejected with coded issues before any code is rendered.
package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"path"
	"strings"

	pathmod "github.com/dahankzter/pathmod"
)

// Field is one declared struct field usable as an accessor target.
type Field struct {
	Name  string // declared name; for embedded fields, the type's base name
	Type  string // type expression as written in source
	Index int    // declaration index within the struct
}

// Target is a struct type for which accessors will be generated.
type Target struct {
	Name    string
	Fields  []Field
	PkgName string            // package the type was found in
	Imports map[string]string // qualifier -> import path, from the declaring file
}

// Package scans dir for the named types. All requested types are resolved
// before returning: every rejection becomes one pathmod.Issue, and the
// aggregated pathmod.Issues is returned as the error alongside whichever
// targets did resolve.
//
// Test files are excluded: generated accessors live in a non-test file and
// must not reference test-only types.
func Package(dir string, typeNames []string) ([]Target, error) {
	fset := token.NewFileSet()
	noTests := func(fi fs.FileInfo) bool { return !strings.HasSuffix(fi.Name(), "_test.go") }
	pkgs, err := parser.ParseDir(fset, dir, noTests, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("scan: parsing %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("scan: no Go package in %s", dir)
	}

	var targets []Target
	var iss pathmod.Issues
	for _, name := range typeNames {
		t, is := findTarget(pkgs, name)
		if is != nil {
			iss = append(iss, *is)
			continue
		}
		targets = append(targets, t)
	}
	if len(iss) > 0 {
		return targets, iss
	}
	return targets, nil
}

func findTarget(pkgs map[string]*ast.Package, typeName string) (Target, *pathmod.Issue) {
	for _, pkg := range pkgs {
		for _, f := range pkg.Files {
			for _, decl := range f.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, spec := range gd.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok || ts.Name == nil || ts.Name.Name != typeName {
						continue
					}
					return targetFromSpec(pkg.Name, f, ts)
				}
			}
		}
	}
	return Target{}, &pathmod.Issue{
		Container: typeName,
		Code:      pathmod.CodeUnknownType,
		Message:   "no type declaration with this name in the scanned package",
	}
}

func targetFromSpec(pkgName string, file *ast.File, ts *ast.TypeSpec) (Target, *pathmod.Issue) {
	name := ts.Name.Name
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return Target{}, &pathmod.Issue{
			Container: name,
			Code:      pathmod.CodeGenericType,
			Message:   "generic types have no single fixed layout to target",
		}
	}
	if _, ok := ts.Type.(*ast.InterfaceType); ok {
		return Target{}, &pathmod.Issue{
			Container: name,
			Code:      pathmod.CodeVariantType,
			Message:   "interface (variant) types have no fixed field layout",
		}
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return Target{}, &pathmod.Issue{
			Container: name,
			Code:      pathmod.CodeNotStruct,
			Message:   "accessor targets must be plain struct types",
		}
	}

	t := Target{Name: name, PkgName: pkgName, Imports: fileImports(file)}
	idx := 0
	for _, fld := range st.Fields.List {
		typeExpr := types.ExprString(fld.Type)
		if len(fld.Names) == 0 {
			// Embedded field: addressed by its type's base name.
			t.Fields = append(t.Fields, Field{Name: embeddedName(fld.Type), Type: typeExpr, Index: idx})
			idx++
			continue
		}
		for _, id := range fld.Names {
			if id.Name == "_" {
				// Blank fields are padding; they cannot be selected.
				idx++
				continue
			}
			t.Fields = append(t.Fields, Field{Name: id.Name, Type: typeExpr, Index: idx})
			idx++
		}
	}
	if len(t.Fields) == 0 {
		return Target{}, &pathmod.Issue{
			Container: name,
			Code:      pathmod.CodeNoFields,
			Message:   "struct declares no addressable fields",
		}
	}
	return t, nil
}

// fileImports maps the qualifiers usable in the file's type expressions to
// their import paths. Dot and blank imports carry no usable qualifier and are
// skipped.
func fileImports(file *ast.File) map[string]string {
	m := make(map[string]string, len(file.Imports))
	for _, im := range file.Imports {
		p := strings.Trim(im.Path.Value, `"`)
		name := ""
		if im.Name != nil {
			name = im.Name.Name
			if name == "_" || name == "." {
				continue
			}
		} else {
			name = GuessPackageName(p)
		}
		m[name] = p
	}
	return m
}

// GuessPackageName reports the package identifier an unaliased import of path
// binds to: the last path element, skipping major-version elements (".../v2")
// and gopkg.in-style ".vN" suffixes. A heuristic, as source scanning cannot
// see the imported package's clause; aliased imports bypass it entirely.
func GuessPackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && allDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// embeddedName strips pointer and qualifier syntax down to the identifier an
// embedded field is addressed by: *pkg.Base embeds as Base.
func embeddedName(expr ast.Expr) string {
	s := types.ExprString(expr)
	s = strings.TrimPrefix(s, "*")
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}
