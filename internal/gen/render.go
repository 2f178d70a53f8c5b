// Package gen renders generated accessor source files from scanned targets.
package gen

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dahankzter/pathmod/internal/scan"
)

const runtimeImport = "github.com/dahankzter/pathmod"

// Render produces a gofmt-formatted source file declaring one zero-argument
// accessor constructor per scanned field. Offsets come from unsafe.Offsetof,
// the host's authoritative layout query, so the emitted FromOffset calls
// discharge the direct-construction proof obligation by construction.
//
// Named mode emits Acc<Field>; positional mode emits Acc<index> in declaration
// order. The output belongs to the scanned package so unexported fields and
// types stay reachable. Field types written with a package qualifier
// (time.Time, json.Number, ...) pull the matching import from the scanned
// file into the generated file.
func Render(pkg string, targets []scan.Target, positional bool) ([]byte, error) {
	if pkg == "" {
		return nil, fmt.Errorf("gen: package name is empty")
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("gen: no targets to render")
	}
	extra, err := fieldImports(targets)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("// Code generated by pathmodgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import (\n")
	for _, q := range sortedKeys(extra) {
		p := extra[q]
		if q == scan.GuessPackageName(p) {
			fmt.Fprintf(&b, "\t%q\n", p)
		} else {
			fmt.Fprintf(&b, "\t%s %q\n", q, p)
		}
	}
	b.WriteString("\t\"unsafe\"\n\n\tpathmod \"" + runtimeImport + "\"\n)\n\n")

	for _, t := range targets {
		seen := make(map[string]string, len(t.Fields))
		for _, f := range t.Fields {
			method := accName(f, positional)
			if prev, ok := seen[method]; ok {
				return nil, fmt.Errorf("gen: %s: fields %q and %q both render as %s()", t.Name, prev, f.Name, method)
			}
			seen[method] = f.Name
			fmt.Fprintf(&b, "// %s returns the accessor for %s.%s.\n", method, t.Name, f.Name)
			fmt.Fprintf(&b, "func (%s) %s() pathmod.Accessor[%s, %s] {\n", t.Name, method, t.Name, f.Type)
			fmt.Fprintf(&b, "\treturn pathmod.FromOffset[%s, %s](unsafe.Offsetof(%s{}.%s))\n", t.Name, f.Type, t.Name, f.Name)
			b.WriteString("}\n\n")
		}
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("gen: formatting rendered source: %w", err)
	}
	return src, nil
}

// fieldImports resolves every package qualifier appearing in emitted field
// types against the imports of the scanned files, so the generated file
// imports exactly what its type expressions reference.
func fieldImports(targets []scan.Target) (map[string]string, error) {
	need := map[string]string{}
	for _, t := range targets {
		for _, f := range t.Fields {
			quals, err := typeQualifiers(f.Type)
			if err != nil {
				return nil, fmt.Errorf("gen: field %s.%s: %w", t.Name, f.Name, err)
			}
			for _, q := range quals {
				p, ok := t.Imports[q]
				if !ok {
					return nil, fmt.Errorf("gen: field %s.%s references package %q with no matching import in the scanned file", t.Name, f.Name, q)
				}
				if prev, ok := need[q]; ok && prev != p {
					return nil, fmt.Errorf("gen: import qualifier %q resolves to both %s and %s", q, prev, p)
				}
				need[q] = p
			}
		}
	}
	return need, nil
}

// typeQualifiers extracts the package qualifiers of a type expression as
// written in source: "map[string]time.Time" yields ["time"].
func typeQualifiers(typeExpr string) ([]string, error) {
	expr, err := parser.ParseExpr(typeExpr)
	if err != nil {
		return nil, fmt.Errorf("parsing type %q: %w", typeExpr, err)
	}
	var quals []string
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				quals = append(quals, id.Name)
				return false
			}
		}
		return true
	})
	return quals, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func accName(f scan.Field, positional bool) string {
	if positional {
		return fmt.Sprintf("Acc%d", f.Index)
	}
	r, size := utf8.DecodeRuneInString(f.Name)
	return "Acc" + string(unicode.ToUpper(r)) + f.Name[size:]
}
