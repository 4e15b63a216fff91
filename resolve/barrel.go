package resolve

import (
	"path/filepath"

	"github.com/arjunmahishi/trpcgen/parser"
)

// reExport is one `export ... from` statement of a barrel file.
type reExport struct {
	Source   string
	Star     bool
	Exported string
	Original string
}

// IsBarrel reports whether path is an index file whose re-exports are
// followed during resolution.
func IsBarrel(path string) bool {
	switch filepath.Base(path) {
	case "index.ts", "index.tsx":
		return true
	}
	return false
}

// reExports lists the relative re-exports of src in source order.
func reExports(src *parser.Source) []reExport {
	var out []reExport
	for _, stmt := range parser.NamedChildren(src.Root()) {
		if stmt.Type() != "export_statement" {
			continue
		}
		spec := src.ModuleName(stmt.ChildByFieldName("source"))
		if spec == "" || !parser.IsRelativeSpecifier(spec) {
			continue
		}

		clauses := parser.ChildrenOfType(stmt, "export_clause")
		if len(clauses) == 0 {
			if parser.HasChildToken(stmt, "*") && len(parser.ChildrenOfType(stmt, "namespace_export")) == 0 {
				out = append(out, reExport{Source: spec, Star: true})
			}
			continue
		}

		for _, specifier := range parser.ChildrenOfType(clauses[0], "export_specifier") {
			original := src.ModuleName(specifier.ChildByFieldName("name"))
			exported := original
			if alias := specifier.ChildByFieldName("alias"); alias != nil {
				exported = src.ModuleName(alias)
			}
			out = append(out, reExport{Source: spec, Exported: exported, Original: original})
		}
	}
	return out
}
