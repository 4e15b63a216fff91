package resolve

import (
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// ImportMap maps local binding names of a file to the declarations they
// resolve to.
type ImportMap map[string]types.ResolvedDeclaration

// ExternalImport is a named import from a package outside the project.
type ExternalImport struct {
	Local   string
	Package string
}

// importBinding is one local name introduced by an import statement.
type importBinding struct {
	Local    string
	Imported string
	Default  bool
}

// ImportMap resolves every named and default import of file that points at
// a relative module. Imports that fail to resolve are logged and left out.
func (r *Resolver) ImportMap(file string) (ImportMap, error) {
	src, err := r.arena.Parse(file)
	if err != nil {
		return nil, err
	}

	imports := make(ImportMap)
	for _, stmt := range parser.ChildrenOfType(src.Root(), "import_statement") {
		spec := src.ModuleName(stmt.ChildByFieldName("source"))
		if !parser.IsRelativeSpecifier(spec) {
			continue
		}
		bindings := importBindings(src, stmt)
		if len(bindings) == 0 {
			continue
		}

		target, ok := ResolveModulePath(src.Dir(), spec)
		if !ok {
			r.log.Warn().Err(&ModuleNotFoundError{Specifier: spec, From: file}).Msg("skipping import")
			continue
		}

		for _, b := range bindings {
			decl, err := r.resolveBinding(target, b)
			if err != nil {
				r.log.Warn().Err(err).Str("file", file).Str("name", b.Local).Msg("failed to resolve import")
				continue
			}
			imports[b.Local] = decl
		}
	}
	return imports, nil
}

func (r *Resolver) resolveBinding(target string, b importBinding) (types.ResolvedDeclaration, error) {
	if !b.Default {
		return r.Resolve(target, b.Imported)
	}
	src, err := r.arena.Parse(target)
	if err != nil {
		return types.ResolvedDeclaration{}, err
	}
	name, ok := defaultExport(src)
	if !ok {
		return types.ResolvedDeclaration{}, &UnresolvedError{Name: "default", Path: target}
	}
	return r.Resolve(target, name)
}

// ExternalImports lists the named imports of src that come from packages,
// in source order.
func ExternalImports(src *parser.Source) []ExternalImport {
	var out []ExternalImport
	for _, stmt := range parser.ChildrenOfType(src.Root(), "import_statement") {
		spec := src.ModuleName(stmt.ChildByFieldName("source"))
		if spec == "" || parser.IsRelativeSpecifier(spec) {
			continue
		}
		for _, b := range importBindings(src, stmt) {
			if b.Default {
				continue
			}
			out = append(out, ExternalImport{Local: b.Local, Package: spec})
		}
	}
	return out
}

// DefaultImport returns the local name of the default import from module in
// src, if there is one.
func DefaultImport(src *parser.Source, module string) (string, bool) {
	for _, stmt := range parser.ChildrenOfType(src.Root(), "import_statement") {
		if src.ModuleName(stmt.ChildByFieldName("source")) != module {
			continue
		}
		for _, b := range importBindings(src, stmt) {
			if b.Default {
				return b.Local, true
			}
		}
	}
	return "", false
}

// importBindings lists the default and named bindings of an import
// statement. Namespace imports bind no single declaration and are skipped.
func importBindings(src *parser.Source, stmt *sitter.Node) []importBinding {
	var out []importBinding
	for _, clause := range parser.ChildrenOfType(stmt, "import_clause") {
		for _, child := range parser.NamedChildren(clause) {
			switch child.Type() {
			case "identifier":
				local := src.Text(child)
				out = append(out, importBinding{Local: local, Imported: "default", Default: true})
			case "named_imports":
				for _, specifier := range parser.ChildrenOfType(child, "import_specifier") {
					imported := src.ModuleName(specifier.ChildByFieldName("name"))
					local := imported
					if alias := specifier.ChildByFieldName("alias"); alias != nil {
						local = src.Text(alias)
					}
					out = append(out, importBinding{Local: local, Imported: imported})
				}
			}
		}
	}
	return out
}
