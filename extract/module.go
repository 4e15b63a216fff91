package extract

import (
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/resolve"
	"github.com/arjunmahishi/trpcgen/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// ModuleOptions reads the options passed to TRPCModule.forRoot in the
// imports of a @Module decorated class.
func ModuleOptions(src *parser.Source) (*types.ModuleOptions, bool) {
	for _, decl := range src.TopLevel() {
		if !decl.IsClass() {
			continue
		}
		d, ok := findDecorator(src, decl.Decorators, "Module")
		if !ok {
			continue
		}
		opts := d.firstObjectArg()
		if opts == nil {
			continue
		}
		imports := property(src, opts, "imports")
		if imports == nil || imports.Type() != "array" {
			continue
		}
		for _, elem := range parser.NamedChildren(imports) {
			if args, ok := forRootArgs(src, elem); ok {
				return moduleOptions(src, args), true
			}
		}
	}
	return nil, false
}

// forRootArgs matches `TRPCModule.forRoot(...)` and returns its arguments.
func forRootArgs(src *parser.Source, n *sitter.Node) ([]*sitter.Node, bool) {
	if n.Type() != "call_expression" {
		return nil, false
	}
	callee := n.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return nil, false
	}
	object := callee.ChildByFieldName("object")
	prop := callee.ChildByFieldName("property")
	if !parser.IsIdentifier(object) || src.Text(object) != "TRPCModule" || prop == nil || src.Text(prop) != "forRoot" {
		return nil, false
	}
	return parser.NamedChildren(n.ChildByFieldName("arguments")), true
}

func moduleOptions(src *parser.Source, args []*sitter.Node) *types.ModuleOptions {
	opts := &types.ModuleOptions{}
	if len(args) == 0 || args[0].Type() != "object" {
		return opts
	}
	if v := property(src, args[0], "context"); parser.IsIdentifier(v) {
		opts.Context = src.Text(v)
	}
	if v := property(src, args[0], "transformer"); parser.IsIdentifier(v) {
		opts.Transformer = src.Text(v)
	}
	if v := property(src, args[0], "autoSchemaFile"); v != nil && v.Type() == "string" {
		opts.AutoSchemaFile, _ = src.StringValue(v)
	}
	return opts
}

// Transformer finds the import that binds ident, either as the default
// import or as a named import.
func Transformer(src *parser.Source, ident string) (*types.TransformerInfo, bool) {
	for _, stmt := range parser.ChildrenOfType(src.Root(), "import_statement") {
		pkg := src.ModuleName(stmt.ChildByFieldName("source"))
		for _, clause := range parser.ChildrenOfType(stmt, "import_clause") {
			for _, child := range parser.NamedChildren(clause) {
				switch child.Type() {
				case "identifier":
					if src.Text(child) == ident {
						return &types.TransformerInfo{Package: pkg, Name: ident, Default: true}, true
					}
				case "named_imports":
					for _, spec := range parser.ChildrenOfType(child, "import_specifier") {
						local := spec.ChildByFieldName("alias")
						if local == nil {
							local = spec.ChildByFieldName("name")
						}
						if src.Text(local) == ident {
							return &types.TransformerInfo{Package: pkg, Name: ident}, true
						}
					}
				}
			}
		}
	}
	return nil, false
}

// ContextFile resolves the file a context class is imported from with a
// relative named import.
func ContextFile(src *parser.Source, className string) (string, bool) {
	for _, stmt := range parser.ChildrenOfType(src.Root(), "import_statement") {
		spec := src.ModuleName(stmt.ChildByFieldName("source"))
		if len(spec) == 0 || spec[0] != '.' {
			continue
		}
		for _, clause := range parser.ChildrenOfType(stmt, "import_clause") {
			for _, named := range parser.ChildrenOfType(clause, "named_imports") {
				for _, s := range parser.ChildrenOfType(named, "import_specifier") {
					local := s.ChildByFieldName("alias")
					if local == nil {
						local = s.ChildByFieldName("name")
					}
					if src.Text(local) == className {
						return resolve.ResolveModulePath(src.Dir(), spec)
					}
				}
			}
		}
	}
	return "", false
}
