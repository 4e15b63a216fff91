package resolve

import (
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// FindDeclaration searches the top-level declarations of src, exported or
// not, for a binding called name.
func FindDeclaration(src *parser.Source, name string) (types.ResolvedDeclaration, bool) {
	for _, decl := range src.TopLevel() {
		kind, ok := declares(src, decl.Node, name)
		if !ok {
			continue
		}
		return types.ResolvedDeclaration{
			Path:  src.Path,
			Name:  name,
			Start: decl.Node.StartByte(),
			End:   decl.Node.EndByte(),
			Kind:  kind,
		}, true
	}
	return types.ResolvedDeclaration{}, false
}

func declares(src *parser.Source, n *sitter.Node, name string) (types.DeclarationKind, bool) {
	var kind types.DeclarationKind
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		for _, declarator := range parser.ChildrenOfType(n, "variable_declarator") {
			id := declarator.ChildByFieldName("name")
			if parser.IsIdentifier(id) && src.Text(id) == name {
				return types.VariableDeclaration, true
			}
		}
		return types.UnknownDeclaration, false
	case "class_declaration", "abstract_class_declaration", "class":
		kind = types.ClassDeclaration
	case "function_declaration", "generator_function_declaration", "function_signature":
		kind = types.FunctionDeclaration
	case "interface_declaration":
		kind = types.InterfaceDeclaration
	case "enum_declaration":
		kind = types.EnumDeclaration
	case "type_alias_declaration":
		kind = types.TypeAliasDeclaration
	default:
		return types.UnknownDeclaration, false
	}

	id := n.ChildByFieldName("name")
	if id == nil || src.Text(id) != name {
		return types.UnknownDeclaration, false
	}
	return kind, true
}

// FindInitializer returns the initializer expression of the top-level
// variable called name.
func FindInitializer(src *parser.Source, name string) (*sitter.Node, bool) {
	for _, decl := range src.TopLevel() {
		switch decl.Node.Type() {
		case "lexical_declaration", "variable_declaration":
		default:
			continue
		}
		for _, declarator := range parser.ChildrenOfType(decl.Node, "variable_declarator") {
			id := declarator.ChildByFieldName("name")
			if !parser.IsIdentifier(id) || src.Text(id) != name {
				continue
			}
			if value := declarator.ChildByFieldName("value"); value != nil {
				return value, true
			}
		}
	}
	return nil, false
}

// ExportedVariables returns the names of top-level exported variables.
func ExportedVariables(src *parser.Source) []string {
	var names []string
	for _, decl := range src.TopLevel() {
		if !decl.Exported {
			continue
		}
		switch decl.Node.Type() {
		case "lexical_declaration", "variable_declaration":
		default:
			continue
		}
		for _, declarator := range parser.ChildrenOfType(decl.Node, "variable_declarator") {
			if id := declarator.ChildByFieldName("name"); parser.IsIdentifier(id) {
				names = append(names, src.Text(id))
			}
		}
	}
	return names
}

// defaultExport returns the declared name behind `export default`.
func defaultExport(src *parser.Source) (string, bool) {
	for _, decl := range src.TopLevel() {
		if !decl.Default {
			continue
		}
		if parser.IsIdentifier(decl.Node) {
			return src.Text(decl.Node), true
		}
		if id := decl.Node.ChildByFieldName("name"); id != nil {
			return src.Text(id), true
		}
	}
	return "", false
}
