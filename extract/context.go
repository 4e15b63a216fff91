package extract

import (
	"strings"

	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// Context describes the value returned by the `create` method of a context
// factory class as a structural type.
func Context(src *parser.Source, className string) (*types.ContextInfo, bool) {
	class, ok := src.FindClass(className)
	if !ok {
		return nil, false
	}
	method, ok := findMethod(src, class, "create")
	if !ok {
		return nil, false
	}

	ret := findReturn(method.Node.ChildByFieldName("body"))
	if ret == nil {
		return nil, false
	}
	return &types.ContextInfo{
		Name:       className,
		File:       src.Path,
		ReturnType: typeString(src, ret),
	}, true
}

// findReturn returns the first returned expression through nested blocks,
// both branches of an if and the body and handler of a try.
func findReturn(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "statement_block":
		for _, stmt := range parser.NamedChildren(n) {
			if ret := findReturn(stmt); ret != nil {
				return ret
			}
		}
	case "return_statement":
		return parser.FirstNamedChild(n)
	case "if_statement":
		if ret := findReturn(n.ChildByFieldName("consequence")); ret != nil {
			return ret
		}
		return findReturn(n.ChildByFieldName("alternative"))
	case "else_clause":
		return findReturn(parser.FirstNamedChild(n))
	case "try_statement":
		if ret := findReturn(n.ChildByFieldName("body")); ret != nil {
			return ret
		}
		if handler := n.ChildByFieldName("handler"); handler != nil {
			return findReturn(handler.ChildByFieldName("body"))
		}
	}
	return nil
}

func typeString(src *parser.Source, n *sitter.Node) string {
	n = parser.Unwrap(n)
	if n == nil {
		return "unknown"
	}
	if t, ok := literalType(src, n); ok {
		return t
	}
	switch n.Type() {
	case "object":
		var props []string
		for _, prop := range parser.NamedChildren(n) {
			switch prop.Type() {
			case "pair":
				name, ok := src.PropertyName(prop.ChildByFieldName("key"))
				if !ok {
					continue
				}
				props = append(props, name+": "+typeString(src, prop.ChildByFieldName("value")))
			case "shorthand_property_identifier":
				props = append(props, src.Text(prop)+": unknown")
			}
		}
		return "{ " + strings.Join(props, "; ") + " }"
	case "array":
		return "unknown[]"
	}
	return "unknown"
}
