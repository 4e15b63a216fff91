package schema

import (
	"github.com/arjunmahishi/trpcgen/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Identifiers returns the identifiers a schema expression references through
// object values, array elements, call arguments, callee and member bases,
// in order of first appearance. The namespace identifier is excluded.
// Unparsable text has no identifiers.
func Identifiers(p *parser.Parser, text, namespace string) []string {
	src, expr, err := p.ParseExpression(text)
	if err != nil {
		return nil
	}
	return IdentifiersOf(src, namespace, expr)
}

// IdentifiersOf collects the identifiers of several expressions of src into
// one ordered list. Nil nodes are ignored.
func IdentifiersOf(src *parser.Source, namespace string, exprs ...*sitter.Node) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name == namespace || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "identifier", "shorthand_property_identifier":
			add(src.Text(n))
		case "object":
			for _, prop := range parser.NamedChildren(n) {
				switch prop.Type() {
				case "pair":
					walk(prop.ChildByFieldName("value"))
				case "shorthand_property_identifier":
					walk(prop)
				case "spread_element":
					walk(parser.FirstNamedChild(prop))
				}
			}
		case "array", "arguments", "parenthesized_expression":
			for _, child := range parser.NamedChildren(n) {
				walk(child)
			}
		case "call_expression":
			if callee := n.ChildByFieldName("function"); callee != nil && callee.Type() == "member_expression" {
				walk(callee)
			}
			walk(n.ChildByFieldName("arguments"))
		case "member_expression":
			walk(n.ChildByFieldName("object"))
		}
	}
	for _, expr := range exprs {
		walk(expr)
	}
	return out
}
