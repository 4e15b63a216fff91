package schema

import (
	"github.com/arjunmahishi/trpcgen/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Substitute replaces every reference to name in a schema expression with
// replacement. Property keys and member names are never touched; shorthand
// properties are expanded to `name: replacement`. It reports whether
// anything changed.
func Substitute(p *parser.Parser, text, name, replacement string) (string, bool) {
	src, expr, err := p.ParseExpression(text)
	if err != nil {
		return text, false
	}

	changed := false
	var rewrite func(n *sitter.Node) string
	rewrite = func(n *sitter.Node) string {
		switch n.Type() {
		case "identifier":
			if src.Text(n) == name {
				changed = true
				return replacement
			}
		case "object":
			return splice(src, n, func(prop *sitter.Node) (string, bool) {
				switch prop.Type() {
				case "pair":
					key, value := prop.ChildByFieldName("key"), prop.ChildByFieldName("value")
					if key == nil || value == nil {
						return "", false
					}
					return src.Text(key) + ": " + rewrite(value), true
				case "shorthand_property_identifier":
					if src.Text(prop) == name {
						changed = true
						return name + ": " + replacement, true
					}
				case "spread_element":
					return splice(src, prop, func(arg *sitter.Node) (string, bool) {
						return rewrite(arg), true
					}), true
				}
				return "", false
			})
		case "array", "arguments", "parenthesized_expression":
			return splice(src, n, func(child *sitter.Node) (string, bool) {
				return rewrite(child), true
			})
		case "call_expression":
			callee, args := n.ChildByFieldName("function"), n.ChildByFieldName("arguments")
			return splice(src, n, func(child *sitter.Node) (string, bool) {
				if sameNode(child, callee) && callee.Type() == "member_expression" || sameNode(child, args) {
					return rewrite(child), true
				}
				return "", false
			})
		case "member_expression":
			object := n.ChildByFieldName("object")
			return splice(src, n, func(child *sitter.Node) (string, bool) {
				if sameNode(child, object) {
					return rewrite(child), true
				}
				return "", false
			})
		}
		return src.Text(n)
	}

	out := rewrite(expr)
	if !changed {
		return text, false
	}
	return out, true
}
