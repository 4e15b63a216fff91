package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Children returns all children of n, comments excluded.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// NamedChildren returns the named children of n, comments excluded.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// FirstNamedChild returns the first non-comment named child of n.
func FirstNamedChild(n *sitter.Node) *sitter.Node {
	for _, child := range NamedChildren(n) {
		return child
	}
	return nil
}

// ChildrenOfType returns the direct children of n with the given node type.
func ChildrenOfType(n *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range NamedChildren(n) {
		if child.Type() == nodeType {
			out = append(out, child)
		}
	}
	return out
}

// HasChildToken reports whether n has an anonymous child token with the given text.
func HasChildToken(n *sitter.Node, token string) bool {
	for _, child := range Children(n) {
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

// Unwrap strips parentheses around an expression.
func Unwrap(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" {
		n = FirstNamedChild(n)
	}
	return n
}

// IsIdentifier reports whether n is a plain identifier reference.
func IsIdentifier(n *sitter.Node) bool {
	return n != nil && n.Type() == "identifier"
}

// IsRelativeSpecifier reports whether a module specifier points into the project.
func IsRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/")
}

// StringValue returns the value of a string literal or of a template literal
// without substitutions.
func (s *Source) StringValue(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
		return unquote(s.Text(n)), true
	case "template_string":
		if len(ChildrenOfType(n, "template_substitution")) > 0 {
			return "", false
		}
		text := s.Text(n)
		return strings.TrimSuffix(strings.TrimPrefix(text, "`"), "`"), true
	}
	return "", false
}

// PropertyName returns the name of an object key or method name node.
func (s *Source) PropertyName(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier", "shorthand_property_identifier",
		"private_property_identifier", "type_identifier":
		return s.Text(n), true
	case "string":
		return unquote(s.Text(n)), true
	}
	return "", false
}

// ModuleName returns the text of an import or export name, which may be a
// string literal.
func (s *Source) ModuleName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() == "string" {
		return unquote(s.Text(n))
	}
	return s.Text(n)
}

func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	quote := text[0]
	if quote != '"' && quote != '\'' || text[len(text)-1] != quote {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	if quote == '\'' {
		body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
	}
	if v, err := strconv.Unquote(`"` + body + `"`); err == nil {
		return v
	}
	return body
}
