// Package extract reads router, procedure, middleware, context and module
// metadata from decorated TypeScript classes. Extractors never fail: shapes
// they do not understand are treated as absent.
package extract

import (
	"github.com/arjunmahishi/trpcgen/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// decorator is a parsed `@Name`, `@Name()` or `@Name(args...)`.
type decorator struct {
	Name string
	Args []*sitter.Node
}

func parseDecorator(src *parser.Source, n *sitter.Node) (decorator, bool) {
	expr := parser.Unwrap(parser.FirstNamedChild(n))
	if expr == nil {
		return decorator{}, false
	}

	switch expr.Type() {
	case "identifier":
		return decorator{Name: src.Text(expr)}, true
	case "call_expression":
		callee := expr.ChildByFieldName("function")
		if !parser.IsIdentifier(callee) {
			return decorator{}, false
		}
		return decorator{
			Name: src.Text(callee),
			Args: parser.NamedChildren(expr.ChildByFieldName("arguments")),
		}, true
	}
	return decorator{}, false
}

// findDecorator returns the first decorator called name.
func findDecorator(src *parser.Source, decorators []*sitter.Node, name string) (decorator, bool) {
	for _, n := range decorators {
		if d, ok := parseDecorator(src, n); ok && d.Name == name {
			return d, true
		}
	}
	return decorator{}, false
}

// firstObjectArg returns the first argument when it is an object literal.
func (d decorator) firstObjectArg() *sitter.Node {
	if len(d.Args) == 0 {
		return nil
	}
	if arg := parser.Unwrap(d.Args[0]); arg != nil && arg.Type() == "object" {
		return arg
	}
	return nil
}

// property returns the value of the `key: value` pair called name.
func property(src *parser.Source, object *sitter.Node, name string) *sitter.Node {
	for _, pair := range parser.ChildrenOfType(object, "pair") {
		if key, ok := src.PropertyName(pair.ChildByFieldName("key")); ok && key == name {
			return pair.ChildByFieldName("value")
		}
	}
	return nil
}
