package extract

import (
	"strings"

	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// Middleware reads the context properties a middleware class adds through
// `opts.next({ ctx: {...} })` in its `use` method.
func Middleware(src *parser.Source, className string) (*types.MiddlewareInfo, bool) {
	class, ok := src.FindClass(className)
	if !ok {
		return nil, false
	}
	method, ok := findMethod(src, class, "use")
	if !ok {
		return nil, false
	}

	info := &types.MiddlewareInfo{Name: className, File: src.Path, Properties: []types.ContextProperty{}}
	call := findNextCall(src, method.Node.ChildByFieldName("body"))
	if call == nil {
		return info, true
	}

	args := parser.NamedChildren(call.ChildByFieldName("arguments"))
	if len(args) == 0 || args[0].Type() != "object" {
		return info, true
	}
	ctx := property(src, args[0], "ctx")
	if ctx == nil || ctx.Type() != "object" {
		return info, true
	}

	for _, prop := range parser.NamedChildren(ctx) {
		switch prop.Type() {
		case "pair":
			name, ok := src.PropertyName(prop.ChildByFieldName("key"))
			if !ok {
				continue
			}
			info.Properties = append(info.Properties, types.ContextProperty{
				Name: name,
				Type: middlewareType(src, prop.ChildByFieldName("value")),
			})
		case "shorthand_property_identifier":
			info.Properties = append(info.Properties, types.ContextProperty{Name: src.Text(prop), Type: "unknown"})
		}
	}
	return info, true
}

func middlewareType(src *parser.Source, value *sitter.Node) string {
	if value == nil {
		return "unknown"
	}
	if t, ok := literalType(src, value); ok {
		return t
	}
	switch value.Type() {
	case "object":
		return src.Text(value)
	case "array":
		return "unknown[]"
	case "arrow_function", "function_expression", "function":
		return "Function"
	case "identifier":
		return src.Text(value)
	}
	return "unknown"
}

// findNextCall finds `opts.next(...)` through return and expression
// statements, nested blocks, await, parentheses and call arguments.
func findNextCall(src *parser.Source, n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "statement_block":
		for _, stmt := range parser.NamedChildren(n) {
			if call := findNextCall(src, stmt); call != nil {
				return call
			}
		}
	case "return_statement", "expression_statement", "await_expression", "parenthesized_expression":
		return findNextCall(src, parser.FirstNamedChild(n))
	case "call_expression":
		if isOptsNext(src, n.ChildByFieldName("function")) {
			return n
		}
		for _, arg := range parser.NamedChildren(n.ChildByFieldName("arguments")) {
			if call := findNextCall(src, arg); call != nil {
				return call
			}
		}
	}
	return nil
}

func isOptsNext(src *parser.Source, callee *sitter.Node) bool {
	if callee == nil || callee.Type() != "member_expression" {
		return false
	}
	object := callee.ChildByFieldName("object")
	prop := callee.ChildByFieldName("property")
	return parser.IsIdentifier(object) && src.Text(object) == "opts" &&
		prop != nil && prop.Type() == "property_identifier" && src.Text(prop) == "next"
}

// UseMiddlewares returns the middleware names of the named class from its
// class-level and method-level @UseMiddlewares decorators.
func UseMiddlewares(src *parser.Source, className string) []string {
	class, ok := src.FindClass(className)
	if !ok {
		return nil
	}
	return useMiddlewares(src, class)
}

func useMiddlewares(src *parser.Source, class parser.TopLevel) []string {
	var names []string
	seen := make(map[string]bool)
	collect := func(decorators []*sitter.Node) {
		for _, n := range decorators {
			d, ok := parseDecorator(src, n)
			if !ok || d.Name != "UseMiddlewares" {
				continue
			}
			for _, arg := range d.Args {
				if !parser.IsIdentifier(arg) || seen[src.Text(arg)] {
					continue
				}
				seen[src.Text(arg)] = true
				names = append(names, src.Text(arg))
			}
		}
	}

	collect(class.Decorators)
	for _, method := range src.Methods(parser.ClassBody(class.Node)) {
		collect(method.Decorators)
	}
	return names
}

func findMethod(src *parser.Source, class parser.TopLevel, name string) (parser.Method, bool) {
	for _, method := range src.Methods(parser.ClassBody(class.Node)) {
		if method.Name == name {
			return method, true
		}
	}
	return parser.Method{}, false
}

// literalType maps a literal node to its primitive type name.
func literalType(src *parser.Source, n *sitter.Node) (string, bool) {
	switch n.Type() {
	case "string":
		return "string", true
	case "number":
		if strings.HasSuffix(src.Text(n), "n") {
			return "bigint", true
		}
		return "number", true
	case "true", "false":
		return "boolean", true
	case "null":
		return "null", true
	case "regex":
		return "RegExp", true
	}
	return "", false
}
