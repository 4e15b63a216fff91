// Package schema inlines validator schema references so that procedure
// schemas can be emitted without their original imports.
package schema

import (
	"strings"

	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/resolve"
	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
)

const (
	// DefaultMaxDepth bounds nested inlining.
	DefaultMaxDepth = 20

	// DefaultNamespace is the validator library identifier that is never inlined.
	DefaultNamespace = "z"
)

// Options configures a Flattener.
type Options struct {
	MaxDepth  int
	Namespace string

	// Importable names are emitted as imports and left in place.
	Importable map[string]struct{}

	Logger zerolog.Logger
}

// Flattener rewrites schema expressions by replacing references to local or
// imported schema variables with their initializers. A Flattener belongs to
// one generation run and is not safe for concurrent use.
type Flattener struct {
	resolver   *resolve.Resolver
	arena      *parser.Arena
	maxDepth   int
	namespace  string
	importable map[string]struct{}
	resolving  []string
	imports    map[string]resolve.ImportMap
	log        zerolog.Logger
}

// scope is the file an expression was written in, used to look up the
// identifiers it references.
type scope struct {
	src     *parser.Source
	imports resolve.ImportMap
}

// New creates a flattener that resolves imports through r.
func New(r *resolve.Resolver, opts Options) *Flattener {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Importable == nil {
		opts.Importable = make(map[string]struct{})
	}
	return &Flattener{
		resolver:   r,
		arena:      r.Arena(),
		maxDepth:   opts.MaxDepth,
		namespace:  opts.Namespace,
		importable: opts.Importable,
		imports:    make(map[string]resolve.ImportMap),
		log:        opts.Logger,
	}
}

// Flatten inlines every non-importable identifier of the schema text, which
// was written in the file origin. Identifiers that cannot be resolved are
// left as they are.
func (f *Flattener) Flatten(text, origin string) (string, error) {
	exprSrc, expr, err := f.arena.Parser().ParseExpression(text)
	if err != nil {
		return "", err
	}

	sc := &scope{imports: f.importMap(origin)}
	if src, err := f.arena.Parse(origin); err == nil {
		sc.src = src
	}

	f.resolving = f.resolving[:0]
	out := f.flatten(exprSrc, expr, sc, 0)
	if out != text {
		f.log.Debug().Str("original", text).Str("flattened", out).Msg("flattened schema")
	}
	return out, nil
}

// Identifiers returns the identifiers referenced by a schema expression, in
// order of first appearance, without the validator namespace.
func (f *Flattener) Identifiers(text string) []string {
	return Identifiers(f.arena.Parser(), text, f.namespace)
}

func (f *Flattener) importMap(file string) resolve.ImportMap {
	if imports, ok := f.imports[file]; ok {
		return imports
	}
	imports, err := f.resolver.ImportMap(file)
	if err != nil {
		f.log.Debug().Err(err).Str("file", file).Msg("no imports for schema origin")
		imports = resolve.ImportMap{}
	}
	f.imports[file] = imports
	return imports
}

// flatten returns the rewritten text of n.
func (f *Flattener) flatten(src *parser.Source, n *sitter.Node, sc *scope, depth int) string {
	text := src.Text(n)
	if depth >= f.maxDepth {
		f.log.Warn().Int("depth", depth).Str("schema", text).Msg("maximum schema flattening depth reached")
		return text
	}

	switch n.Type() {
	case "identifier":
		if inlined, ok := f.inline(text, sc, depth); ok {
			return inlined
		}
		return text

	case "object":
		return splice(src, n, func(child *sitter.Node) (string, bool) {
			return f.property(src, child, sc, depth)
		})

	case "array":
		return splice(src, n, func(child *sitter.Node) (string, bool) {
			return f.flatten(src, child, sc, depth), true
		})

	case "call_expression":
		callee := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")
		return splice(src, n, func(child *sitter.Node) (string, bool) {
			switch {
			case sameNode(child, callee):
				if callee.Type() != "member_expression" || f.isNamespaced(src, callee.ChildByFieldName("object")) {
					return "", false
				}
				return f.flatten(src, callee, sc, depth), true
			case sameNode(child, args):
				return splice(src, args, func(arg *sitter.Node) (string, bool) {
					return f.flatten(src, arg, sc, depth), true
				}), true
			}
			return "", false
		})

	case "member_expression":
		object := n.ChildByFieldName("object")
		return splice(src, n, func(child *sitter.Node) (string, bool) {
			if !sameNode(child, object) {
				return "", false
			}
			return f.wrap(src, object, f.flatten(src, object, sc, depth)), true
		})

	case "parenthesized_expression":
		return splice(src, n, func(child *sitter.Node) (string, bool) {
			return f.flatten(src, child, sc, depth+1), true
		})
	}
	return text
}

// property rewrites one member of an object literal.
func (f *Flattener) property(src *parser.Source, n *sitter.Node, sc *scope, depth int) (string, bool) {
	switch n.Type() {
	case "pair":
		key := n.ChildByFieldName("key")
		value := n.ChildByFieldName("value")
		if key == nil || value == nil {
			return "", false
		}
		return renderKey(src, key) + ": " + f.flatten(src, value, sc, depth), true

	case "shorthand_property_identifier":
		name := src.Text(n)
		if inlined, ok := f.inline(name, sc, depth); ok {
			return name + ": " + inlined, true
		}
		return "", false

	case "spread_element":
		return splice(src, n, func(child *sitter.Node) (string, bool) {
			return f.flatten(src, child, sc, depth), true
		}), true
	}
	return "", false
}

// inline resolves name to the flattened text of its initializer.
func (f *Flattener) inline(name string, sc *scope, depth int) (string, bool) {
	if !f.inlinable(name) {
		return "", false
	}

	f.resolving = append(f.resolving, name)
	defer func() { f.resolving = f.resolving[:len(f.resolving)-1] }()

	if sc.src != nil {
		if init, ok := resolve.FindInitializer(sc.src, name); ok {
			return f.flatten(sc.src, init, sc, depth+1), true
		}
	}

	decl, ok := sc.imports[name]
	if !ok {
		f.log.Debug().Str("name", name).Msg("identifier not found in scope")
		return "", false
	}
	declSrc, err := f.arena.Parse(decl.Path)
	if err != nil {
		f.log.Warn().Err(err).Str("name", name).Msg("cannot parse declaring file")
		return "", false
	}
	init, ok := resolve.FindInitializer(declSrc, decl.Name)
	if !ok {
		f.log.Debug().Str("name", name).Str("file", decl.Path).Msg("declaration has no initializer")
		return "", false
	}

	next := &scope{src: declSrc, imports: f.importMap(decl.Path)}
	return f.flatten(declSrc, init, next, depth+1), true
}

func (f *Flattener) inlinable(name string) bool {
	if name == f.namespace {
		return false
	}
	if _, ok := f.importable[name]; ok {
		return false
	}
	for _, open := range f.resolving {
		if open == name {
			return false
		}
	}
	return true
}

// isNamespaced reports whether base is the validator namespace or a plain
// property path on it, such as z.coerce.
func (f *Flattener) isNamespaced(src *parser.Source, base *sitter.Node) bool {
	switch {
	case base == nil:
		return false
	case base.Type() == "identifier":
		return src.Text(base) == f.namespace
	case base.Type() == "member_expression":
		return f.isNamespaced(src, base.ChildByFieldName("object"))
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte() &&
		a.Type() == b.Type()
}

// wrap parenthesizes inlined text that would otherwise bind looser than a
// member access.
func (f *Flattener) wrap(src *parser.Source, original *sitter.Node, text string) string {
	if text == src.Text(original) || !needsParens(f.arena.Parser(), text) {
		return text
	}
	return "(" + text + ")"
}

func renderKey(src *parser.Source, key *sitter.Node) string {
	if key.Type() == "string" {
		name, _ := src.PropertyName(key)
		return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
	}
	return src.Text(key)
}

// splice rebuilds the text of n, replacing the named children for which
// replace reports true.
func splice(src *parser.Source, n *sitter.Node, replace func(child *sitter.Node) (string, bool)) string {
	var b strings.Builder
	cursor := n.StartByte()
	for _, child := range parser.NamedChildren(n) {
		repl, ok := replace(child)
		if !ok {
			continue
		}
		b.WriteString(src.Slice(cursor, child.StartByte()))
		b.WriteString(repl)
		cursor = child.EndByte()
	}
	b.WriteString(src.Slice(cursor, n.EndByte()))
	return b.String()
}

// needsParens reports whether an expression must be wrapped before a
// property access is appended to it.
func needsParens(p *parser.Parser, text string) bool {
	_, expr, err := p.ParseExpression(text)
	if err != nil {
		return true
	}
	switch expr.Type() {
	case "identifier", "member_expression", "call_expression", "subscript_expression",
		"parenthesized_expression", "object", "array", "string", "template_string",
		"number", "true", "false", "null", "this":
		return false
	}
	return true
}
