// Package generator renders the aggregate tRPC server module from router
// metadata.
package generator

import (
	"fmt"
	"strings"

	"github.com/arjunmahishi/trpcgen/types"
)

// Placeholder is the resolver body emitted for every procedure.
const Placeholder = "PLACEHOLDER_DO_NOT_REMOVE"

// Options controls the generated code style.
type Options struct {
	SingleQuotes bool
	NoSemicolons bool

	// Transformer, when set, is imported and passed to initTRPC.create.
	Transformer *types.TransformerInfo
}

// Generator renders server modules. Generate is pure: identical inputs
// produce identical output.
type Generator struct {
	opts Options
}

// New creates a generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

func (g *Generator) quote(s string) string {
	if g.opts.SingleQuotes {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

func (g *Generator) term() string {
	if g.opts.NoSemicolons {
		return ""
	}
	return ";"
}

// Generate renders the server module that will be written to outputPath.
func (g *Generator) Generate(routers []types.RouterMetadata, locations types.SchemaLocations, outputPath string) string {
	var b strings.Builder
	term := g.term()

	fmt.Fprintf(&b, "import { initTRPC } from %s%s\n", g.quote("@trpc/server"), term)
	fmt.Fprintf(&b, "import { z } from %s%s\n", g.quote("zod"), term)
	if tr := g.opts.Transformer; tr != nil {
		b.WriteString(g.transformerImport(*tr))
		b.WriteByte('\n')
	}
	imports := groupImports(routers, locations, outputPath)
	for _, group := range imports {
		fmt.Fprintf(&b, "import { %s } from %s%s\n", strings.Join(group.Names, ", "), g.quote(group.Path), term)
	}
	b.WriteByte('\n')

	b.WriteString(g.initDeclaration())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "const publicProcedure = t.procedure%s\n", term)

	names := newNamer(g.reserved(imports))
	consts := make([]string, len(routers))
	for i, router := range routers {
		consts[i] = names.claim(LowerCamel(router.Name))
		b.WriteByte('\n')
		b.WriteString(g.routerBlock(consts[i], router))
	}

	b.WriteByte('\n')
	b.WriteString(g.appRouter(routers, consts))
	return b.String()
}

func (g *Generator) transformerImport(tr types.TransformerInfo) string {
	if tr.Default {
		return fmt.Sprintf("import %s from %s%s", tr.Name, g.quote(tr.Package), g.term())
	}
	return fmt.Sprintf("import { %s } from %s%s", tr.Name, g.quote(tr.Package), g.term())
}

func (g *Generator) initDeclaration() string {
	if tr := g.opts.Transformer; tr != nil {
		return fmt.Sprintf("const t = initTRPC.create({ transformer: %s })%s", tr.Name, g.term())
	}
	return "const t = initTRPC.create()" + g.term()
}

func (g *Generator) routerBlock(name string, router types.RouterMetadata) string {
	if len(router.Procedures) == 0 {
		return fmt.Sprintf("const %s = t.router({})%s\n", name, g.term())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "const %s = t.router({\n", name)
	for _, p := range router.Procedures {
		fmt.Fprintf(&b, "  %s: %s,\n", p.Name, g.procedure(p))
	}
	fmt.Fprintf(&b, "})%s\n", g.term())
	return b.String()
}

func (g *Generator) procedure(p types.ProcedureMetadata) string {
	var b strings.Builder
	b.WriteString("publicProcedure")
	if p.HasInput() {
		fmt.Fprintf(&b, ".input(%s)", p.Input)
	}
	if p.HasOutput() {
		fmt.Fprintf(&b, ".output(%s)", p.Output)
	}
	fmt.Fprintf(&b, ".%s(async () => %s as any)", p.Kind, g.quote(Placeholder))
	return b.String()
}

// appRouter renders the exported router. Routers that share a key are
// merged in scan order.
func (g *Generator) appRouter(routers []types.RouterMetadata, consts []string) string {
	var keys []string
	members := make(map[string][]string)
	for i, router := range routers {
		key := RouterKey(router)
		if _, ok := members[key]; !ok {
			keys = append(keys, key)
		}
		members[key] = append(members[key], consts[i])
	}

	var b strings.Builder
	b.WriteString("export const appRouter = t.router({\n")
	for _, key := range keys {
		value := members[key][0]
		if len(members[key]) > 1 {
			value = "t.mergeRouters(" + strings.Join(members[key], ", ") + ")"
		}
		fmt.Fprintf(&b, "  %s: %s,\n", objectKey(key, g.quote), value)
	}
	fmt.Fprintf(&b, "})%s\n", g.term())
	fmt.Fprintf(&b, "export type AppRouter = typeof appRouter%s\n", g.term())
	return b.String()
}

// reserved lists the module-level names router constants must not shadow.
func (g *Generator) reserved(imports []importGroup) []string {
	names := []string{"t", "z", "initTRPC", "publicProcedure", "appRouter", "AppRouter"}
	if tr := g.opts.Transformer; tr != nil {
		names = append(names, tr.Name)
	}
	for _, group := range imports {
		names = append(names, group.Names...)
	}
	return names
}

// RouterKey returns the key of a router in the app router: its alias, or
// the lower-camel class name.
func RouterKey(router types.RouterMetadata) string {
	if router.Alias != "" {
		return router.Alias
	}
	return LowerCamel(router.Name)
}

// objectKey quotes keys that are not valid identifiers.
func objectKey(key string, quote func(string) string) string {
	if isIdentifier(key) {
		return key
	}
	return quote(strings.ReplaceAll(key, `"`, `\"`))
}
