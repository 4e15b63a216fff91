package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		tmpDir, err := os.MkdirTemp("", "trpcgen-extract-*")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		files := make(map[string]string)
		p := parser.New()

		parse := func(t *testing.T, d *datadriven.TestData) *parser.Source {
			var fileName string
			d.ScanArgs(t, "file", &fileName)
			src, err := p.ParseFile(files[fileName])
			require.NoError(t, err)
			return src
		}

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				var name string
				d.ScanArgs(t, "name", &name)
				absPath := filepath.Join(tmpDir, name)
				require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0755))
				require.NoError(t, os.WriteFile(absPath, []byte(d.Input), 0644))
				files[name] = absPath
				return ""

			case "routers":
				return formatRouters(Routers(parse(t, d)))

			case "middleware":
				var class string
				d.ScanArgs(t, "class", &class)
				info, ok := Middleware(parse(t, d), class)
				if !ok {
					return "(not found)"
				}
				return formatMiddleware(info)

			case "context":
				var class string
				d.ScanArgs(t, "class", &class)
				info, ok := Context(parse(t, d), class)
				if !ok {
					return "(not found)"
				}
				return info.ReturnType

			case "module":
				src := parse(t, d)
				opts, ok := ModuleOptions(src)
				if !ok {
					return "(not found)"
				}
				return formatModule(src, opts, tmpDir)

			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

func formatRouters(routers []types.RouterMetadata) string {
	if len(routers) == 0 {
		return "(no routers)"
	}

	var lines []string
	for _, r := range routers {
		line := "router " + r.Name
		if r.Alias != "" {
			line += " alias=" + r.Alias
		}
		lines = append(lines, line)
		if len(r.Middlewares) > 0 {
			lines = append(lines, "  middlewares: "+strings.Join(r.Middlewares, ", "))
		}
		for _, p := range r.Procedures {
			lines = append(lines, fmt.Sprintf("  %s %s", p.Kind, p.Name))
			if p.HasInput() {
				lines = append(lines, "    input: "+schemaLine(p.Input, p.InputRef))
			}
			if p.HasOutput() {
				lines = append(lines, "    output: "+schemaLine(p.Output, p.OutputRef))
			}
			if len(p.Identifiers) > 0 {
				lines = append(lines, "    identifiers: "+strings.Join(p.Identifiers, ", "))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func schemaLine(text, ref string) string {
	if ref != "" {
		return text + " (ref)"
	}
	return text
}

func formatMiddleware(info *types.MiddlewareInfo) string {
	if len(info.Properties) == 0 {
		return "(no properties)"
	}
	var lines []string
	for _, prop := range info.Properties {
		lines = append(lines, fmt.Sprintf("%s: %s", prop.Name, prop.Type))
	}
	return strings.Join(lines, "\n")
}

func formatModule(src *parser.Source, opts *types.ModuleOptions, tmpDir string) string {
	lines := []string{
		"context: " + orNone(opts.Context),
		"autoSchemaFile: " + orNone(opts.AutoSchemaFile),
		"transformer: " + orNone(opts.Transformer),
	}
	if opts.Transformer != "" {
		if info, ok := Transformer(src, opts.Transformer); ok {
			lines = append(lines, fmt.Sprintf("transformer import: %s from %s (default=%t)", info.Name, info.Package, info.Default))
		}
	}
	if opts.Context != "" {
		if file, ok := ContextFile(src, opts.Context); ok {
			rel := strings.TrimPrefix(file, tmpDir+string(filepath.Separator))
			lines = append(lines, "context file: "+filepath.ToSlash(rel))
		}
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func TestProceduresByClass(t *testing.T) {
	src, err := parser.New().ParseSource("a.router.ts", []byte(`
@Router()
export class A {
  @Query()
  one() {}
}

class B {
  @Mutation({ input: z.string() })
  two() {}
}
`))
	require.NoError(t, err)

	procs := Procedures(src, "B")
	require.Len(t, procs, 1)
	assert.Equal(t, "two", procs[0].Name)
	assert.Equal(t, types.Mutation, procs[0].Kind)
	assert.Equal(t, "z.string()", procs[0].Input)
	assert.Empty(t, procs[0].InputRef)

	assert.Nil(t, Procedures(src, "Missing"))
}

func TestUseMiddlewares(t *testing.T) {
	src, err := parser.New().ParseSource("a.router.ts", []byte(`
@UseMiddlewares(AuthMiddleware, LoggingMiddleware)
@Router()
export class A {
  @UseMiddlewares(RateLimit, AuthMiddleware)
  @Query()
  one() {}
}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"AuthMiddleware", "LoggingMiddleware", "RateLimit"}, UseMiddlewares(src, "A"))
	assert.Nil(t, UseMiddlewares(src, "B"))
}

func TestTransformerNotImported(t *testing.T) {
	src, err := parser.New().ParseSource("app.module.ts", []byte(`import { Module } from '@nestjs/common';`))
	require.NoError(t, err)
	_, ok := Transformer(src, "superjson")
	assert.False(t, ok)
}
