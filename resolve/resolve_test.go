package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
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
		tmpDir, err := os.MkdirTemp("", "trpcgen-resolve-*")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		files := make(map[string]string)

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
			case "resolve":
				return handleResolve(t, d, tmpDir, files)
			case "imports":
				return handleImports(t, d, tmpDir, files)
			case "cycles":
				return handleCycles(t, d, files)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

func newTestResolver() *Resolver {
	return New(parser.NewArena(parser.New()), Options{})
}

func handleResolve(
	t *testing.T, d *datadriven.TestData, tmpDir string, files map[string]string,
) string {
	var fileName, name string
	d.ScanArgs(t, "file", &fileName)
	d.ScanArgs(t, "name", &name)

	decl, err := newTestResolver().Resolve(files[fileName], name)
	if err != nil {
		return formatError(err)
	}
	return formatDecl(decl, tmpDir)
}

func handleImports(
	t *testing.T, d *datadriven.TestData, tmpDir string, files map[string]string,
) string {
	var fileName string
	d.ScanArgs(t, "file", &fileName)

	imports, err := newTestResolver().ImportMap(files[fileName])
	if err != nil {
		return formatError(err)
	}
	if len(imports) == 0 {
		return "(no imports)"
	}

	locals := make([]string, 0, len(imports))
	for local := range imports {
		locals = append(locals, local)
	}
	sort.Strings(locals)

	var lines []string
	for _, local := range locals {
		lines = append(lines, fmt.Sprintf("%s -> %s", local, formatDecl(imports[local], tmpDir)))
	}
	return strings.Join(lines, "\n")
}

func handleCycles(t *testing.T, d *datadriven.TestData, files map[string]string) string {
	var fileName string
	d.ScanArgs(t, "file", &fileName)

	cycles := newTestResolver().DetectCircularImports(files[fileName])
	if len(cycles) == 0 {
		return "(no cycles)"
	}
	return strings.Join(cycles, "\n")
}

func formatDecl(decl types.ResolvedDeclaration, tmpDir string) string {
	rel := strings.TrimPrefix(decl.Path, tmpDir+string(filepath.Separator))
	return fmt.Sprintf("%s:%s (%s)", filepath.ToSlash(rel), decl.Name, decl.Kind)
}

func formatError(err error) string {
	var depth *DepthExceededError
	switch {
	case errors.As(err, &depth):
		return "error: depth exceeded"
	case errors.Is(err, ErrNotFound):
		return "error: not found"
	}
	return fmt.Sprintf("error: %s", err)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestResolveModulePath(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"user.ts":          "export const a = 1;",
		"widget.tsx":       "export const b = 2;",
		"schemas/index.ts": "export * from './user';",
		"views/index.tsx":  "export const c = 3;",
		"data.json":        "{}",
	})

	cases := []struct {
		spec string
		want string
		ok   bool
	}{
		{spec: "./user", want: "user.ts", ok: true},
		{spec: "./user.ts", want: "user.ts", ok: true},
		{spec: "./user.js", want: "user.ts", ok: true},
		{spec: "./widget", want: "widget.tsx", ok: true},
		{spec: "./schemas", want: "schemas/index.ts", ok: true},
		{spec: "./views", want: "views/index.tsx", ok: true},
		{spec: "./data.json", want: "data.json", ok: true},
		{spec: "./missing", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			got, ok := ResolveModulePath(dir, tc.spec)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tc.want)), got)
			}
		})
	}
}

func TestResolveModulePathAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"abs.ts": "export const a = 1;"})

	got, ok := ResolveModulePath("/somewhere/else", filepath.Join(dir, "abs"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "abs.ts"), got)
}

// chain writes n nested barrels, each re-exporting Target from the next, with
// the declaration in the innermost directory.
func chain(t *testing.T, dir string, n int) string {
	t.Helper()
	files := make(map[string]string)
	path := ""
	for i := 0; i < n; i++ {
		path = filepath.Join(path, fmt.Sprintf("l%d", i))
		files[filepath.Join(path, "index.ts")] = fmt.Sprintf("export { Target } from './l%d';\n", i+1)
	}
	path = filepath.Join(path, fmt.Sprintf("l%d", n))
	files[filepath.Join(path, "index.ts")] = "export const Target = 1;\n"
	writeFiles(t, dir, files)
	return filepath.Join(dir, "l0", "index.ts")
}

func TestResolveDepthLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		entry := chain(t, t.TempDir(), 5)
		decl, err := newTestResolver().Resolve(entry, "Target")
		require.NoError(t, err)
		assert.Equal(t, "Target", decl.Name)
		assert.Equal(t, types.VariableDeclaration, decl.Kind)
	})

	t.Run("beyond limit", func(t *testing.T) {
		entry := chain(t, t.TempDir(), DefaultMaxDepth+2)
		_, err := newTestResolver().Resolve(entry, "Target")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))

		var depth *DepthExceededError
		require.True(t, errors.As(err, &depth))
		assert.Equal(t, DefaultMaxDepth, depth.MaxDepth)
	})

	t.Run("custom limit", func(t *testing.T) {
		entry := chain(t, t.TempDir(), 3)
		r := New(parser.NewArena(nil), Options{MaxDepth: 2})
		_, err := r.Resolve(entry, "Target")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestResolveMissingFile(t *testing.T) {
	_, err := newTestResolver().Resolve(filepath.Join(t.TempDir(), "nope.ts"), "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}

func TestExternalImports(t *testing.T) {
	p := parser.New()
	src, err := p.ParseSource("router.ts", []byte(`
import { z } from 'zod';
import superjson from 'superjson';
import { Router, Query as Q } from 'nestjs-trpc';
import { UserSchema } from './schemas';
`))
	require.NoError(t, err)

	assert.Equal(t, []ExternalImport{
		{Local: "z", Package: "zod"},
		{Local: "Router", Package: "nestjs-trpc"},
		{Local: "Q", Package: "nestjs-trpc"},
	}, ExternalImports(src))

	local, ok := DefaultImport(src, "superjson")
	require.True(t, ok)
	assert.Equal(t, "superjson", local)

	_, ok = DefaultImport(src, "zod")
	assert.False(t, ok)
}

func TestExportedVariables(t *testing.T) {
	p := parser.New()
	src, err := p.ParseSource("schemas.ts", []byte(`
export const A = 1, B = 2;
const hidden = 3;
export let C = 4;
export function notAVariable() {}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ExportedVariables(src))
}
