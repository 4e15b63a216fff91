package resolve

import (
	"path/filepath"
	"strings"

	"github.com/arjunmahishi/trpcgen/parser"
)

// DetectCircularImports walks relative imports and re-exports depth first
// from file and returns every cycle found, formatted as "a -> b -> a" with
// paths relative to the directory of file. Files that fail to parse are
// skipped.
func (r *Resolver) DetectCircularImports(file string) []string {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	t := &cycleTracker{
		resolver: r,
		base:     filepath.Dir(file),
		visited:  make(map[string]bool),
	}
	t.visit(filepath.Clean(file))
	return t.cycles
}

type cycleTracker struct {
	resolver *Resolver
	base     string
	visited  map[string]bool
	stack    []string
	cycles   []string
}

func (t *cycleTracker) visit(path string) {
	for i, open := range t.stack {
		if open != path {
			continue
		}
		parts := make([]string, 0, len(t.stack)-i+1)
		for _, p := range t.stack[i:] {
			parts = append(parts, t.display(p))
		}
		parts = append(parts, t.display(path))
		t.cycles = append(t.cycles, strings.Join(parts, " -> "))
		return
	}
	if t.visited[path] {
		return
	}

	src, err := t.resolver.arena.Parse(path)
	if err != nil {
		t.resolver.log.Debug().Err(err).Str("file", path).Msg("skipping file in cycle detection")
		return
	}

	t.stack = append(t.stack, path)
	for _, spec := range t.resolver.moduleSpecifiers(src) {
		if !parser.IsRelativeSpecifier(spec) {
			continue
		}
		if target, ok := ResolveModulePath(src.Dir(), spec); ok {
			t.visit(filepath.Clean(target))
		}
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.visited[path] = true
}

func (t *cycleTracker) display(path string) string {
	if rel, err := filepath.Rel(t.base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// moduleSpecifiers returns the sources of every import and re-export of src.
func (r *Resolver) moduleSpecifiers(src *parser.Source) []string {
	q, ok := r.queries[src.Lang.Name()]
	if !ok {
		var err error
		q, err = parser.NewQuery(src.Lang.ImportsQuery(), src.Lang)
		if err != nil {
			r.log.Error().Err(err).Str("language", src.Lang.Name()).Msg("invalid imports query")
			return nil
		}
		r.queries[src.Lang.Name()] = q
	}

	var specs []string
	for _, capture := range q.Run(src) {
		if capture.Name == "source" {
			specs = append(specs, src.ModuleName(capture.Node))
		}
	}
	return specs
}
