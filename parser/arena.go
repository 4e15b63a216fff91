package parser

import (
	"path/filepath"
)

// Arena caches parsed files by absolute path for the lifetime of one run.
// Failures are cached too, so a broken file is read once. An Arena is owned
// by a single run and is not safe for concurrent use.
type Arena struct {
	parser *Parser
	files  map[string]*Source
	failed map[string]error
}

// NewArena creates an empty arena backed by p.
func NewArena(p *Parser) *Arena {
	if p == nil {
		p = New()
	}
	return &Arena{
		parser: p,
		files:  make(map[string]*Source),
		failed: make(map[string]error),
	}
}

// Parser returns the parser used by the arena.
func (a *Arena) Parser() *Parser {
	return a.parser
}

// Parse returns the cached source for path, parsing it on first use.
func (a *Arena) Parse(path string) (*Source, error) {
	key := absPath(path)
	if src, ok := a.files[key]; ok {
		return src, nil
	}
	if err, ok := a.failed[key]; ok {
		return nil, err
	}

	src, err := a.parser.ParseFile(key)
	if err != nil {
		a.failed[key] = err
		return nil, err
	}
	a.files[key] = src
	return src, nil
}

// Add seeds the arena with an already parsed source.
func (a *Arena) Add(src *Source) {
	a.files[absPath(src.Path)] = src
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
