// Package resolve follows identifiers through imports and barrel re-exports
// to the file that declares them.
package resolve

import (
	"fmt"

	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/types"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds re-export chains.
const DefaultMaxDepth = 10

// Options configures a Resolver.
type Options struct {
	// MaxDepth bounds re-export recursion. Zero means DefaultMaxDepth.
	MaxDepth int
	Logger   zerolog.Logger
}

// Resolver resolves exported names across files of one run. It shares the
// run's arena and is not safe for concurrent use.
type Resolver struct {
	arena    *parser.Arena
	maxDepth int
	log      zerolog.Logger
	queries  map[string]*parser.Query
}

// New creates a resolver reading files through arena.
func New(arena *parser.Arena, opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{
		arena:    arena,
		maxDepth: opts.MaxDepth,
		log:      opts.Logger,
		queries:  make(map[string]*parser.Query),
	}
}

// Arena returns the file cache used by the resolver.
func (r *Resolver) Arena() *parser.Arena {
	return r.arena
}

// Resolve finds the declaration of name as exported from file.
func (r *Resolver) Resolve(file, name string) (types.ResolvedDeclaration, error) {
	return r.resolve(file, name, 0)
}

func (r *Resolver) resolve(file, name string, depth int) (types.ResolvedDeclaration, error) {
	if depth >= r.maxDepth {
		return types.ResolvedDeclaration{}, &DepthExceededError{Name: name, MaxDepth: r.maxDepth}
	}

	src, err := r.arena.Parse(file)
	if err != nil {
		return types.ResolvedDeclaration{}, fmt.Errorf("resolve '%s': %w", name, err)
	}

	if decl, ok := FindDeclaration(src, name); ok {
		return decl, nil
	}

	if IsBarrel(file) {
		for _, re := range reExports(src) {
			target, ok := ResolveModulePath(src.Dir(), re.Source)
			if re.Star {
				if !ok {
					continue
				}
				if decl, err := r.resolve(target, name, depth+1); err == nil {
					return decl, nil
				}
				continue
			}
			if re.Exported != name {
				continue
			}
			if !ok {
				r.log.Debug().Str("file", file).Str("module", re.Source).Msg("re-exported module not found")
				continue
			}
			return r.resolve(target, re.Original, depth+1)
		}
	}

	return types.ResolvedDeclaration{}, &UnresolvedError{Name: name, Path: file}
}
