// Package scanner discovers router files for a generation run.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arjunmahishi/trpcgen/types"
	"github.com/gobwas/glob"
)

// DefaultPattern matches router files anywhere below the root.
const DefaultPattern = "**/*.router.ts"

// DefaultIgnoreDirs returns the default list of directories to ignore.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		"node_modules": {},
		"vendor":       {},
		"dist":         {},
		"build":        {},
		"target":       {},
		"coverage":     {},
		"__pycache__":  {},
	}
}

// Config holds scanner configuration.
type Config struct {
	Root string

	// Pattern is a glob matched against slash-separated paths relative to
	// Root. A leading "**/" also matches files directly in Root.
	Pattern string

	// IgnoreDirs are skipped by name in addition to hidden directories.
	IgnoreDirs map[string]struct{}

	// MaxBytes skips files larger than this size. Zero means no limit.
	MaxBytes int64
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg      Config
	patterns []glob.Glob
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) (*Scanner, error) {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}

	sources := []string{cfg.Pattern}
	if rest, ok := strings.CutPrefix(cfg.Pattern, "**/"); ok {
		sources = append(sources, rest)
	}

	s := &Scanner{cfg: cfg}
	for _, src := range sources {
		g, err := glob.Compile(src, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid router pattern %q: %w", cfg.Pattern, err)
		}
		s.patterns = append(s.patterns, g)
	}
	return s, nil
}

// Match reports whether a slash-separated path relative to the root matches
// the pattern.
func (s *Scanner) Match(rel string) bool {
	for _, g := range s.patterns {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Collect finds all matching files sorted by relative path.
func (s *Scanner) Collect() ([]types.FileJob, error) {
	absRoot, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var jobs []types.FileJob
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.ShouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !s.Match(rel) {
			return nil
		}

		if s.cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.MaxBytes {
				return nil
			}
		}

		jobs = append(jobs, types.FileJob{
			AbsPath:     path,
			DisplayPath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].DisplayPath < jobs[j].DisplayPath })
	return jobs, nil
}

// CollectSingle returns a single file as a FileJob.
func (s *Scanner) CollectSingle(filePath string) (types.FileJob, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return types.FileJob{}, fmt.Errorf("resolve path: %w", err)
	}

	return types.FileJob{
		AbsPath:     absPath,
		DisplayPath: filepath.Base(absPath),
	}, nil
}

// ShouldIgnoreDir reports whether a directory is skipped while scanning.
func (s *Scanner) ShouldIgnoreDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}
