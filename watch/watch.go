// Package watch reruns generation when TypeScript sources change.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config configures a Watcher.
type Config struct {
	// Debounce is the quiet period after the last event before a batch of
	// changes is delivered.
	Debounce time.Duration

	// MinInterval is the minimum time between two deliveries.
	MinInterval time.Duration

	// ExcludeDirs and ExcludeFiles are globs matched against base names.
	ExcludeDirs  []string
	ExcludeFiles []string

	// Ignore lists files and directories whose changes are never reported,
	// such as the generated output.
	Ignore []string

	Logger zerolog.Logger
}

// Watcher batches file system events below a set of roots.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	debounce     time.Duration
	limiter      *rate.Limiter
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	ignore       []string
	onChange     func(context.Context, []string)
	callbackMu   sync.Mutex
	log          zerolog.Logger

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

// New creates a watcher delivering changed paths to onChange, sorted.
// Deliveries never overlap.
func New(cfg Config, onChange func(context.Context, []string)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("onChange is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}

	excludeDirs, err := compileAll(cfg.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	excludeFiles, err := compileAll(cfg.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	ignore := make([]string, 0, len(cfg.Ignore))
	for _, path := range cfg.Ignore {
		if abs, err := filepath.Abs(path); err == nil {
			ignore = append(ignore, abs)
		}
	}

	return &Watcher{
		fsWatcher:    fsw,
		debounce:     cfg.Debounce,
		limiter:      rate.NewLimiter(limit, 1),
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
		ignore:       ignore,
		onChange:     onChange,
		log:          cfg.Logger,
		pending:      make(map[string]struct{}),
	}, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// Run watches roots recursively until ctx is done.
func (w *Watcher) Run(ctx context.Context, roots ...string) error {
	defer w.close()
	for _, root := range roots {
		if err := w.watchRecursive(root); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ShouldExcludeDir(event.Name) {
				if err := w.watchRecursive(event.Name); err != nil {
					w.log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				}
			}
			return
		}
	}

	if !w.ShouldWatchFile(event.Name) {
		w.log.Trace().Str("path", event.Name).Msg("ignoring change")
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.scheduleChange(ctx, event.Name)
	}
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ShouldExcludeDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) scheduleChange(ctx context.Context, path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges(ctx)
	})
}

func (w *Watcher) flushChanges(ctx context.Context) {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	w.onChange(ctx, paths)
}

// ShouldExcludeDir reports whether a directory is left unwatched.
func (w *Watcher) ShouldExcludeDir(path string) bool {
	if w.ignored(path) {
		return true
	}
	base := filepath.Base(path)
	if base == "node_modules" {
		return true
	}
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ShouldWatchFile reports whether a change to path triggers a run: it must
// be a TypeScript file outside ignored paths and node_modules.
func (w *Watcher) ShouldWatchFile(path string) bool {
	if w.ignored(path) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "node_modules" {
			return false
		}
	}

	base := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".ts", ".tsx":
	default:
		return false
	}
	for _, g := range w.excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ignore := range w.ignore {
		if abs == ignore || strings.HasPrefix(abs, ignore+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) close() {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	_ = w.fsWatcher.Close()
}
