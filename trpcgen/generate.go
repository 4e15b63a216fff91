// Package trpcgen runs the generation pipeline: it scans router files,
// extracts their metadata, flattens their schemas and writes the server
// module.
package trpcgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arjunmahishi/trpcgen/extract"
	"github.com/arjunmahishi/trpcgen/generator"
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/resolve"
	"github.com/arjunmahishi/trpcgen/scanner"
	"github.com/arjunmahishi/trpcgen/schema"
	"github.com/arjunmahishi/trpcgen/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GenerationResult summarises one run.
type GenerationResult struct {
	RunID          string              `json:"run_id"`
	RootModule     string              `json:"root_module"`
	OutputPath     string              `json:"output_path"`
	RouterCount    int                 `json:"router_count"`
	ProcedureCount int                 `json:"procedure_count"`
	Duration       time.Duration       `json:"duration"`
	Skipped        []types.SkippedFile `json:"skipped,omitempty"`

	// Routers are the extracted routers after schema flattening.
	Routers []types.RouterMetadata `json:"-"`

	// Content is the generated module text.
	Content string `json:"-"`
}

// Generate renders the server module and writes it to the output path.
func Generate(opts GenerateOptions) (*GenerationResult, error) {
	result, err := Render(opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(result.OutputPath), 0755); err != nil {
		return nil, &Error{Kind: KindWriteFailed, Message: "failed to create output directory", Path: filepath.Dir(result.OutputPath), Err: err}
	}
	if err := os.WriteFile(result.OutputPath, []byte(result.Content), 0644); err != nil {
		return nil, &Error{Kind: KindWriteFailed, Message: "failed to write generated file", Path: result.OutputPath, Err: err}
	}

	opts.Logger.Info().
		Str("run", result.RunID).
		Str("output", result.OutputPath).
		Msg("generated server module")
	return result, nil
}

// Render runs the whole pipeline without touching the output file.
func Render(opts GenerateOptions) (*GenerationResult, error) {
	start := time.Now()
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Output == "" {
		opts.Output = DefaultOutputPath
	}
	if opts.RouterPattern == "" {
		opts.RouterPattern = scanner.DefaultPattern
	}
	if opts.Namespace == "" {
		opts.Namespace = schema.DefaultNamespace
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dir: %w", err)
	}

	entry := opts.EntryPoint
	if entry == "" {
		if entry, err = FindRootModule(dir, opts.Logger); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(entry) {
		entry = filepath.Join(dir, entry)
	}

	r := newRun(opts)
	result := &GenerationResult{
		RunID:      uuid.NewString(),
		RootModule: entry,
		OutputPath: ServerPath(absFrom(dir, opts.Output)),
	}
	r.log = r.log.With().Str("run", result.RunID).Logger()
	r.log.Info().Str("root_module", entry).Msg("found root module")

	jobs, err := r.scan(filepath.Dir(entry))
	if err != nil {
		return nil, err
	}

	sources, skipped := r.parse(jobs)
	result.Skipped = skipped
	if len(sources) == 0 {
		return nil, &Error{
			Kind:    KindNoParsedFiles,
			Message: fmt.Sprintf("failed to parse any router files, %d files had syntax errors", len(skipped)),
		}
	}

	routers, err := r.routers(sources)
	if err != nil {
		return nil, err
	}

	locations := r.schemaLocations(sources)
	r.flatten(routers, locations)

	gen := generator.New(generator.Options{
		SingleQuotes: opts.SingleQuotes,
		NoSemicolons: opts.NoSemicolons,
		Transformer:  r.transformer(entry),
	})
	result.Content = gen.Generate(routers, locations, result.OutputPath)
	result.Routers = routers
	result.RouterCount = len(routers)
	for _, router := range routers {
		result.ProcedureCount += len(router.Procedures)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// ServerPath returns the file a run writes to: output itself when it names
// a .ts or .tsx file, otherwise server.ts inside it.
func ServerPath(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".ts", ".tsx":
		return output
	}
	return filepath.Join(output, "server.ts")
}

func absFrom(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// run holds the state shared by the stages of one generation. Each run owns
// a fresh arena.
type run struct {
	opts     GenerateOptions
	arena    *parser.Arena
	resolver *resolve.Resolver
	log      zerolog.Logger
}

func newRun(opts GenerateOptions) *run {
	arena := parser.NewArena(parser.New())
	return &run{
		opts:  opts,
		arena: arena,
		resolver: resolve.New(arena, resolve.Options{
			MaxDepth: opts.MaxImportDepth,
			Logger:   opts.Logger,
		}),
		log: opts.Logger,
	}
}

func (r *run) scan(root string) ([]types.FileJob, error) {
	sc, err := scanner.New(scanner.Config{
		Root:     root,
		Pattern:  r.opts.RouterPattern,
		MaxBytes: r.opts.MaxBytes,
	})
	if err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Message: "invalid router pattern", Err: err}
	}

	jobs, err := sc.Collect()
	if err != nil {
		return nil, &Error{Kind: KindScanFailed, Message: "failed to scan for router files", Path: root, Err: err}
	}
	if len(jobs) == 0 {
		return nil, &Error{
			Kind:        KindNoRouterFiles,
			Message:     fmt.Sprintf("no router files found matching pattern '%s'", r.opts.RouterPattern),
			Path:        root,
			Suggestions: []string{"check that your router files exist and match the pattern"},
		}
	}

	r.log.Info().Int("count", len(jobs)).Str("pattern", r.opts.RouterPattern).Msg("found router files")
	for _, job := range jobs {
		r.log.Debug().Str("file", job.DisplayPath).Msg("found router file")
	}
	return jobs, nil
}

// parse parses every router file. Files that fail to parse are reported and
// left out of the run.
func (r *run) parse(jobs []types.FileJob) ([]*parser.Source, []types.SkippedFile) {
	var sources []*parser.Source
	var skipped []types.SkippedFile
	for _, job := range jobs {
		src, err := r.arena.Parse(job.AbsPath)
		if err == nil {
			sources = append(sources, src)
			continue
		}

		skip := types.SkippedFile{File: job.DisplayPath, Message: err.Error()}
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) {
			skip.Position = types.Position{Line: syntaxErr.Line, Column: syntaxErr.Column}
			skip.Message = syntaxErr.Message
		}
		skipped = append(skipped, skip)
		r.log.Warn().Err(err).Str("file", job.DisplayPath).Msg("skipping file")
	}

	r.log.Info().Int("parsed", len(sources)).Int("errors", len(skipped)).Msg("parsed router files")
	return sources, skipped
}

func (r *run) routers(sources []*parser.Source) ([]types.RouterMetadata, error) {
	var routers []types.RouterMetadata
	for _, src := range sources {
		for _, router := range extract.Routers(src) {
			r.log.Debug().
				Str("router", router.Name).
				Str("alias", router.Alias).
				Int("procedures", len(router.Procedures)).
				Msg("extracted router")
			routers = append(routers, router)
		}
	}

	if len(routers) == 0 {
		return nil, &Error{
			Kind:        KindNoRouters,
			Message:     fmt.Sprintf("no @Router decorated classes found in %d parsed files", len(sources)),
			Suggestions: []string{"decorate router classes with @Router from 'nestjs-trpc'"},
		}
	}
	return routers, nil
}

// transformer reads the data transformer registered by the root module.
func (r *run) transformer(entry string) *types.TransformerInfo {
	src, err := r.arena.Parse(entry)
	if err != nil {
		r.log.Debug().Err(err).Str("file", entry).Msg("root module not parsed")
		return nil
	}
	opts, ok := extract.ModuleOptions(src)
	if !ok || opts.Transformer == "" {
		return nil
	}
	tr, ok := extract.Transformer(src, opts.Transformer)
	if !ok {
		r.log.Warn().Str("transformer", opts.Transformer).Msg("transformer is not imported by the root module")
		return nil
	}
	return tr
}
