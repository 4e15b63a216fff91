package trpcgen

import (
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/arjunmahishi/trpcgen/extract"
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/scanner"
	"github.com/arjunmahishi/trpcgen/types"
)

// FileReport is the output format for inspection of one file.
type FileReport struct {
	File        string                 `json:"file"`
	Routers     []types.RouterMetadata `json:"routers,omitempty"`
	Middlewares []types.MiddlewareInfo `json:"middlewares,omitempty"`
	Contexts    []types.ContextInfo    `json:"contexts,omitempty"`
	Module      *types.ModuleOptions   `json:"module,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

func (r FileReport) empty() bool {
	return len(r.Routers) == 0 && len(r.Middlewares) == 0 && len(r.Contexts) == 0 &&
		r.Module == nil && r.Error == ""
}

// Inspect reports the routers, middlewares, context factories and module
// options declared in TypeScript files. Files declaring none are left out.
func Inspect(opts InspectOptions) ([]FileReport, error) {
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Pattern == "" {
		opts.Pattern = "**/*.ts"
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 2 * 1024 * 1024
	}

	sc, err := scanner.New(scanner.Config{
		Root:     opts.Path,
		Pattern:  opts.Pattern,
		MaxBytes: opts.MaxBytes,
	})
	if err != nil {
		return nil, err
	}

	var files []types.FileJob
	if opts.File != "" {
		job, err := sc.CollectSingle(opts.File)
		if err != nil {
			return nil, err
		}
		files = []types.FileJob{job}
	} else {
		files, err = sc.Collect()
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return []FileReport{}, nil
	}

	opts.Logger.Debug().Int("files", len(files)).Int("jobs", opts.Jobs).Msg("inspecting files")
	reports := runWorkers(files, opts.Jobs, inspectFile)
	sort.Slice(reports, func(i, j int) bool { return reports[i].File < reports[j].File })
	return reports, nil
}

// inspectFile builds the report of one parsed file.
func inspectFile(job types.FileJob, src *parser.Source, err error) (FileReport, bool) {
	report := FileReport{File: job.DisplayPath}
	if err != nil {
		report.Error = err.Error()
		return report, true
	}

	for _, router := range extract.Routers(src) {
		router.File = job.DisplayPath
		report.Routers = append(report.Routers, router)
	}

	for _, decl := range src.TopLevel() {
		if !decl.IsClass() {
			continue
		}
		name := src.ClassName(decl)
		if mw, ok := extract.Middleware(src, name); ok {
			mw.File = job.DisplayPath
			report.Middlewares = append(report.Middlewares, *mw)
		}
		if ctx, ok := extract.Context(src, name); ok {
			ctx.File = job.DisplayPath
			report.Contexts = append(report.Contexts, *ctx)
		}
	}

	if module, ok := extract.ModuleOptions(src); ok {
		if file, ok := extract.ContextFile(src, module.Context); ok && module.Context != "" {
			module.ContextFile = displayPath(job, file)
		}
		report.Module = module
	}
	return report, !report.empty()
}

// displayPath renders file relative to the scan root, using the display
// path of job as the anchor.
func displayPath(job types.FileJob, file string) string {
	rel, err := filepath.Rel(filepath.Dir(job.AbsPath), file)
	if err != nil {
		return file
	}
	return path.Join(path.Dir(job.DisplayPath), filepath.ToSlash(rel))
}

// runWorkers parses files on a pool of workers, each owning its own parser,
// and collects what process returns for them. Results arrive in completion
// order.
func runWorkers[T any](
	files []types.FileJob,
	jobs int,
	process func(types.FileJob, *parser.Source, error) (T, bool),
) []T {
	results := make(chan T, 128)
	jobQueue := make(chan types.FileJob, 128)
	var wg sync.WaitGroup

	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	worker := func() {
		defer wg.Done()
		p := parser.New()
		for job := range jobQueue {
			src, err := p.ParseFile(job.AbsPath)
			if result, ok := process(job, src, err); ok {
				results <- result
			}
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		for _, f := range files {
			jobQueue <- f
		}
		close(jobQueue)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []T
	for result := range results {
		all = append(all, result)
	}
	return all
}
