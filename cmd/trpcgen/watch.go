package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arjunmahishi/trpcgen/output"
	"github.com/arjunmahishi/trpcgen/trpcgen"
	"github.com/arjunmahishi/trpcgen/watch"
	"github.com/urfave/cli/v3"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "regenerate the server module whenever a TypeScript file changes",
		Description: "Runs one generation, then watches the directory of the entrypoint.\n" +
			"Changes are debounced and batched; a failed generation is reported and\n" +
			"watching continues.",
		Flags:  generationFlags(),
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return reportFailure(cmd, err)
	}
	opts := generateOptions(cmd, cfg, log)
	reporter := output.NewReporter(os.Stdout, os.Stderr)

	wd, err := os.Getwd()
	if err != nil {
		return reportFailure(cmd, err)
	}
	// Pin the entrypoint so every rerun watches and scans the same tree.
	if opts.EntryPoint == "" {
		entry, err := trpcgen.FindRootModule(wd, log)
		if err != nil {
			return reportFailure(cmd, err)
		}
		opts.EntryPoint = entry
	}
	if !filepath.IsAbs(opts.EntryPoint) {
		opts.EntryPoint = filepath.Join(wd, opts.EntryPoint)
	}

	result, err := trpcgen.Generate(opts)
	if err != nil {
		reporter.Error(err)
	} else {
		reporter.Summary(result)
	}

	outDir := opts.Output
	if outDir == "" {
		outDir = trpcgen.DefaultOutputPath
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(wd, outDir)
	}
	// A directory output is ignored as a whole; a file output only by itself.
	ignore := []string{trpcgen.ServerPath(outDir)}
	if ignore[0] != outDir {
		ignore = append(ignore, outDir)
	}

	w, err := watch.New(watch.Config{
		Debounce:     cfg.Watch.Debounce,
		MinInterval:  cfg.Watch.MinInterval,
		ExcludeDirs:  cfg.Watch.ExcludeDirs,
		ExcludeFiles: cfg.Watch.ExcludeFiles,
		Ignore:       ignore,
		Logger:       log,
	}, func(_ context.Context, changed []string) {
		log.Info().Strs("files", changed).Msg("regenerating")
		result, err := trpcgen.Generate(opts)
		if err != nil {
			reporter.Error(err)
			return
		}
		reporter.Summary(result)
	})
	if err != nil {
		return reportFailure(cmd, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := filepath.Dir(opts.EntryPoint)
	log.Info().Str("root", root).Msg("watching for changes")
	if err := w.Run(ctx, root); err != nil {
		return reportFailure(cmd, err)
	}
	return nil
}
