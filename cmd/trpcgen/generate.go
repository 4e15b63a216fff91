package main

import (
	"context"
	"os"

	"github.com/arjunmahishi/trpcgen/config"
	"github.com/arjunmahishi/trpcgen/output"
	"github.com/arjunmahishi/trpcgen/trpcgen"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func generationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "entrypoint",
			Aliases: []string{"e"},
			Usage:   "module calling TRPCModule.forRoot (discovered when omitted)",
		},
		&cli.StringFlag{
			Name:    "router-pattern",
			Aliases: []string{"r"},
			Usage:   "glob selecting router files below the entrypoint directory",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output directory, or a .ts file path",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to trpcgen.toml or trpcgen.yaml",
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate the server module once",
		Flags: append(generationFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "show what would change without writing",
			},
		),
		Action: runGenerate,
	}
}

// generateOptions merges the config file with the flags; flags win.
func generateOptions(cmd *cli.Command, cfg *config.Config, log zerolog.Logger) trpcgen.GenerateOptions {
	opts := trpcgen.GenerateOptions{
		EntryPoint:     cfg.Generation.RootModule,
		Output:         cfg.Generation.OutputPath,
		RouterPattern:  cfg.Generation.RouterPattern,
		MaxImportDepth: cfg.Parsing.MaxImportDepth,
		MaxSchemaDepth: cfg.Parsing.MaxSchemaDepth,
		Namespace:      cfg.Parsing.Namespace,
		SingleQuotes:   cfg.Generation.SingleQuotes,
		NoSemicolons:   !cfg.Generation.UseSemicolons(),
		Logger:         log,
	}
	if cmd.IsSet("entrypoint") {
		opts.EntryPoint = cmd.String("entrypoint")
	}
	if cmd.IsSet("router-pattern") {
		opts.RouterPattern = cmd.String("router-pattern")
	}
	if cmd.IsSet("output") {
		opts.Output = cmd.String("output")
	}
	return opts
}

func runGenerate(_ context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return reportFailure(cmd, err)
	}
	opts := generateOptions(cmd, cfg, log)

	if cmd.Bool("dry-run") {
		return runDryRun(cmd, opts)
	}

	result, err := trpcgen.Generate(opts)
	if err != nil {
		return reportFailure(cmd, err)
	}

	if cmd.Bool("json") {
		return writeJSON(result, false)
	}
	output.NewReporter(os.Stdout, os.Stderr).Summary(result)
	return nil
}

func runDryRun(cmd *cli.Command, opts trpcgen.GenerateOptions) error {
	result, err := trpcgen.Render(opts)
	if err != nil {
		return reportFailure(cmd, err)
	}

	diff, err := trpcgen.DiffOutput(result.OutputPath, result.Content)
	if err != nil {
		return reportFailure(cmd, err)
	}

	if cmd.Bool("json") {
		return writeJSON(trpcgen.NewDryRunReport(result, diff), false)
	}

	output.NewReporter(os.Stdout, os.Stderr).DryRun(result, diff)
	return nil
}
