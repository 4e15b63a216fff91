package main

import (
	"context"
	"fmt"

	"github.com/arjunmahishi/trpcgen/trpcgen"
	"github.com/urfave/cli/v3"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "list routers, middlewares, contexts and modules found in TypeScript files",
		Description: "Parses files in parallel and reports what the generator would see.\n" +
			"Files with nothing to report are left out.\n\n" +
			"Examples:\n" +
			"  trpcgen inspect --path src\n" +
			"  trpcgen inspect --file src/user/user.router.ts\n" +
			"  trpcgen inspect --path src --pattern '**/*.router.ts' --compact",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Value:   ".",
				Usage:   "directory to scan",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "inspect a single file",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "glob selecting files to inspect",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "number of parallel workers (0 = number of CPUs)",
			},
			&cli.Int64Flag{
				Name:  "max-bytes",
				Usage: "skip files larger than this many bytes",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "print compact JSON",
			},
		},
		Action: runInspect,
	}
}

func runInspect(_ context.Context, cmd *cli.Command) error {
	if cmd.Int("jobs") < 0 {
		return reportFailure(cmd, fmt.Errorf("--jobs must not be negative"))
	}

	reports, err := trpcgen.Inspect(trpcgen.InspectOptions{
		Path:     cmd.String("path"),
		File:     cmd.String("file"),
		Pattern:  cmd.String("pattern"),
		Jobs:     cmd.Int("jobs"),
		MaxBytes: cmd.Int64("max-bytes"),
		Logger:   newLogger(cmd),
	})
	if err != nil {
		return reportFailure(cmd, err)
	}
	if reports == nil {
		reports = []trpcgen.FileReport{}
	}
	return writeJSON(reports, cmd.Bool("compact"))
}
