package main

import (
	"context"
	"os"

	"github.com/arjunmahishi/trpcgen/output"
	"github.com/arjunmahishi/trpcgen/parser"
	"github.com/arjunmahishi/trpcgen/resolve"
	"github.com/urfave/cli/v3"
)

func cyclesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cycles",
		Usage: "report circular relative imports reachable from a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "file to start from",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
		},
		Action: runCycles,
	}
}

type cyclesOutput struct {
	File   string   `json:"file"`
	Cycles []string `json:"cycles"`
}

func runCycles(_ context.Context, cmd *cli.Command) error {
	file := cmd.String("file")
	if _, err := os.Stat(file); err != nil {
		return reportFailure(cmd, err)
	}

	r := resolve.New(parser.NewArena(nil), resolve.Options{Logger: newLogger(cmd)})
	cycles := r.DetectCircularImports(file)

	if cmd.Bool("json") {
		if cycles == nil {
			cycles = []string{}
		}
		return writeJSON(cyclesOutput{File: file, Cycles: cycles}, false)
	}
	output.NewReporter(os.Stdout, os.Stderr).Cycles(file, cycles)
	return nil
}
