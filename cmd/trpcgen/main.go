package main

import (
	"context"
	"os"
	"time"

	"github.com/arjunmahishi/trpcgen/config"
	"github.com/arjunmahishi/trpcgen/output"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "trpcgen",
		Usage: "generate a tRPC server module from decorated NestJS routers",

		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "increase log verbosity (-v info, -vv debug, -vvv trace)",
				Config:  cli.BoolConfig{Count: new(int)},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			watchCommand(),
			inspectCommand(),
			cyclesCommand(),
			exampleConfigCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		output.WriteError(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes human readable logs to stderr. Warnings are shown by
// default; each -v lowers the level by one.
func newLogger(cmd *cli.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	switch v := cmd.Count("verbose"); {
	case v >= 3:
		level = zerolog.TraceLevel
	case v == 2 || cmd.Bool("debug"):
		level = zerolog.DebugLevel
	case v == 1:
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// loadConfig reads --config, or the config file of the working directory
// when there is one.
func loadConfig(cmd *cli.Command, log zerolog.Logger) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, path, err := config.LoadDir(wd)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Debug().Str("config", path).Msg("loaded config")
	}
	return cfg, nil
}

// reportFailure prints err the way the command was asked to print results
// and exits with status 1.
func reportFailure(cmd *cli.Command, err error) error {
	if cmd.Bool("json") {
		output.WriteError(os.Stderr, err)
	} else {
		output.NewReporter(os.Stdout, os.Stderr).Error(err)
	}
	return cli.Exit("", 1)
}

func writeJSON(v any, compact bool) error {
	return output.New(output.Config{Compact: compact, Output: os.Stdout}).Write(v)
}
