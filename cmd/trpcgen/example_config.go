package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/urfave/cli/v3"
)

//go:embed trpcgen.example.toml
var exampleConfig string

func exampleConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "example-config",
		Usage: "print an annotated trpcgen.toml with every setting at its default",
		Description: "Examples:\n" +
			"  trpcgen example-config > trpcgen.toml",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Print(exampleConfig)
			return nil
		},
	}
}
