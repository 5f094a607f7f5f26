package main

import (
	"context"
	"os"

	"github.com/savaki/buildconsole/cmd/buildconsole/commands"
	"github.com/savaki/buildconsole/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "buildconsole",
		Usage: "Inspect environment builds on a build server",
		Description: `A CLI for browsing the packages and environment variables of environment builds.

This tool provides commands for:
  - Listing the packages resolved for a build, one page at a time or all at once
  - Showing and replacing the environment variables declared by a build
  - Serving the same queries over GraphQL`,
		Flags: commands.GlobalFlags(),
		Commands: []*cli.Command{
			commands.PackagesCommand(&logger),
			commands.VariablesCommand(&logger),
			commands.ServeCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
