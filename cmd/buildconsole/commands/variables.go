package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/di"
	"github.com/savaki/buildconsole/internal/environmentdetails"
	"github.com/savaki/buildconsole/internal/envvars"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/store"
	"github.com/urfave/cli/v2"
)

// VariablesCommand returns the variables command for showing the environment variables of a build
func VariablesCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "variables",
		Aliases: []string{"vars"},
		Usage:   "Show the environment variables declared by a build",
		Description: `Fetch a build and show the environment variables its specification declares.

Builds declared through a lockfile have no inline variables and show none.
--set replaces the loaded variables before they are printed; nothing is written to the server.

Examples:
  buildconsole variables --build-id 42
  buildconsole variables --build-id 42 --set FOO=bar --set DEBUG=1 --json`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "build-id",
				Aliases:  []string{"b"},
				Usage:    "Build identifier",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "KEY=VALUE pairs replacing the loaded variables",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			return variablesAction(c, logger)
		},
	}
}

func variablesAction(c *cli.Context, logger *zerolog.Logger) error {
	replacement, err := parseAssignments(c.StringSlice("set"))
	if err != nil {
		return err
	}

	container, err := setupContainer(c)
	if err != nil {
		return err
	}

	client := di.MustGet[*query.Client](container)
	defer client.Close()

	s := di.MustGet[*store.Store](container)
	slice := di.MustGet[*envvars.Slice](container)

	buildID := c.Int("build-id")
	resp, err := environmentdetails.GetBuild.Fetch(c.Context, client, environmentdetails.Args{BuildID: buildID})
	if err != nil {
		return fmt.Errorf("failed to get build: %w", err)
	}

	logger.Debug().
		Int("build_id", buildID).
		Str("status", string(resp.Data.Status)).
		Bool("lockfile", resp.Data.Specification.HasLockfile()).
		Msg("Build loaded")

	if replacement != nil {
		s.Dispatch(slice.Update(replacement))
	}

	variables := slice.Variables()
	if c.Bool("json") {
		jsonData, err := json.MarshalIndent(variables, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal variables: %w", err)
		}
		fmt.Println(string(jsonData))
		return nil
	}

	if len(variables) == 0 {
		fmt.Printf("No environment variables declared for build %d\n", buildID)
		return nil
	}

	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s=%s\n", name, variables[name])
	}
	return nil
}

// parseAssignments turns KEY=VALUE pairs into a map; nil when there are none
func parseAssignments(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	variables := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q: expected KEY=VALUE", pair)
		}
		variables[name] = value
	}
	return variables, nil
}
