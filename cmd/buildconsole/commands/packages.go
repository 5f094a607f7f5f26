package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/dependencies"
	"github.com/savaki/buildconsole/internal/di"
	"github.com/savaki/buildconsole/internal/models"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/services"
	"github.com/savaki/gox/slicex"
	"github.com/urfave/cli/v2"
)

// PackagesCommand returns the packages command for listing the packages used by a build
func PackagesCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "packages",
		Aliases: []string{"pkg"},
		Usage:   "List the packages resolved for a build",
		Description: `List the packages resolved for a build.

Examples:
  # First page using the configured page size
  buildconsole packages --build-id 42

  # Third page of 20
  buildconsole packages --build-id 42 --page 3 --size 20

  # Every page, names only
  buildconsole packages --build-id 42 --all --names`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "build-id",
				Aliases:  []string{"b"},
				Usage:    "Build identifier",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to read",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: "Page size; defaults to the configured page size",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Read every page",
			},
			&cli.BoolFlag{
				Name:  "names",
				Usage: "Print package names only",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			return packagesAction(c, logger)
		},
	}
}

func packagesAction(c *cli.Context, logger *zerolog.Logger) error {
	container, err := setupContainer(c)
	if err != nil {
		return err
	}

	client := di.MustGet[*query.Client](container)
	defer client.Close()

	config := di.MustGet[*services.Config](container)

	buildID := c.Int("build-id")
	size := c.Int("size")
	if size == 0 {
		size = config.PageSize
	}

	var (
		packages []models.Dependency
		count    *int
	)
	if c.Bool("all") {
		packages, err = dependencies.FetchAll(c.Context, client, buildID, size)
		if err != nil {
			return fmt.Errorf("failed to get packages: %w", err)
		}
	} else {
		page, err := dependencies.GetBuildPackages.Fetch(c.Context, client, dependencies.Args{
			BuildID: buildID,
			Page:    c.Int("page"),
			Size:    size,
		})
		if err != nil {
			return fmt.Errorf("failed to get packages: %w", err)
		}
		packages, count = page.Data, page.Count
	}

	logger.Debug().
		Int("build_id", buildID).
		Int("packages", len(packages)).
		Msg("Packages loaded")

	if c.Bool("names") {
		fmt.Println(strings.Join(slicex.Map(packages, models.DependencyName), "\n"))
		return nil
	}

	if c.Bool("json") {
		jsonData, err := json.MarshalIndent(packages, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal packages: %w", err)
		}
		fmt.Println(string(jsonData))
		return nil
	}

	printPackages(packages, count)
	return nil
}

func printPackages(packages []models.Dependency, count *int) {
	fmt.Printf("%-30s %-20s %-20s %s\n", "NAME", "VERSION", "BUILD", "CHANNEL")
	fmt.Println(strings.Repeat("=", 90))
	for _, p := range packages {
		fmt.Printf("%-30s %-20s %-20s %s\n", p.Name, p.Version, p.Build, p.Channel.Name)
	}
	fmt.Println()
	if count != nil {
		fmt.Printf("Showing %d of %d packages\n", len(packages), *count)
	} else {
		fmt.Printf("Total packages: %d\n", len(packages))
	}
}
