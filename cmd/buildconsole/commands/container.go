package commands

import (
	"fmt"

	"github.com/savaki/buildconsole/internal/di"
	"github.com/urfave/cli/v2"
)

// GlobalFlags are shared by every command and select where configuration comes from
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file; environment variables are used when omitted",
			EnvVars: []string{"BUILDCONSOLE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Profile to read from the config file",
			Value:   "default",
			EnvVars: []string{"BUILDCONSOLE_PROFILE"},
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Build server API base URL, e.g. http://localhost:8080/conda-store/api/v1",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "Bearer token sent with every request",
		},
	}
}

func setupContainer(c *cli.Context) (di.Container, error) {
	container, err := di.New(c.String("profile"),
		di.WithConfigFile(c.String("config")),
		di.WithBaseURL(c.String("base-url")),
		di.WithToken(c.String("token")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to setup DI container: %w", err)
	}
	return container, nil
}
