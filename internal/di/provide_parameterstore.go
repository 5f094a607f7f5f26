package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/services"
)

// ProvideParameterStore provides a ParameterStore implementation
// Uses the YAML config file when one is given, falls back to environment variables otherwise
func ProvideParameterStore(ctx context.Context, file ConfigFile, profile string) services.ParameterStore {
	logger := zerolog.Ctx(ctx)

	if file == "" {
		logger.Debug().Msg("Using environment variables for configuration")
		return services.NewEnvParameterStore()
	}

	logger.Debug().
		Str("file", string(file)).
		Str("profile", profile).
		Msg("Using config file for configuration")
	return services.NewFileParameterStore(string(file), profile)
}

// ProvideAppConfig loads application configuration from the parameter store and applies
// command line overrides
func ProvideAppConfig(ctx context.Context, store services.ParameterStore, overrides Overrides) (*services.Config, error) {
	logger := zerolog.Ctx(ctx)

	config, err := store.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if overrides.BaseURL != "" {
		config.BaseURL = overrides.BaseURL
	}
	if overrides.Token != "" {
		config.Token = overrides.Token
	}

	logger.Debug().
		Str("base_url", config.BaseURL).
		Bool("has_token", config.Token != "").
		Int("retry_max", config.RetryMax).
		Int("page_size", config.PageSize).
		Msg("Configuration loaded successfully")

	return config, nil
}
