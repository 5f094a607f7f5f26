package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/api"
	"github.com/savaki/buildconsole/internal/environmentdetails"
	"github.com/savaki/buildconsole/internal/envvars"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/services"
	"github.com/savaki/buildconsole/internal/store"
)

func ProvideAPIClient(ctx context.Context, config *services.Config) (*api.Client, error) {
	client, err := api.New(ctx, api.Config{
		BaseURL:  config.BaseURL,
		Token:    config.Token,
		RetryMax: config.RetryMax,
		Timeout:  config.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	return client, nil
}

func ProvideStore(logger zerolog.Logger) *store.Store {
	return store.New(logger)
}

// ProvideEnvironmentVariables creates the environment variable slice and registers it
// with the store so fulfilled build reads replace the variables
func ProvideEnvironmentVariables(logger zerolog.Logger, s *store.Store) *envvars.Slice {
	slice := envvars.New(logger, environmentdetails.GetBuild.MatchFulfilled)
	s.Register(slice)
	return slice
}

// ProvideQueryClient depends on the environment variable slice so the slice is
// registered before the first read is dispatched
func ProvideQueryClient(ctx context.Context, client *api.Client, s *store.Store, _ *envvars.Slice) *query.Client {
	return query.NewClient(ctx, client, s)
}
