package gql

import (
	_ "embed"

	"github.com/graph-gophers/graphql-go"
	"github.com/savaki/buildconsole/internal/envvars"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/services"
	"github.com/savaki/buildconsole/internal/store"
	"go.uber.org/dig"
)

//go:embed schema.graphqls
var schemaString string

type Config struct {
	dig.In

	Query     *query.Client
	Store     *store.Store
	EnvVars   *envvars.Slice
	AppConfig *services.Config
}

// Resolver is the root GraphQL resolver
type Resolver struct {
	query     *query.Client
	store     *store.Store
	envVars   *envvars.Slice
	appConfig *services.Config
}

// NewResolver creates a new root resolver with the required dependencies
func NewResolver(config Config) *Resolver {
	return &Resolver{
		query:     config.Query,
		store:     config.Store,
		envVars:   config.EnvVars,
		appConfig: config.AppConfig,
	}
}

// NewSchema creates a new GraphQL schema with the root resolver
func NewSchema(resolver *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaString, resolver)
}

// Ok returns "ok" for health checks
func (r *Resolver) Ok() string {
	return "ok"
}
