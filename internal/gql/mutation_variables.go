package gql

import (
	"context"

	"github.com/rs/zerolog"
)

// VariableInput is the GraphQL input for a single environment variable
type VariableInput struct {
	Name  string
	Value string
}

// EnvironmentVariables resolves the currently stored environment variables
func (r *Resolver) EnvironmentVariables() []*VariableResolver {
	return newVariableResolvers(r.envVars.Variables())
}

// UpdateEnvironmentVariables replaces the stored environment variables. Later entries
// win when a name is repeated.
func (r *Resolver) UpdateEnvironmentVariables(ctx context.Context, args struct{ Variables []VariableInput }) []*VariableResolver {
	variables := make(map[string]string, len(args.Variables))
	for _, v := range args.Variables {
		variables[v.Name] = v.Value
	}

	zerolog.Ctx(ctx).Info().
		Int("count", len(variables)).
		Msg("Replacing environment variables")

	r.store.Dispatch(r.envVars.Update(variables))
	return newVariableResolvers(r.envVars.Variables())
}
