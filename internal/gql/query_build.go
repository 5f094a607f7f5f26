package gql

import (
	"context"
	"fmt"

	"github.com/savaki/buildconsole/internal/environmentdetails"
)

// Build resolves the build query. A successful read is dispatched to the store, which
// replaces the environment variables with the ones declared by the build.
func (r *Resolver) Build(ctx context.Context, args struct{ BuildID int32 }) (*BuildResolver, error) {
	resp, err := environmentdetails.GetBuild.Fetch(ctx, r.query, environmentdetails.Args{BuildID: int(args.BuildID)})
	if err != nil {
		return nil, fmt.Errorf("failed to get build %d: %w", args.BuildID, err)
	}
	return newBuildResolver(resp.Data), nil
}
