package gql

import (
	"context"
	"fmt"

	"github.com/savaki/buildconsole/internal/dependencies"
	"github.com/savaki/buildconsole/internal/models"
)

type buildPackagesArgs struct {
	BuildID int32
	Page    int32
	Size    *int32
}

// BuildPackages resolves one page of the packages used by a build
func (r *Resolver) BuildPackages(ctx context.Context, args buildPackagesArgs) (*PackagePageResolver, error) {
	size := r.appConfig.PageSize
	if args.Size != nil {
		size = int(*args.Size)
	}

	page, err := dependencies.GetBuildPackages.Fetch(ctx, r.query, dependencies.Args{
		BuildID: int(args.BuildID),
		Page:    int(args.Page),
		Size:    size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get packages for build %d: %w", args.BuildID, err)
	}
	return &PackagePageResolver{page: page}, nil
}

// PackagePageResolver resolves the PackagePage GraphQL type
type PackagePageResolver struct {
	page dependencies.Page
}

func (r *PackagePageResolver) Packages() []*PackageResolver {
	resolvers := make([]*PackageResolver, 0, len(r.page.Data))
	for _, d := range r.page.Data {
		resolvers = append(resolvers, &PackageResolver{dependency: d})
	}
	return resolvers
}

func (r *PackagePageResolver) Page() *int32  { return int32Ptr(r.page.Page) }
func (r *PackagePageResolver) Size() *int32  { return int32Ptr(r.page.Size) }
func (r *PackagePageResolver) Count() *int32 { return int32Ptr(r.page.Count) }

// PackageResolver resolves the Package GraphQL type
type PackageResolver struct {
	dependency models.Dependency
}

func (r *PackageResolver) ID() int32 {
	return int32(r.dependency.ID)
}

func (r *PackageResolver) Name() string {
	return r.dependency.Name
}

func (r *PackageResolver) Version() string {
	return r.dependency.Version
}

func (r *PackageResolver) Build() *string {
	return stringPtr(r.dependency.Build)
}

func (r *PackageResolver) Channel() string {
	return r.dependency.Channel.Name
}

func (r *PackageResolver) License() *string {
	return stringPtr(r.dependency.License)
}

func (r *PackageResolver) Summary() *string {
	return stringPtr(r.dependency.Summary)
}

func (r *PackageResolver) Sha256() *string {
	return stringPtr(r.dependency.Sha256)
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
