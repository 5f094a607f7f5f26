// Package dependencies reads the paginated package list of a build.
package dependencies

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/errors"
	"github.com/savaki/buildconsole/internal/models"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/gox/slicex"
)

const fetchAllConcurrency = 4

// Args identifies one page of a build's packages. Equal values share a cache entry.
type Args struct {
	BuildID int `json:"buildId"`
	Page    int `json:"page"`
	Size    int `json:"size"`
}

// Page is the envelope returned for one page of packages
type Page = models.Response[[]models.Dependency]

// GetBuildPackages lists the packages of a build. Results are dropped as soon as the
// last subscriber leaves, so every new subscription reads the current list.
var GetBuildPackages = &query.Endpoint[Args, Page]{
	Name:              "getBuildPackages",
	Query:             packagesPath,
	KeepUnusedDataFor: 0,
}

func packagesPath(args Args) (string, error) {
	if args.Page < 0 || args.Size <= 0 {
		return "", fmt.Errorf("%w: page=%d size=%d", errors.ErrInvalidPagination, args.Page, args.Size)
	}
	return fmt.Sprintf("/build/%d/packages?page=%d&size=%d", args.BuildID, args.Page, args.Size), nil
}

// PageCount returns how many pages of size hold count items
func PageCount(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// FetchAll reads every page of a build's packages, starting at page 1, and returns them in
// server order. The first page supplies the total count; the rest are read concurrently.
func FetchAll(ctx context.Context, client *query.Client, buildID, size int) ([]models.Dependency, error) {
	logger := zerolog.Ctx(ctx)

	first, err := GetBuildPackages.Fetch(ctx, client, Args{BuildID: buildID, Page: 1, Size: size})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch packages page 1: %w", err)
	}

	if first.Count == nil {
		return first.Data, nil
	}

	pages := PageCount(*first.Count, size)
	logger.Debug().
		Int("build_id", buildID).
		Int("count", *first.Count).
		Int("pages", pages).
		Msg("Fetching remaining package pages")

	if pages <= 1 {
		return first.Data, nil
	}

	remaining := make([]int, 0, pages-1)
	for page := 2; page <= pages; page++ {
		remaining = append(remaining, page)
	}

	callback := func(ctx context.Context, page int) (*Page, error) {
		resp, err := GetBuildPackages.Fetch(ctx, client, Args{BuildID: buildID, Page: page, Size: size})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch packages page %d: %w", page, err)
		}
		return &resp, nil
	}
	results, err := slicex.MapConcurrent(callback).
		Concurrency(fetchAllConcurrency).
		CollectErrors().
		DoValues(ctx, remaining...)
	if err != nil {
		return nil, err
	}

	all := append([]models.Dependency{}, first.Data...)
	for i, result := range results {
		if result == nil {
			return nil, fmt.Errorf("missing packages page %d", remaining[i])
		}
		all = append(all, result.Data...)
	}

	return all, nil
}
