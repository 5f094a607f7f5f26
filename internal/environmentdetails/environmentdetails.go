// Package environmentdetails reads the details of a single build
package environmentdetails

import (
	"fmt"
	"time"

	"github.com/savaki/buildconsole/internal/errors"
	"github.com/savaki/buildconsole/internal/models"
	"github.com/savaki/buildconsole/internal/query"
)

// Args identifies a build
type Args struct {
	BuildID int `json:"buildId"`
}

// BuildResponse is the envelope returned for a build
type BuildResponse = models.Response[models.Build]

// GetBuild fetches build details. Other slices react to its fulfilled actions,
// see GetBuild.MatchFulfilled.
var GetBuild = &query.Endpoint[Args, BuildResponse]{
	Name:              "getBuild",
	Query:             buildPath,
	KeepUnusedDataFor: time.Minute,
}

func buildPath(args Args) (string, error) {
	if args.BuildID < 0 {
		return "", fmt.Errorf("%w: %d", errors.ErrInvalidBuildID, args.BuildID)
	}
	return fmt.Sprintf("/build/%d", args.BuildID), nil
}
