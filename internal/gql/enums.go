package gql

import "github.com/savaki/buildconsole/internal/models"

// BuildStatus represents the GraphQL BuildStatus enum
type BuildStatus string

const (
	BuildStatusQueued    BuildStatus = "QUEUED"
	BuildStatusBuilding  BuildStatus = "BUILDING"
	BuildStatusCompleted BuildStatus = "COMPLETED"
	BuildStatusFailed    BuildStatus = "FAILED"
	BuildStatusCanceled  BuildStatus = "CANCELED"
)

// FromModelBuildStatus converts a models.BuildStatus to gql.BuildStatus
func FromModelBuildStatus(status models.BuildStatus) BuildStatus {
	return BuildStatus(status)
}
