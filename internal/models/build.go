package models

import "encoding/json"

// BuildStatus represents the current status of a build on the server
type BuildStatus string

const (
	BuildStatusQueued    BuildStatus = "QUEUED"
	BuildStatusBuilding  BuildStatus = "BUILDING"
	BuildStatusCompleted BuildStatus = "COMPLETED"
	BuildStatusFailed    BuildStatus = "FAILED"
	BuildStatusCanceled  BuildStatus = "CANCELED"
)

// Build is the build-details payload returned by GET /build/{buildId}
type Build struct {
	ID            int           `json:"id"`
	EnvironmentID int           `json:"environment_id"`
	Status        BuildStatus   `json:"status"`
	StatusInfo    *string       `json:"status_info,omitempty"`
	Size          int64         `json:"size"`
	ScheduledOn   *string       `json:"scheduled_on,omitempty"` // server timestamps carry no zone
	StartedOn     *string       `json:"started_on,omitempty"`
	EndedOn       *string       `json:"ended_on,omitempty"`
	Specification Specification `json:"specification"`
}

// Specification wraps either an inline spec or a lockfile
type Specification struct {
	ID       int             `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Sha256   string          `json:"sha256,omitempty"`
	Spec     *Spec           `json:"spec,omitempty"`
	Lockfile json.RawMessage `json:"lockfile,omitempty"`
}

// HasLockfile reports whether the build was declared through a lockfile
func (s Specification) HasLockfile() bool {
	return len(s.Lockfile) > 0 && string(s.Lockfile) != "null"
}

// Spec is an inline environment specification
type Spec struct {
	Name         string            `json:"name"`
	Channels     []string          `json:"channels,omitempty"`
	Dependencies []any             `json:"dependencies,omitempty"` // strings or {"pip": [...]}
	Variables    map[string]string `json:"variables,omitempty"`
	Prefix       *string           `json:"prefix,omitempty"`
}
