package gql

import (
	"sort"

	"github.com/savaki/buildconsole/internal/models"
)

// BuildResolver resolves the Build GraphQL type
type BuildResolver struct {
	build models.Build
}

func newBuildResolver(build models.Build) *BuildResolver {
	return &BuildResolver{build: build}
}

func (r *BuildResolver) ID() int32 {
	return int32(r.build.ID)
}

func (r *BuildResolver) EnvironmentId() int32 {
	return int32(r.build.EnvironmentID)
}

func (r *BuildResolver) Status() BuildStatus {
	return FromModelBuildStatus(r.build.Status)
}

func (r *BuildResolver) StatusInfo() *string {
	return r.build.StatusInfo
}

func (r *BuildResolver) Size() float64 {
	return float64(r.build.Size)
}

func (r *BuildResolver) ScheduledOn() *DateTime {
	return NewDateTimePtrFromServer(r.build.ScheduledOn)
}

func (r *BuildResolver) StartedOn() *DateTime {
	return NewDateTimePtrFromServer(r.build.StartedOn)
}

func (r *BuildResolver) EndedOn() *DateTime {
	return NewDateTimePtrFromServer(r.build.EndedOn)
}

// SpecificationName resolves the name of the inline spec; null for lockfile builds
func (r *BuildResolver) SpecificationName() *string {
	if r.build.Specification.Spec == nil {
		return nil
	}
	return &r.build.Specification.Spec.Name
}

func (r *BuildResolver) HasLockfile() bool {
	return r.build.Specification.HasLockfile()
}

func (r *BuildResolver) Channels() []string {
	if r.build.Specification.Spec == nil || r.build.Specification.Spec.Channels == nil {
		return []string{}
	}
	return r.build.Specification.Spec.Channels
}

// Variables resolves the variables declared inline in the build's spec
func (r *BuildResolver) Variables() []*VariableResolver {
	if r.build.Specification.Spec == nil {
		return []*VariableResolver{}
	}
	return newVariableResolvers(r.build.Specification.Spec.Variables)
}

// VariableResolver resolves the Variable GraphQL type
type VariableResolver struct {
	name  string
	value string
}

func (r *VariableResolver) Name() string {
	return r.name
}

func (r *VariableResolver) Value() string {
	return r.value
}

// newVariableResolvers returns resolvers sorted by variable name
func newVariableResolvers(variables map[string]string) []*VariableResolver {
	resolvers := make([]*VariableResolver, 0, len(variables))
	for name, value := range variables {
		resolvers = append(resolvers, &VariableResolver{name: name, value: value})
	}
	sort.Slice(resolvers, func(i, j int) bool {
		return resolvers[i].name < resolvers[j].name
	})
	return resolvers
}
