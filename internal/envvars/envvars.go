// Package envvars holds the environment variables of the build currently being viewed.
//
// The mapping is replaced wholesale, either by the updateEnvironmentVariables action or
// whenever a build-details fetch is fulfilled. Builds declared through a lockfile carry
// no inline variables, so they reset the mapping to empty.
package envvars

import (
	"maps"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/errors"
	"github.com/savaki/buildconsole/internal/models"
	"github.com/savaki/buildconsole/internal/store"
)

const Name = "environmentVariables"

// State is the slice state
type State struct {
	EnvironmentVariables map[string]string
}

// Slice is the environment variable store
type Slice struct {
	*store.Slice[State]
	update store.ActionCreator
}

// New creates the slice. buildFulfilled matches the actions that carry a fulfilled
// build-details response (environmentdetails.GetBuild.MatchFulfilled).
func New(logger zerolog.Logger, buildFulfilled store.Matcher) *Slice {
	slice := store.NewSlice(Name, State{EnvironmentVariables: map[string]string{}})

	update := slice.AddCase("updateEnvironmentVariables", func(state State, action store.Action) State {
		variables, _ := action.Payload.(map[string]string)
		return State{EnvironmentVariables: clone(variables)}
	})

	slice.AddMatcher(buildFulfilled, func(state State, action store.Action) State {
		build, ok := buildFromPayload(action.Payload)
		if !ok {
			logger.Warn().
				Err(errors.ErrUnexpectedResponse).
				Str("action", action.Type).
				Msgf("Unexpected build payload %T, clearing environment variables", action.Payload)
			return State{EnvironmentVariables: map[string]string{}}
		}

		spec := build.Specification.Spec
		if spec == nil {
			// TODO: parse variables out of lockfile specifications once the lockfile format carries them
			logger.Debug().
				Int("build_id", build.ID).
				Bool("lockfile", build.Specification.HasLockfile()).
				Msg("Build has no inline spec, clearing environment variables")
			return State{EnvironmentVariables: map[string]string{}}
		}

		return State{EnvironmentVariables: clone(spec.Variables)}
	})

	return &Slice{
		Slice:  slice,
		update: update,
	}
}

// Update returns the action that replaces the stored mapping with variables
func (s *Slice) Update(variables map[string]string) store.Action {
	return s.update.With(clone(variables))
}

// UpdateType is the type of the action returned by Update
func (s *Slice) UpdateType() string {
	return s.update.Type
}

// Variables returns a copy of the stored mapping
func (s *Slice) Variables() map[string]string {
	return clone(s.State().EnvironmentVariables)
}

func buildFromPayload(payload any) (models.Build, bool) {
	switch v := payload.(type) {
	case models.Response[models.Build]:
		return v.Data, true
	case *models.Response[models.Build]:
		if v == nil {
			return models.Build{}, false
		}
		return v.Data, true
	default:
		return models.Build{}, false
	}
}

func clone(variables map[string]string) map[string]string {
	if variables == nil {
		return map[string]string{}
	}
	return maps.Clone(variables)
}
