package store

import (
	"fmt"
	"sync"
)

// CaseReducer computes the next state from the current one; it must not mutate state in place
type CaseReducer[S any] func(state S, action Action) S

// ActionCreator builds actions of a single type
type ActionCreator struct {
	Type string
}

// With returns an action of this type carrying payload
func (c ActionCreator) With(payload any) Action {
	return Action{Type: c.Type, Payload: payload}
}

// Match reports whether action has this creator's type
func (c ActionCreator) Match(action Action) bool {
	return action.Type == c.Type
}

type matcherCase[S any] struct {
	match   Matcher
	reducer CaseReducer[S]
}

// Slice is a named piece of state with case reducers for its own actions and matcher
// reducers for actions defined elsewhere
type Slice[S any] struct {
	name string

	mu       sync.RWMutex
	state    S
	cases    map[string]CaseReducer[S]
	matchers []matcherCase[S]
}

// NewSlice creates a slice holding initial
func NewSlice[S any](name string, initial S) *Slice[S] {
	return &Slice[S]{
		name:  name,
		state: initial,
		cases: map[string]CaseReducer[S]{},
	}
}

// Name returns the slice name
func (s *Slice[S]) Name() string {
	return s.name
}

// AddCase registers a reducer for the action "{slice}/{caseName}" and returns its creator
func (s *Slice[S]) AddCase(caseName string, reducer CaseReducer[S]) ActionCreator {
	creator := ActionCreator{Type: fmt.Sprintf("%s/%s", s.name, caseName)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[creator.Type] = reducer

	return creator
}

// AddMatcher registers a reducer for any action accepted by match
func (s *Slice[S]) AddMatcher(match Matcher, reducer CaseReducer[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matchers = append(s.matchers, matcherCase[S]{match: match, reducer: reducer})
}

// State returns the current state. Callers must treat it as read-only.
func (s *Slice[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Reduce implements Reducer. The case reducer runs first, then every matching matcher, in registration order.
func (s *Slice[S]) Reduce(action Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	handled := false
	if reducer, ok := s.cases[action.Type]; ok {
		s.state = reducer(s.state, action)
		handled = true
	}
	for _, m := range s.matchers {
		if m.match(action) {
			s.state = m.reducer(s.state, action)
			handled = true
		}
	}

	return handled
}
