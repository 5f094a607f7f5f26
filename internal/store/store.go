// Package store holds client session state as a set of slices updated by dispatched actions.
package store

import (
	"sync"

	"github.com/rs/zerolog"
)

// Action describes something that happened. Type is namespaced, e.g. "environmentVariables/updateEnvironmentVariables"
type Action struct {
	Type    string
	Payload any
	Meta    any
}

// Matcher reports whether a reducer should react to an action
type Matcher func(action Action) bool

// Dispatcher accepts actions
type Dispatcher interface {
	Dispatch(action Action)
}

// Reducer applies an action to a piece of state and reports whether the action was handled
type Reducer interface {
	Name() string
	Reduce(action Action) bool
}

// Listener is notified after every dispatch, once all reducers have run
type Listener func(action Action)

// Store routes actions to its reducers and notifies listeners
type Store struct {
	logger zerolog.Logger

	mu        sync.Mutex
	reducers  []Reducer
	listeners map[uint64]Listener
	nextID    uint64
}

// New creates a store with the given reducers registered
func New(logger zerolog.Logger, reducers ...Reducer) *Store {
	return &Store{
		logger:    logger,
		reducers:  reducers,
		listeners: map[uint64]Listener{},
	}
}

// Register adds a reducer; it sees every action dispatched afterwards
func (s *Store) Register(reducer Reducer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reducers = append(s.reducers, reducer)
}

// Dispatch runs every reducer against the action before returning.
// Listeners run after the reducers and outside the store lock, so they may dispatch.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	for _, reducer := range s.reducers {
		if reducer.Reduce(action) {
			s.logger.Debug().
				Str("action", action.Type).
				Str("slice", reducer.Name()).
				Msg("State updated")
		}
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(action)
	}
}

// Subscribe registers a listener and returns the function that removes it
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}
