package query

import (
	"context"
	"sync"
)

// Subscription is one consumer's view of a cached query
type Subscription[R any] struct {
	client *Client
	entry  *entry
	id     uint64
	once   sync.Once
}

// State returns a snapshot of the query state
func (s *Subscription[R]) State() State[R] {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()

	return s.stateLocked()
}

func (s *Subscription[R]) stateLocked() State[R] {
	state := State[R]{
		Status:      s.entry.status,
		Err:         s.entry.err,
		RequestID:   s.entry.requestID,
		FulfilledAt: s.entry.fulfilledAt,
	}
	if data, ok := s.entry.data.(R); ok {
		state.Data = data
	}
	return state
}

// Changed returns a channel that is closed on the next state change
func (s *Subscription[R]) Changed() <-chan struct{} {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()

	return s.entry.changed
}

// Await blocks until the current read settles and returns its result
func (s *Subscription[R]) Await(ctx context.Context) (R, error) {
	for {
		s.client.mu.Lock()
		state := s.stateLocked()
		removed := s.entry.removed
		changed := s.entry.changed
		s.client.mu.Unlock()

		switch {
		case state.Status == StatusFulfilled:
			return state.Data, nil
		case state.Status == StatusRejected:
			var zero R
			return zero, state.Err
		case removed:
			var zero R
			return zero, ErrUnsubscribed
		}

		select {
		case <-ctx.Done():
			var zero R
			return zero, ctx.Err()
		case <-changed:
		}
	}
}

// Refetch starts a new read unless one is already in flight
func (s *Subscription[R]) Refetch() {
	s.client.refetch(s.entry)
}

// Unsubscribe releases the subscription; safe to call more than once
func (s *Subscription[R]) Unsubscribe() {
	s.once.Do(func() {
		s.client.unsubscribe(s.entry, s.id)
	})
}
