package query

import "time"

// Status of a cached query
type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "uninitialized"
	}
}

// State is the observable value of a query: loading, success(data) or error(cause).
// Data from a previous read is kept while a refetch is pending.
type State[R any] struct {
	Status      Status
	Data        R
	Err         error
	RequestID   string
	FulfilledAt time.Time
}

func (s State[R]) IsLoading() bool { return s.Status == StatusPending }
func (s State[R]) IsSuccess() bool { return s.Status == StatusFulfilled }
func (s State[R]) IsError() bool   { return s.Status == StatusRejected }

// IsSettled reports whether the last read has completed
func (s State[R]) IsSettled() bool {
	return s.Status == StatusFulfilled || s.Status == StatusRejected
}
