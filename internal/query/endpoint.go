package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/savaki/buildconsole/internal/store"
)

// Endpoint describes a read against the API. A is the argument type, R the decoded response.
type Endpoint[A any, R any] struct {
	// Name identifies the endpoint in cache keys and action metadata
	Name string

	// Query builds the request path (including query string) for arg
	Query func(arg A) (string, error)

	// KeepUnusedDataFor is how long an entry survives after its last subscriber leaves.
	// Zero or less removes it immediately, so the next subscription reads again.
	KeepUnusedDataFor time.Duration
}

// CacheKey returns the key under which results for arg are cached
func (e *Endpoint[A, R]) CacheKey(arg A) string {
	data, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%s(%+v)", e.Name, arg)
	}
	return fmt.Sprintf("%s(%s)", e.Name, data)
}

// Initiate subscribes to the query for arg, starting a read unless an entry for the same
// arg is already held by the client
func (e *Endpoint[A, R]) Initiate(c *Client, arg A) *Subscription[R] {
	path, pathErr := e.Query(arg)
	read := func(ctx context.Context) (any, error) {
		if pathErr != nil {
			return nil, pathErr
		}
		var out R
		if err := c.fetcher.Get(ctx, path, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	ent, id := c.subscribe(e.CacheKey(arg), e.Name, arg, e.KeepUnusedDataFor, read)
	return &Subscription[R]{client: c, entry: ent, id: id}
}

// Fetch subscribes, waits for the read to settle and releases the subscription
func (e *Endpoint[A, R]) Fetch(ctx context.Context, c *Client, arg A) (R, error) {
	sub := e.Initiate(c, arg)
	defer sub.Unsubscribe()

	return sub.Await(ctx)
}

func (e *Endpoint[A, R]) match(actionType string, action store.Action) bool {
	if action.Type != actionType {
		return false
	}
	meta, ok := action.Meta.(Meta)
	return ok && meta.Endpoint == e.Name
}

// MatchPending matches pending actions for this endpoint
func (e *Endpoint[A, R]) MatchPending(action store.Action) bool {
	return e.match(ActionPending, action)
}

// MatchFulfilled matches fulfilled actions for this endpoint; their payload is an R
func (e *Endpoint[A, R]) MatchFulfilled(action store.Action) bool {
	return e.match(ActionFulfilled, action)
}

// MatchRejected matches rejected actions for this endpoint; their payload is the error
func (e *Endpoint[A, R]) MatchRejected(action store.Action) bool {
	return e.match(ActionRejected, action)
}
