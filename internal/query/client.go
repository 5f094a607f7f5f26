// Package query caches API reads per endpoint and argument, counts subscribers and
// discards entries once they have been unused for the endpoint's retention window.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/store"
	"github.com/segmentio/ksuid"
)

const (
	ActionPending   = "api/executeQuery/pending"
	ActionFulfilled = "api/executeQuery/fulfilled"
	ActionRejected  = "api/executeQuery/rejected"
)

// ErrUnsubscribed is returned when waiting on a subscription that has been released
var ErrUnsubscribed = errors.New("query subscription released")

// Meta is attached to every action the client dispatches
type Meta struct {
	Endpoint  string
	Arg       any
	CacheKey  string
	RequestID string
}

// Fetcher performs a GET against the API and decodes the body into out
type Fetcher interface {
	Get(ctx context.Context, path string, out any) error
}

type readFunc func(ctx context.Context) (any, error)

type entry struct {
	key        string
	endpoint   string
	arg        any
	keepUnused time.Duration
	read       readFunc

	status      Status
	data        any
	err         error
	requestID   string
	fulfilledAt time.Time

	subscribers map[uint64]struct{}
	changed     chan struct{}
	cancel      context.CancelFunc
	evict       *time.Timer
	removed     bool
}

// Client owns the query cache
type Client struct {
	ctx        context.Context
	stop       context.CancelFunc
	fetcher    Fetcher
	dispatcher store.Dispatcher

	mu      sync.Mutex
	entries map[string]*entry
	nextSub uint64
}

// NewClient creates a query client. Reads run under a context derived from ctx, which
// also supplies the logger via zerolog.Ctx.
func NewClient(ctx context.Context, fetcher Fetcher, dispatcher store.Dispatcher) *Client {
	ctx, stop := context.WithCancel(ctx)
	return &Client{
		ctx:        ctx,
		stop:       stop,
		fetcher:    fetcher,
		dispatcher: dispatcher,
		entries:    map[string]*entry{},
	}
}

// Close cancels every in-flight read and releases every cache entry; waiting
// subscriptions return ErrUnsubscribed
func (c *Client) Close() {
	c.mu.Lock()
	for _, ent := range c.entries {
		c.removeLocked(ent)
	}
	c.mu.Unlock()

	c.stop()
}

// Len returns the number of cache entries currently held
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Client) subscribe(key, endpoint string, arg any, keepUnused time.Duration, read readFunc) (*entry, uint64) {
	c.mu.Lock()

	id := c.nextSub
	c.nextSub++

	if ent, ok := c.entries[key]; ok {
		if ent.evict != nil {
			ent.evict.Stop()
			ent.evict = nil
		}
		ent.subscribers[id] = struct{}{}

		// a failed entry is read again for every new subscriber
		if ent.status != StatusRejected || ent.cancel != nil {
			c.mu.Unlock()
			return ent, id
		}
		ctx, requestID := c.beginLocked(ent)
		c.mu.Unlock()

		c.start(ctx, ent, requestID)
		return ent, id
	}

	ent := &entry{
		key:         key,
		endpoint:    endpoint,
		arg:         arg,
		keepUnused:  keepUnused,
		read:        read,
		subscribers: map[uint64]struct{}{id: {}},
		changed:     make(chan struct{}),
	}
	c.entries[key] = ent
	ctx, requestID := c.beginLocked(ent)
	c.mu.Unlock()

	c.start(ctx, ent, requestID)
	return ent, id
}

// beginLocked marks ent pending under a fresh request id. Caller holds c.mu.
func (c *Client) beginLocked(ent *entry) (context.Context, string) {
	ctx, cancel := context.WithCancel(c.ctx)
	ent.requestID = ksuid.New().String()
	ent.status = StatusPending
	ent.cancel = cancel
	c.notifyLocked(ent)
	return ctx, ent.requestID
}

func (c *Client) start(ctx context.Context, ent *entry, requestID string) {
	c.dispatcher.Dispatch(store.Action{
		Type: ActionPending,
		Meta: c.meta(ent, requestID),
	})
	go c.run(ctx, ent, requestID)
}

func (c *Client) meta(ent *entry, requestID string) Meta {
	return Meta{
		Endpoint:  ent.endpoint,
		Arg:       ent.arg,
		CacheKey:  ent.key,
		RequestID: requestID,
	}
}

func (c *Client) run(ctx context.Context, ent *entry, requestID string) {
	logger := zerolog.Ctx(c.ctx)
	start := time.Now()

	data, err := ent.read(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// entry removed or client closed while the read was in flight
		logger.Debug().
			Str("endpoint", ent.endpoint).
			Str("request_id", requestID).
			Msg("Query result discarded")

		c.mu.Lock()
		defer c.mu.Unlock()
		if !ent.removed && ent.requestID == requestID {
			ent.status = StatusRejected
			ent.err = ctxErr
			ent.cancel = nil
			c.notifyLocked(ent)
		}
		return
	}

	meta := c.meta(ent, requestID)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("endpoint", ent.endpoint).
			Str("cache_key", ent.key).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("Query rejected")
		c.dispatcher.Dispatch(store.Action{Type: ActionRejected, Payload: err, Meta: meta})
	} else {
		logger.Debug().
			Str("endpoint", ent.endpoint).
			Str("cache_key", ent.key).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("Query fulfilled")
		c.dispatcher.Dispatch(store.Action{Type: ActionFulfilled, Payload: data, Meta: meta})
	}

	// reducers have run; now publish to subscribers
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent.removed || ent.requestID != requestID {
		return
	}
	if err != nil {
		ent.status = StatusRejected
		ent.err = err
	} else {
		ent.status = StatusFulfilled
		ent.data = data
		ent.err = nil
		ent.fulfilledAt = time.Now()
	}
	ent.cancel = nil
	c.notifyLocked(ent)
}

// notifyLocked wakes everyone waiting on ent.changed. Caller holds c.mu.
func (c *Client) notifyLocked(ent *entry) {
	close(ent.changed)
	if !ent.removed {
		ent.changed = make(chan struct{})
	}
}

func (c *Client) refetch(ent *entry) {
	c.mu.Lock()
	if ent.removed || ent.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, requestID := c.beginLocked(ent)
	c.mu.Unlock()

	c.start(ctx, ent, requestID)
}

func (c *Client) unsubscribe(ent *entry, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(ent.subscribers, id)
	if len(ent.subscribers) > 0 || ent.removed {
		return
	}

	if ent.keepUnused <= 0 {
		c.removeLocked(ent)
		return
	}

	ent.evict = time.AfterFunc(ent.keepUnused, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if len(ent.subscribers) == 0 && !ent.removed {
			c.removeLocked(ent)
		}
	})
}

// removeLocked drops ent from the cache and cancels its in-flight read. Caller holds c.mu.
func (c *Client) removeLocked(ent *entry) {
	ent.removed = true
	if current, ok := c.entries[ent.key]; ok && current == ent {
		delete(c.entries, ent.key)
	}
	if ent.cancel != nil {
		ent.cancel()
		ent.cancel = nil
	}
	if ent.evict != nil {
		ent.evict.Stop()
		ent.evict = nil
	}
	c.notifyLocked(ent)

	zerolog.Ctx(c.ctx).Debug().
		Str("endpoint", ent.endpoint).
		Str("cache_key", ent.key).
		Msg("Query cache entry removed")
}
