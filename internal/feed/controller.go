// Package feed owns the paginated event lists shown on the discovery,
// my-events and calendar pages: the accumulated items, the opaque cursor
// into the next page, and the in-flight bookkeeping that keeps duplicate
// load-more triggers and superseded fetches from corrupting the list.
package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/models"
)

// State names the controller's position in its fetch lifecycle.
type State string

const (
	StateIdle           State = "idle"
	StateLoadingInitial State = "loading_initial"
	StateLoadingMore    State = "loading_more"
	StateReady          State = "ready"
	StateFailed         State = "failed"
)

// PageFunc fetches one page of events. after is "" for the first page.
// The filter is the specification the page belongs to; a cursor returned
// under one filter is never replayed under another.
type PageFunc func(ctx context.Context, first int, after string, filter *models.FilterInput) (*models.EventConnection, error)

// Controller accumulates pages of one feed. All methods are safe for
// concurrent use; the lock is released around network fetches and each
// fetch carries the generation it was issued under, so a response that
// arrives after a Reset has superseded it is discarded instead of
// overwriting newer state.
type Controller struct {
	mu       sync.Mutex
	pageSize int
	fetch    PageFunc
	logger   *zap.Logger

	filter     *models.FilterInput
	events     []models.Event
	cursor     string
	hasMore    bool
	inFlight   bool
	generation uint64
	state      State
	lastErr    error
}

func NewController(pageSize int, fetch PageFunc, logger *zap.Logger) *Controller {
	return &Controller{
		pageSize: pageSize,
		fetch:    fetch,
		logger:   logger,
		state:    StateIdle,
	}
}

// Snapshot is a point-in-time copy of the display state.
type Snapshot struct {
	Events  []models.Event
	HasMore bool
	State   State
	Err     error
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]models.Event, len(c.events))
	copy(events, c.events)
	return Snapshot{
		Events:  events,
		HasMore: c.hasMore,
		State:   c.state,
		Err:     c.lastErr,
	}
}

// Init fetches the first page under the given filter. The accumulated
// list is cleared before the fetch so a stale list is never shown under a
// new filter. On failure the list stays empty and the error is both
// returned and retained for the presentation layer.
func (c *Controller) Init(ctx context.Context, filter *models.FilterInput) error {
	c.mu.Lock()
	if c.inFlight {
		// An outstanding fetch belongs to an older generation now.
		c.generation++
	}
	c.generation++
	gen := c.generation
	c.filter = filter
	c.events = nil
	c.cursor = ""
	c.hasMore = false
	c.inFlight = true
	c.state = StateLoadingInitial
	c.lastErr = nil
	c.mu.Unlock()

	conn, err := c.fetch(ctx, c.pageSize, "", filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// Superseded by a Reset while we were fetching.
		return nil
	}
	c.inFlight = false
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		c.logger.Error("Initial feed fetch failed", zap.Error(err))
		return err
	}
	c.events = conn.Events()
	c.cursor = conn.PageInfo.EndCursor
	c.hasMore = conn.PageInfo.HasNextPage
	c.state = StateReady
	return nil
}

// LoadMore appends the next page. It is a no-op when there is no next
// page or a fetch is already outstanding, so rapid repeated triggers
// produce exactly one request. On failure the accumulated list is left
// unchanged and hasMore stays true, so the action is retryable.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.hasMore || c.inFlight {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	cursor := c.cursor
	filter := c.filter
	c.inFlight = true
	c.state = StateLoadingMore
	c.mu.Unlock()

	conn, err := c.fetch(ctx, c.pageSize, cursor, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.inFlight = false
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		c.logger.Error("Load-more fetch failed", zap.Error(err))
		return err
	}
	c.events = append(c.events, conn.Events()...)
	c.cursor = conn.PageInfo.EndCursor
	c.hasMore = conn.PageInfo.HasNextPage
	c.state = StateReady
	c.lastErr = nil
	return nil
}

// Reset discards the accumulated list and cursor and refetches under the
// new filter. Any outstanding fetch from the previous filter is
// invalidated.
func (c *Controller) Reset(ctx context.Context, filter *models.FilterInput) error {
	return c.Init(ctx, filter)
}
