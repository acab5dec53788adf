package gallery

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Feed fetches one page of the upstream listing starting at cursor.
type Feed interface {
	FetchPage(ctx context.Context, cursor Cursor) (FeedPage, error)
}

type LoadResult int

const (
	LoadOK LoadResult = iota
	LoadSkipped
	LoadExhausted
	LoadFailed
)

func (r LoadResult) String() string {
	switch r {
	case LoadOK:
		return "ok"
	case LoadSkipped:
		return "skipped"
	case LoadExhausted:
		return "exhausted"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Controller drives a State synchronously for callers that are not running
// inside an event loop. Overlapping LoadNextPage calls are dropped, not
// queued.
type Controller struct {
	mu    sync.Mutex
	state State
	feed  Feed
	log   zerolog.Logger
}

func NewController(feed Feed, logger zerolog.Logger) *Controller {
	return &Controller{state: NewState(), feed: feed, log: logger}
}

// LoadNextPage fetches the page after the stored cursor and appends it.
// A failed fetch is logged and leaves the gallery unchanged.
func (c *Controller) LoadNextPage(ctx context.Context) LoadResult {
	c.mu.Lock()
	if c.state.Cursor().Exhausted() {
		c.mu.Unlock()
		return LoadExhausted
	}
	req, ok := c.state.BeginLoad()
	c.mu.Unlock()
	if !ok {
		c.log.Debug().Msg("page load already in flight, dropping trigger")
		return LoadSkipped
	}

	page, err := c.feed.FetchPage(ctx, req.Cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.FailLoad(req)
		c.log.Error().Err(err).Str("cursor", req.Cursor.String()).Msg("fetch page failed")
		return LoadFailed
	}
	if !c.state.CompleteLoad(req, page) {
		return LoadSkipped
	}
	c.log.Debug().
		Int("items", len(page.Items)).
		Int("total", c.state.Len()).
		Str("next", page.Next.String()).
		Msg("page loaded")
	return LoadOK
}

// Items returns a copy of the loaded items.
func (c *Controller) Items() []FeedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]FeedItem(nil), c.state.Items()...)
}

func (c *Controller) Cursor() Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Cursor()
}

func (c *Controller) Viewer() Viewer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Viewer()
}

func (c *Controller) OpenViewer(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.OpenViewer(index)
}

func (c *Controller) CloseViewer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CloseViewer()
}

func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Reset()
}
