package paging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQuietPeriod is the debounce window applied to search text changes.
const DefaultQuietPeriod = 500 * time.Millisecond

// Options configure a Controller.
type Options struct {
	// QuietPeriod is how long typing must pause before a search fetch is issued.
	QuietPeriod time.Duration
	// Context is used for fetches issued by the debouncer. Defaults to Background.
	Context context.Context
	// Logger receives request and discard events. Defaults to a no-op logger.
	Logger *zap.Logger
	// OnChange is invoked after every state transition, outside the lock.
	OnChange func()
}

// State is a point-in-time copy of the collection.
type State[T any] struct {
	Items       []T
	Cursor      Cursor
	Search      string
	LoadingPage bool
	Refreshing  bool
	InFlight    bool
	LastError   error
	Generation  uint64
}

// CanLoadMore reports whether an append would currently be issued.
func (s State[T]) CanLoadMore() bool {
	_, ok := s.Cursor.Token()
	return ok && s.Search == "" && !s.InFlight
}

// Busy reports whether any request is outstanding.
func (s State[T]) Busy() bool {
	return s.InFlight
}

// Controller owns one screen's paginated collection.
type Controller[T any] struct {
	source   Source[T]
	quiet    time.Duration
	ctx      context.Context
	logger   *zap.Logger
	onChange func()

	afterFunc func(time.Duration, func()) timer

	mu          sync.Mutex
	items       []T
	cursor      Cursor
	search      string
	loadingPage bool
	refreshing  bool
	inFlight    bool
	lastErr     error
	generation  uint64
	closed      bool

	// debounce state
	pending    timer
	pendingSeq uint64
}

type request struct {
	mode       Mode
	query      Query
	generation uint64
}

// New builds a Controller reading from source.
func New[T any](source Source[T], opts Options) *Controller[T] {
	quiet := opts.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		source:    source,
		quiet:     quiet,
		ctx:       ctx,
		logger:    logger,
		onChange:  opts.OnChange,
		afterFunc: realAfterFunc,
	}
}

// Load issues the initial reset fetch with the current search term.
func (c *Controller[T]) Load(ctx context.Context) bool {
	return c.RequestPage(ctx, ModeInitial, nil)
}

// OnScrollNearEnd appends the next page when one is available.
func (c *Controller[T]) OnScrollNearEnd(ctx context.Context) bool {
	return c.RequestPage(ctx, ModeAppend, nil)
}

// OnPullToRefresh replaces the collection with a fresh first page.
func (c *Controller[T]) OnPullToRefresh(ctx context.Context) bool {
	return c.RequestPage(ctx, ModeRefresh, nil)
}

// RequestPage performs one read of the source and merges the result according to
// mode. It blocks until the read settles and reports whether a request was issued.
// Calls made while another request is in flight are dropped.
func (c *Controller[T]) RequestPage(ctx context.Context, mode Mode, searchOverride *string) bool {
	c.mu.Lock()
	req, ok := c.beginLocked(mode, searchOverride)
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.run(ctx, req)
	return true
}

// run reads the page for a request already admitted by beginLocked.
func (c *Controller[T]) run(ctx context.Context, req request) {
	c.notify()

	c.logger.Debug("fetching page",
		zap.Stringer("mode", req.mode),
		zap.String("cursor", req.query.Cursor),
		zap.String("search", req.query.Search),
		zap.Uint64("generation", req.generation),
	)

	page, err := c.source.FetchPage(ctx, req.query)
	c.finish(req, page, err)
	c.notify()
}

// beginLocked admits a request and marks it in flight. c.mu must be held.
func (c *Controller[T]) beginLocked(mode Mode, searchOverride *string) (request, bool) {
	if c.closed || c.inFlight {
		return request{}, false
	}

	search := c.search
	if searchOverride != nil {
		search = *searchOverride
	}

	var cursor string
	if mode == ModeAppend {
		token, ok := c.cursor.Token()
		if !ok || search != "" {
			return request{}, false
		}
		cursor = token
	}

	if searchOverride != nil {
		c.search = search
	}
	if mode.resets() {
		c.generation++
	}

	c.inFlight = true
	if mode == ModeRefresh {
		c.refreshing = true
	} else {
		c.loadingPage = true
	}

	return request{
		mode:       mode,
		query:      Query{Cursor: cursor, Search: search},
		generation: c.generation,
	}, true
}

func (c *Controller[T]) finish(req request, page Page[T], err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	c.loadingPage = false
	c.refreshing = false

	if c.closed || req.generation != c.generation {
		c.logger.Debug("discarding stale page",
			zap.Stringer("mode", req.mode),
			zap.Uint64("generation", req.generation),
			zap.Uint64("current", c.generation),
			zap.Error(err),
		)
		return
	}

	if err != nil {
		c.lastErr = &TransportError{Mode: req.mode, Query: req.query, Err: err}
		c.logger.Warn("page fetch failed",
			zap.Stringer("mode", req.mode),
			zap.String("search", req.query.Search),
			zap.Error(err),
		)
		if req.mode.resets() {
			c.items = nil
			c.cursor = Cursor{}
		}
		return
	}

	if req.mode.resets() {
		c.items = cloneItems(page.Items)
	} else {
		c.items = append(c.items, page.Items...)
	}
	c.cursor = TokenCursor(page.Next)
	c.lastErr = nil
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State[T]{
		Items:       cloneItems(c.items),
		Cursor:      c.cursor,
		Search:      c.search,
		LoadingPage: c.loadingPage,
		Refreshing:  c.refreshing,
		InFlight:    c.inFlight,
		LastError:   c.lastErr,
		Generation:  c.generation,
	}
}

// Close cancels any pending search fetch and invalidates in-flight completions.
// The controller ignores all triggers afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	c.stopPendingLocked()
	c.mu.Unlock()
}

func (c *Controller[T]) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
