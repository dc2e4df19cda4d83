package paging

import (
	"time"

	"go.uber.org/zap"
)

type timer interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// OnSearchTextChanged records text as the search term right away and schedules a
// single reset fetch for it once typing pauses for the quiet period. Each call
// replaces the previously scheduled fetch. Empty text schedules an unfiltered fetch.
func (c *Controller[T]) OnSearchTextChanged(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.search = text
	// An in-flight page now belongs to a superseded term.
	c.generation++
	c.stopPendingLocked()
	c.scheduleLocked(text)
	c.mu.Unlock()

	c.notify()
}

// SearchPending reports whether a debounced fetch is waiting to fire.
func (c *Controller[T]) SearchPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

func (c *Controller[T]) scheduleLocked(text string) {
	c.pendingSeq++
	seq := c.pendingSeq
	c.pending = c.afterFunc(c.quiet, func() {
		c.fireSearch(seq, text)
	})
}

func (c *Controller[T]) stopPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	// A timer that already started running checks the sequence and bails.
	c.pendingSeq++
}

func (c *Controller[T]) fireSearch(seq uint64, text string) {
	// The sequence check and the admission share one critical section so a
	// newer keystroke cannot slip in between and be overwritten by this term.
	c.mu.Lock()
	if c.closed || seq != c.pendingSeq {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	if c.inFlight {
		// Try again after another quiet period.
		c.logger.Debug("search fetch deferred, request in flight", zap.String("search", text))
		c.scheduleLocked(text)
		c.mu.Unlock()
		return
	}
	req, ok := c.beginLocked(ModeInitial, &text)
	c.mu.Unlock()
	if ok {
		c.run(c.ctx, req)
	}
}
