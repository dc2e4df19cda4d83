package paging

import (
	"context"
	"fmt"
)

// Mode selects how a completed page is merged into the collection.
type Mode int

const (
	// ModeInitial is a reset fetch on screen entry or after a search change.
	ModeInitial Mode = iota
	// ModeRefresh is a user-triggered reset fetch.
	ModeRefresh
	// ModeAppend fetches the page after the stored cursor and concatenates it.
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeRefresh:
		return "refresh"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// resets reports whether a completed page replaces the collection.
func (m Mode) resets() bool {
	return m != ModeAppend
}

// Query is the input of a single page read.
type Query struct {
	Cursor string // empty starts from the first page
	Search string // empty means unfiltered
}

// Page is one page of items in server order. An empty Next means no further pages.
type Page[T any] struct {
	Items []T
	Next  string
}

// Source reads cursor-paginated pages from a remote collection.
type Source[T any] interface {
	FetchPage(ctx context.Context, q Query) (Page[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// FetchPage calls f.
func (f SourceFunc[T]) FetchPage(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

// TransportError reports a failed page read. The controller does not distinguish
// causes; the wrapped error is kept for logging and errors.Is/As.
type TransportError struct {
	Mode  Mode
	Query Query
	Err   error
}

func (e *TransportError) Error() string {
	if e.Query.Search != "" {
		return fmt.Sprintf("%s fetch (search %q): %v", e.Mode, e.Query.Search, e.Err)
	}
	return fmt.Sprintf("%s fetch: %v", e.Mode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
