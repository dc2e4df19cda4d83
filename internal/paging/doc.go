// Package paging implements the incremental, cursor-paginated collection used by
// every list screen in Vapor.
//
// # Overview
//
// A Controller owns the visible collection for one screen. It mediates every read
// of a Source and keeps three triggers from stepping on each other:
//
//   - OnScrollNearEnd appends the next page when a cursor token is available
//   - OnPullToRefresh replaces the collection with a fresh first page
//   - OnSearchTextChanged debounces typing into a single filtered reset fetch
//
// # Single flight
//
// At most one request is outstanding per controller. The guard is checked and set
// under the controller mutex before the Source is called, so a second trigger that
// arrives while a request is running is dropped, not queued. A dropped append is
// not retried; the user scrolls again.
//
// # Generations
//
// Every reset request, every search text change and Close advance the controller
// generation. Requests carry the generation they were issued under and a completion
// is applied only while that generation is still current. This keeps a slow append
// issued for an old search term from landing on top of a newer collection.
//
// # Cursor
//
// The cursor has three states that are never conflated: unset (start fresh), a
// token (resume here) and exhausted (no further pages). Appends require a token.
//
// # Errors
//
// Source failures are wrapped in *TransportError and recorded as LastError. A failed
// reset clears the collection, a failed append keeps it. Nothing is retried.
//
// # Usage
//
//	games := paging.New[vapor.Game](client.GamePages(), paging.Options{
//		QuietPeriod: 500 * time.Millisecond,
//		Logger:      logger,
//	})
//	defer games.Close()
//
//	games.Load(ctx)
//	games.OnSearchTextChanged("zelda")
//	snap := games.Snapshot()
package paging
