// Package state holds the home screen data shared between the poller and the UI.
//
// # Overview
//
// The home screen shows three things: featured and recent games from the
// catalog, the signed-in user's lists, and their profile. All three come from
// one background refresh. This package is where that refresh hands its result
// to the UI.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (app.Poller):           Consumer (ui.Model):
//	┌─────────────────────┐          ┌─────────────────────┐
//	│ Games(first page)   │          │                     │
//	│ Lists()   ┐ signed  │          │                     │
//	│ Me()      ┘ in only │          │                     │
//	│      ↓ errgroup     │          │                     │
//	│ store.Update()      │─────────→│ store.Snapshot()    │
//	│      ↓              │ (RWMutex)│      ↓              │
//	│ wait or backoff     │          │ render on each tick │
//	└─────────────────────┘          └─────────────────────┘
//
// The poller and the UI run on different goroutines and never talk to each
// other directly. The UI asks for a refresh with Poller.Kick and picks up the
// result on its next tick.
//
// # Core Types
//
// Home is the input: one successful load. Profile is nil when nobody is
// signed in or the session was rejected.
//
// Snapshot is the output the UI renders:
//   - Featured: the first FeaturedCount (8) games of the catalog page
//   - Recent: the next RecentCount (12) games
//   - Lists and Profile (HasProfile says whether Profile is set)
//   - LastUpdated, LastError and ConsecutiveFailures for the header
//
// Store is the container. The zero value is ready to use.
//
// # Update Semantics
//
//	// Success: replace everything
//	store.Update(&state.Home{Games: g, Lists: l, Profile: &me}, nil)
//	→ Featured, Recent, Lists, Profile replaced
//	→ LastError = nil, ConsecutiveFailures = 0
//	→ LastUpdated = now
//
//	// Failure: keep old data, record the error
//	store.Update(nil, err)
//	→ Featured, Recent, Lists, Profile unchanged
//	→ LastError = err, ConsecutiveFailures++
//	→ LastUpdated = now
//
// A short catalog page fills Featured first; Recent stays empty until there
// are more than eight games.
//
// UpdateLists replaces only the lists. The UI calls it after the Lists view
// reloads or a list is created, so the home screen and the add-to-list picker
// see the new list before the next refresh. Reset clears everything.
//
// # Offline Detection
//
// Snapshot.IsOffline reports two or more consecutive failures. The header then
// shows the API as offline instead of presenting stale data as current. A
// single failure only shows the error. Loaded reports whether any refresh has
// finished, so the home screen can tell "loading" from "empty".
//
// # Concurrency Model
//
// Store uses a sync.RWMutex:
//
//   - Update, UpdateLists, Reset: write lock
//   - Snapshot: read lock
//
// The lock is held only while copying, never during network I/O or
// rendering.
//
// # Copying
//
// Snapshot returns slices the caller owns. Featured, Recent and Lists are
// cloned on the way in and on the way out, and LastError is wrapped in a new
// error value. The UI can keep a Snapshot across frames without racing the
// next Update.
//
// # What Is Not Here
//
// Paginated screens (the catalog, a list's games) do not go through Store.
// Each owns a paging.Controller that fetches page by page and notifies the UI
// itself. Store only ever holds the first catalog page.
//
// # Usage Example
//
//	store := &state.Store{}
//	poller := app.NewPoller(store, client, sessions.LoggedIn, cfg.HomeRefresh, logger)
//	_ = poller.Refresh(ctx)
//	poller.Start(ctx)
//
//	snap := store.Snapshot()
//	if snap.IsOffline() {
//		// show the offline banner
//	}
//	for _, g := range snap.Featured {
//		fmt.Println(g.Name)
//	}
//
// # Testing Considerations
//
// Store has no dependencies, so tests drive Update directly with literal
// Home values and errors.New failures, then inspect the Snapshot. Mutating a
// returned slice must not change the next Snapshot.
package state
