// Package ui is the Bubble Tea terminal interface for Vapor.
//
// # Views
//
//   - Home: featured and recent games, category shortcuts and the user's lists
//   - Catalog: every game, paginated, with debounced search
//   - Lists: the user's lists with a fuzzy filter; n creates one
//   - List detail: the games of one list, sortable, x removes a game
//   - Game: store details and achievements; space picks, c completes, a adds to a list
//   - Profile: the signed-in user
//   - Logs: the tail of Vapor's own log file
//   - Login: email and password form shown when there is no session
//
// # Data Flow
//
// Home, Lists and Profile read state.Snapshot, refreshed from state.Store on
// every tick. The catalog and list detail panes each own a paging.Controller.
// Controllers report changes through a shared channel that waitForChange turns
// into a pagerChangedMsg; the model then copies the controller state.
//
// Fetches run inside tea.Cmds so Update never blocks. Mutations show a toast
// and a rejected session sends the user to the login form.
//
// # Usage
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Client:    client,
//		Store:     store,
//		Sessions:  sessions,
//		Config:    &cfg,
//		Refresher: poller,
//		Logger:    logger.Named("ui"),
//		Prefs:     p,
//	})
package ui
