// Package app is the composition root for Vapor.
//
// # Overview
//
// Every other package does one job: config reads settings, logging opens the
// log, session keeps the token, vapor talks HTTP, state holds the home data,
// ui draws. This package builds them in the right order and wires them
// together. The TUI goes through Run. The CLI subcommands in cmd/vapor go
// through Bootstrap and stop before anything long-lived starts.
//
// # Startup Sequence
//
// Bootstrap:
//
//  1. config.Load merges defaults, the TOML file, .env and VAPOR_* variables.
//     Options.APIURL (the --api-url flag) then replaces api_url.
//  2. logging.New opens log_file at log_level. Options.Verbose (--verbose)
//     also mirrors output to stderr; the TUI never sets it.
//  3. session.Store loads session_file. An unreadable file is logged and
//     treated as signed out rather than refusing to start.
//  4. prefs.Load reads prefs_file. A broken file falls back to the default
//     theme and sort with a warning.
//  5. vapor.NewClient builds the API client with request_timeout, the session
//     store as its token source and an OnUnauthorized hook that clears the
//     session when the API rejects the token.
//
// Run continues:
//
//  6. waitForAPI pings the API until it answers, bounded by wake_timeout.
//     Hosted backends hibernate and can take most of a minute to wake. The
//     wait prints one "Waiting for ... to wake up" line and retries with
//     exponential backoff (500ms growing to 5s). Any HTTP response counts
//     as awake, even an error status. Giving up is not fatal: Vapor prints a
//     red notice and the UI starts in its offline state. Cancelling (Ctrl-C)
//     is returned as an error.
//  7. The Poller loads the home data once so the first frame is not empty,
//     then starts its loop.
//  8. ui.Run takes over and blocks until the user quits.
//
// Close flushes the logger and must run on every path after Bootstrap
// succeeds.
//
// # Data Flow
//
//	         ┌────────────── vapor.Client ──────────────┐
//	         │                                          │
//	   Poller.Refresh                          paging.Controller
//	(first catalog page,                   (catalog, list games;
//	 lists, profile)                        one per screen)
//	         │                                          │
//	         ↓                                          ↓
//	    state.Store ──Snapshot on tick──→ ui.Model ←─OnChange─┘
//	                                        │
//	                             Kick after login/logout
//	                             and explicit refresh
//	                                        ↓
//	                                     Poller
//
// # Polling
//
// The Poller fetches the first catalog page and, when a session exists, the
// user's lists and profile. The requests run concurrently in an errgroup. A
// rejected session only drops the personal rows; the catalog still loads.
//
// While the API answers the loop waits home_refresh (default 5 minutes)
// between refreshes. After a failure it retries sooner: 4 seconds after the
// first failure, doubling up to a 30 second cap, so the header recovers
// quickly when the backend returns. Kick wakes the loop immediately; kicks
// made while one is pending coalesce. A refresh cancelled by shutdown does not
// reach the store, so the header never flashes an error on the way out.
//
// # Sessions
//
// Account wraps the session store for the UI. Signing in or out through it
// also calls Client.Forget, which drops the client's cached per-user
// responses, so the next user never sees the previous user's lists.
//
// # Configuration Used
//
//   - api_url, request_timeout: the API client
//   - wake_timeout: step 6
//   - home_refresh: the Poller interval
//   - search_debounce: passed to the UI for its paging controllers
//   - log_file, log_level: logging and the Logs view
//   - session_file, prefs_file: steps 3 and 4
//
// See package config for defaults and sources.
//
// # Error Handling
//
// Bootstrap fails only when the configuration is invalid, the log file cannot
// be opened or the API URL does not parse. Errors are wrapped with the step
// ("load config: ...", "init logging: ..."). Once the UI is running, API
// failures are the UI's business and never end the program.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	if err := app.Run(ctx, app.Options{ConfigPath: path}); err != nil {
//		fmt.Fprintln(os.Stderr, err)
//		os.Exit(1)
//	}
//
// CLI commands use Bootstrap directly:
//
//	rt, err := app.Bootstrap(app.Options{ConfigPath: path, Verbose: verbose})
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//	page, err := rt.Client.Games(ctx, vapor.GameQuery{Search: "portal"})
//
// # Testing Considerations
//
// Poller depends on a small homeLoader interface and waitForAPI on a pinger,
// so both are tested with fakes and no network. Bootstrap is tested against a
// missing config file, with VAPOR_* variables pointing the session, prefs and
// log files into a temp directory.
package app
