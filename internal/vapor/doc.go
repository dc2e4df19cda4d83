// Package vapor provides an HTTP client for the Vapor game catalog API.
//
// # Overview
//
// The client covers the catalog, achievements, user lists and accounts. Every
// request carries Accept and User-Agent headers, a fresh X-Request-ID, and the
// session bearer token when one is available.
//
//	client, err := vapor.NewClient(cfg.APIURL, vapor.Options{
//		Timeout:        cfg.RequestTimeout,
//		Tokens:         sessions,
//		OnUnauthorized: func() { _ = sessions.Clear() },
//		Logger:         logger.Named("api"),
//	})
//
//	page, err := client.Games(ctx, vapor.GameQuery{Search: "portal"})
//
// # Endpoints
//
//   - GET /games: catalog page (cursor, search)
//   - GET /games/{appId}/details: store description, cached
//   - GET|POST /achievements/{gameId}: achievements and completion, cached
//   - GET|POST /lists, GET /lists/{id}: user lists
//   - GET|POST|DELETE /games-lists/{id}: games in a list (cursor, sortBy, setOrder)
//   - POST /users/register, POST /users/login, GET /users/me, PUT /users/{id}
//   - GET /avatars
//
// # Pagination
//
// GamePages and ListGamePages adapt the paged endpoints to paging.Source so
// screens can drive them with a paging.Controller. A missing or null cursor in
// the response marks the last page.
//
// # Errors
//
// Non-2xx responses return *APIError carrying the server's message. A 401 or
// 403 also matches ErrUnauthorized and triggers Options.OnUnauthorized. Payloads
// are validated before sending; failures return *ValidationError without a
// request being made. Network failures are wrapped with the request context.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package vapor
