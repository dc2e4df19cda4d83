package vapor

import (
	"context"
	"strconv"

	"github.com/five82/vapor/internal/paging"
)

// GamePages exposes the catalog as a paginated source.
func (c *Client) GamePages() paging.Source[Game] {
	return paging.SourceFunc[Game](func(ctx context.Context, q paging.Query) (paging.Page[Game], error) {
		page, err := c.Games(ctx, GameQuery{Cursor: q.Cursor, Search: q.Search})
		if err != nil {
			return paging.Page[Game]{}, err
		}
		return toPage(page), nil
	})
}

// ListGamePages exposes the games of one list as a paginated source.
func (c *Client) ListGamePages(listID int, sort ListSort) paging.Source[Game] {
	return paging.SourceFunc[Game](func(ctx context.Context, q paging.Query) (paging.Page[Game], error) {
		page, err := c.ListGames(ctx, listID, ListGamesQuery{Cursor: q.Cursor, Search: q.Search, Sort: sort})
		if err != nil {
			return paging.Page[Game]{}, err
		}
		return toPage(page), nil
	})
}

func toPage(page GamesPage) paging.Page[Game] {
	out := paging.Page[Game]{Items: page.Data}
	if page.Cursor != nil {
		out.Next = strconv.Itoa(*page.Cursor)
	}
	return out
}
