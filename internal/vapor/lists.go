package vapor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Lists fetches the user's lists.
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload envelope[[]List]
	if err := c.get(ctx, "/lists", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// List fetches one list by id.
func (c *Client) List(ctx context.Context, id int) (List, error) {
	if c == nil {
		return List{}, fmt.Errorf("client is nil")
	}
	var payload envelope[List]
	if err := c.get(ctx, "/lists/"+strconv.Itoa(id), nil, &payload); err != nil {
		return List{}, err
	}
	return payload.Data, nil
}

// CreateList creates a list and returns it.
func (c *Client) CreateList(ctx context.Context, payload CreateListPayload) (List, error) {
	if c == nil {
		return List{}, fmt.Errorf("client is nil")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Icon = strings.TrimSpace(payload.Icon)
	if err := check("list", payload); err != nil {
		return List{}, err
	}
	var resp envelope[List]
	if err := c.send(ctx, http.MethodPost, "/lists", payload, &resp); err != nil {
		return List{}, err
	}
	return resp.Data, nil
}

type gameIDsPayload struct {
	GameIDs []int `json:"gameIds" validate:"required,min=1,dive,gt=0"`
}

// AddGamesToList adds games to a list and returns the server's message.
func (c *Client) AddGamesToList(ctx context.Context, listID int, gameIDs []int) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	payload := gameIDsPayload{GameIDs: gameIDs}
	if err := check("games", payload); err != nil {
		return "", err
	}
	var resp messageResponse
	if err := c.send(ctx, http.MethodPost, "/games-lists/"+strconv.Itoa(listID), payload, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RemoveGameFromList removes one game from a list.
func (c *Client) RemoveGameFromList(ctx context.Context, listID, gameID int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	payload := gameIDsPayload{GameIDs: []int{gameID}}
	if err := check("games", payload); err != nil {
		return err
	}
	var resp messageResponse
	if err := c.send(ctx, http.MethodDelete, "/games-lists/"+strconv.Itoa(listID), payload, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("remove game %d from list %d: %s", gameID, listID, resp.Error)
	}
	return nil
}

// ListGames fetches one page of the games in a list.
func (c *Client) ListGames(ctx context.Context, listID int, query ListGamesQuery) (GamesPage, error) {
	if c == nil {
		return GamesPage{}, fmt.Errorf("client is nil")
	}
	if err := check("sort", query.Sort); err != nil {
		return GamesPage{}, err
	}
	values := url.Values{}
	if cursor := strings.TrimSpace(query.Cursor); cursor != "" {
		values.Set("cursor", cursor)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	if query.Sort.By != "" {
		values.Set("sortBy", query.Sort.By)
	}
	if query.Sort.Order != "" {
		values.Set("setOrder", query.Sort.Order)
	}
	var page GamesPage
	if err := c.get(ctx, "/games-lists/"+strconv.Itoa(listID), values, &page); err != nil {
		return GamesPage{}, err
	}
	return page, nil
}
