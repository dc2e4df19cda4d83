package vapor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GameQuery filters GET /games. Cursor is the opaque token from the previous page.
type GameQuery struct {
	Cursor string
	Search string
}

// Games fetches one page of the catalog.
func (c *Client) Games(ctx context.Context, query GameQuery) (GamesPage, error) {
	if c == nil {
		return GamesPage{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if cursor := strings.TrimSpace(query.Cursor); cursor != "" {
		values.Set("cursor", cursor)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	var page GamesPage
	if err := c.get(ctx, "/games", values, &page); err != nil {
		return GamesPage{}, err
	}
	return page, nil
}

// GameDetails fetches the store description of a game. Results are cached.
func (c *Client) GameDetails(ctx context.Context, appID int) (GameDetails, error) {
	if c == nil {
		return GameDetails{}, fmt.Errorf("client is nil")
	}
	if appID <= 0 {
		return GameDetails{}, fmt.Errorf("app id required")
	}
	key := detailsKey(appID)
	if details, ok := cached[GameDetails](c.cache, key); ok {
		return details, nil
	}
	var payload envelope[GameDetails]
	if err := c.get(ctx, "/games/"+strconv.Itoa(appID)+"/details", nil, &payload); err != nil {
		return GameDetails{}, err
	}
	c.cache.put(key, payload.Data)
	return payload.Data, nil
}

// Achievements fetches a game's achievements and the user's progress. Results are
// cached until CompleteAchievements changes them.
func (c *Client) Achievements(ctx context.Context, gameID int) (Achievements, error) {
	if c == nil {
		return Achievements{}, fmt.Errorf("client is nil")
	}
	if gameID <= 0 {
		return Achievements{}, fmt.Errorf("game id required")
	}
	key := achievementsKey(gameID)
	if a, ok := cached[Achievements](c.cache, key); ok {
		return a, nil
	}
	var payload Achievements
	if err := c.get(ctx, "/achievements/"+strconv.Itoa(gameID), nil, &payload); err != nil {
		return Achievements{}, err
	}
	c.cache.put(key, payload)
	return payload, nil
}

type completeAchievementsPayload struct {
	AchievementIDs []int `json:"achievementsIds" validate:"required,min=1,dive,gt=0"`
}

// CompleteAchievements marks achievements of a game as unlocked.
func (c *Client) CompleteAchievements(ctx context.Context, gameID int, ids []int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if gameID <= 0 {
		return fmt.Errorf("game id required")
	}
	payload := completeAchievementsPayload{AchievementIDs: ids}
	if err := check("achievements", payload); err != nil {
		return err
	}
	if err := c.send(ctx, http.MethodPost, "/achievements/"+strconv.Itoa(gameID), payload, nil); err != nil {
		return err
	}
	c.cache.drop(achievementsKey(gameID))
	return nil
}
