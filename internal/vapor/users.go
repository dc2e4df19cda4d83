package vapor

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Register creates an account.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (RegisterResponse, error) {
	if c == nil {
		return RegisterResponse{}, fmt.Errorf("client is nil")
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if date, err := NormalizeBirthDate(payload.BirthDate); err == nil {
		payload.BirthDate = date
	}
	if err := check("registration", payload); err != nil {
		return RegisterResponse{}, err
	}
	var resp RegisterResponse
	if err := c.send(ctx, http.MethodPost, "/users/register", payload, &resp); err != nil {
		return RegisterResponse{}, err
	}
	return resp, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, payload LoginPayload) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if err := check("credentials", payload); err != nil {
		return "", err
	}
	var resp loginResponse
	if err := c.send(ctx, http.MethodPost, "/users/login", payload, &resp); err != nil {
		return "", err
	}
	token := resp.bearer()
	if token == "" {
		return "", fmt.Errorf("login response has no token")
	}
	return token, nil
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	var payload envelope[User]
	if err := c.get(ctx, "/users/me", nil, &payload); err != nil {
		return User{}, err
	}
	return payload.Data, nil
}

// UpdateUser changes the email, password or avatar of a user.
func (c *Client) UpdateUser(ctx context.Context, id int, payload UpdateUserPayload) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return "", fmt.Errorf("user id required")
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if err := check("profile", payload); err != nil {
		return "", err
	}
	var resp messageResponse
	if err := c.send(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), payload, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Avatars lists the selectable profile pictures.
func (c *Client) Avatars(ctx context.Context) ([]Avatar, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload envelope[[]Avatar]
	if err := c.get(ctx, "/avatars", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// AvatarIDFor returns the id of the avatar whose link matches link.
func AvatarIDFor(avatars []Avatar, link string) (int, bool) {
	for _, a := range avatars {
		if a.Link == link {
			return a.ID, true
		}
	}
	return 0, false
}
