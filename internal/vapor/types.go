package vapor

import (
	"fmt"
	"strings"
	"time"
)

// Game is a catalog entry.
type Game struct {
	ID              int    `json:"id"`
	AppID           int    `json:"appId"`
	Name            string `json:"name"`
	HeaderImageURL  string `json:"headerImageUrl"`
	CapsuleImageURL string `json:"capsuleImageUrl"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (g Game) ParsedCreatedAt() time.Time {
	return parseTime(g.CreatedAt)
}

// GamesPage mirrors GET /games and GET /games-lists/{id}. A nil cursor marks the
// last page.
type GamesPage struct {
	Data   []Game `json:"data"`
	Cursor *int   `json:"cursor"`
}

// Achievement is one unlockable goal of a game.
type Achievement struct {
	ID          int    `json:"id"`
	GameID      int    `json:"game_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Achievements mirrors GET /achievements/{id}.
type Achievements struct {
	List         []Achievement `json:"achievementsList"`
	CompletedIDs []int         `json:"completedAchievementsIds"`
}

// IsCompleted reports whether the user has unlocked the achievement.
func (a Achievements) IsCompleted(id int) bool {
	for _, done := range a.CompletedIDs {
		if done == id {
			return true
		}
	}
	return false
}

// Progress returns the completion percentage rounded to the nearest integer.
func (a Achievements) Progress() int {
	if len(a.List) == 0 {
		return 0
	}
	return (len(a.CompletedIDs)*100 + len(a.List)/2) / len(a.List)
}

// ReleaseDate is the store release information for a game.
type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// GameDetails is the extended store description of a game.
type GameDetails struct {
	AppID               int         `json:"app_id"`
	Name                string      `json:"name"`
	DetailedDescription string      `json:"detailed_description"`
	AboutTheGame        string      `json:"about_the_game"`
	HeaderImage         string      `json:"header_image"`
	Developers          []string    `json:"developers"`
	Publishers          []string    `json:"publishers"`
	Price               string      `json:"price"`
	Categories          []string    `json:"categories"`
	Genres              []string    `json:"genres"`
	ReleaseDate         ReleaseDate `json:"release_date"`
	Background          string      `json:"background"`
}

// List is a user-defined collection of games.
type List struct {
	ID     int     `json:"id"`
	UserID int     `json:"user_id"`
	Name   string  `json:"name"`
	Icon   *string `json:"icon"`
	Color  *string `json:"color"`
}

// IconOr returns the list icon, or fallback when none is set.
func (l List) IconOr(fallback string) string {
	if l.Icon == nil || strings.TrimSpace(*l.Icon) == "" {
		return fallback
	}
	return *l.Icon
}

// ColorOr returns the list color, or fallback when none is set.
func (l List) ColorOr(fallback string) string {
	if l.Color == nil || strings.TrimSpace(*l.Color) == "" {
		return fallback
	}
	return *l.Color
}

// CreateListPayload is the body of POST /lists.
type CreateListPayload struct {
	Name  string `json:"name" validate:"required,max=40"`
	Icon  string `json:"icon,omitempty" validate:"omitempty,max=2"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// ListSort selects the order of GET /games-lists/{id}.
type ListSort struct {
	By    string `validate:"omitempty,oneof=id game_id created_at appId name"`
	Order string `validate:"omitempty,oneof=asc desc"`
}

// ListGamesQuery filters GET /games-lists/{id}.
type ListGamesQuery struct {
	Cursor string
	Search string
	Sort   ListSort
}

// User is the profile returned by GET /users/me.
type User struct {
	ID        int    `json:"id,omitempty"`
	NickName  string `json:"nick_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	AvatarID  *int   `json:"avatar_id,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (u User) ParsedCreatedAt() time.Time {
	return parseTime(u.CreatedAt)
}

// RegisterPayload is the body of POST /users/register.
type RegisterPayload struct {
	NickName  string `json:"nick_name" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Avatar    string `json:"avatar,omitempty"`
}

// RegisterResponse mirrors POST /users/register.
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LoginPayload is the body of POST /users/login.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Data        struct {
		Token string `json:"token"`
	} `json:"data"`
}

func (r loginResponse) bearer() string {
	for _, t := range []string{r.Token, r.AccessToken, r.Data.Token} {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// UpdateUserPayload is the body of PUT /users/{id}.
type UpdateUserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
	AvatarID *int   `json:"avatar_id,omitempty" validate:"omitempty,gt=0"`
}

// Avatar is a selectable profile picture.
type Avatar struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NormalizeBirthDate accepts DD/MM/YYYY or YYYY-MM-DD and returns YYYY-MM-DD.
func NormalizeBirthDate(value string) (string, error) {
	clean := strings.TrimSpace(value)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, clean); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("birth date %q: use DD/MM/YYYY or YYYY-MM-DD", value)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
