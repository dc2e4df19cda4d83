package vapor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL+"/api", opts)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "http://example.com:1234/api" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL accepted url without host")
	}
}

func TestClient_GamesEncodesQueryAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotHeaders http.Header
	var gotPath string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotHeaders = r.Header.Clone()
		_, _ = io.WriteString(w, `{"data":[{"id":1,"appId":10,"name":"Portal"}],"cursor":21}`)
	}, Options{Tokens: staticToken("tok")})

	page, err := c.Games(testContext(t), GameQuery{Cursor: "1", Search: " portal "})
	if err != nil {
		t.Fatalf("Games returned error: %v", err)
	}
	if gotPath != "/api/games" {
		t.Fatalf("path = %q, want /api/games", gotPath)
	}
	if gotQuery.Get("cursor") != "1" || gotQuery.Get("search") != "portal" {
		t.Fatalf("query = %v", gotQuery)
	}
	if gotHeaders.Get("Authorization") != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotHeaders.Get("Authorization"))
	}
	if gotHeaders.Get("User-Agent") != defaultUserAgent {
		t.Fatalf("User-Agent = %q", gotHeaders.Get("User-Agent"))
	}
	if gotHeaders.Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID missing")
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Portal" || page.Data[0].AppID != 10 {
		t.Fatalf("page = %#v", page)
	}
	if page.Cursor == nil || *page.Cursor != 21 {
		t.Fatalf("cursor = %v, want 21", page.Cursor)
	}
}

func TestClient_GamesOmitsEmptyParamsAndAnonymous(t *testing.T) {
	var rawQuery, auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"data":[]}`)
	}, Options{Tokens: staticToken("")})

	page, err := c.Games(testContext(t), GameQuery{})
	if err != nil {
		t.Fatalf("Games returned error: %v", err)
	}
	if rawQuery != "" {
		t.Fatalf("query = %q, want empty", rawQuery)
	}
	if auth != "" {
		t.Fatalf("Authorization = %q, want none", auth)
	}
	if page.Cursor != nil {
		t.Fatalf("cursor = %v, want nil on last page", *page.Cursor)
	}
}

func TestClient_ErrorStatusBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Lista não encontrada"}`)
	}, Options{})

	_, err := c.List(testContext(t), 99)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Path != "/lists/99" {
		t.Fatalf("apiErr = %#v", apiErr)
	}
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("errors.Is mismatch for %v", err)
	}
	if Message(err) != "Lista não encontrada" {
		t.Fatalf("Message = %q", Message(err))
	}
}

func TestClient_UnauthorizedRunsHook(t *testing.T) {
	var hooked atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"jwt expired"}`)
	}, Options{OnUnauthorized: func() { hooked.Add(1) }})

	_, err := c.Me(testContext(t))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if hooked.Load() != 1 {
		t.Fatalf("OnUnauthorized called %d times, want 1", hooked.Load())
	}
	if Message(err) != ErrUnauthorized.Error() {
		t.Fatalf("Message = %q", Message(err))
	}
}

func TestClient_MalformedJSONFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[`)
	}, Options{})

	if _, err := c.Lists(testContext(t)); err == nil {
		t.Fatalf("Lists returned nil error for malformed body")
	}
}

func TestClient_TransportErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.Ping(testContext(t))
	if err == nil {
		t.Fatalf("Ping returned nil error against closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure reported as APIError: %v", err)
	}
}

func TestClient_ListMutationsSendBodies(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var mu sync.Mutex
	var calls []seen

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		mu.Lock()
		calls = append(calls, seen{r.Method, r.URL.Path, body})
		mu.Unlock()
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/lists":
			_, _ = io.WriteString(w, `{"message":"ok","data":{"id":5,"user_id":1,"name":"Co-op","icon":"🎮","color":"#1E90FF"}}`)
		default:
			_, _ = io.WriteString(w, `{"message":"ok"}`)
		}
	}, Options{})
	ctx := testContext(t)

	list, err := c.CreateList(ctx, CreateListPayload{Name: " Co-op ", Icon: "🎮", Color: "#1E90FF"})
	if err != nil {
		t.Fatalf("CreateList returned error: %v", err)
	}
	if list.ID != 5 || list.ColorOr("") != "#1E90FF" || list.IconOr("") != "🎮" {
		t.Fatalf("list = %#v", list)
	}
	if msg, err := c.AddGamesToList(ctx, 5, []int{1, 2}); err != nil || msg != "ok" {
		t.Fatalf("AddGamesToList = %q, %v", msg, err)
	}
	if err := c.RemoveGameFromList(ctx, 5, 2); err != nil {
		t.Fatalf("RemoveGameFromList returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(calls))
	}
	if calls[0].body["name"] != "Co-op" {
		t.Fatalf("create body = %v, want trimmed name", calls[0].body)
	}
	if calls[1].method != http.MethodPost || calls[1].path != "/api/games-lists/5" {
		t.Fatalf("add call = %+v", calls[1])
	}
	if calls[2].method != http.MethodDelete || calls[2].path != "/api/games-lists/5" {
		t.Fatalf("remove call = %+v", calls[2])
	}
	ids, _ := calls[2].body["gameIds"].([]any)
	if len(ids) != 1 || ids[0] != float64(2) {
		t.Fatalf("remove body = %v", calls[2].body)
	}
}

func TestClient_ValidationRejectsBeforeRequest(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, Options{})
	ctx := testContext(t)

	cases := map[string]error{}
	_, cases["empty list name"] = c.CreateList(ctx, CreateListPayload{Name: "   "})
	_, cases["long list name"] = c.CreateList(ctx, CreateListPayload{Name: "0123456789012345678901234567890123456789X"})
	_, cases["bad color"] = c.CreateList(ctx, CreateListPayload{Name: "x", Color: "blue"})
	_, cases["no games"] = c.AddGamesToList(ctx, 1, nil)
	_, cases["bad email"] = c.Login(ctx, LoginPayload{Email: "nope", Password: "x"})
	_, cases["short password"] = c.Register(ctx, RegisterPayload{
		NickName: "n", FirstName: "f", LastName: "l", Email: "a@b.co", Password: "123", BirthDate: "01/02/2000",
	})
	_, cases["bad sort"] = c.ListGames(ctx, 1, ListGamesQuery{Sort: ListSort{By: "rating"}})
	cases["no achievements"] = c.CompleteAchievements(ctx, 1, nil)

	for name, err := range cases {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: err = %v, want *ValidationError", name, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("server hit %d times, want 0", hits.Load())
	}
}

func TestClient_LoginAcceptsTokenShapes(t *testing.T) {
	bodies := []string{`{"token":"a"}`, `{"access_token":"a"}`, `{"data":{"token":"a"}}`}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/users/login" {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, body)
		}, Options{})
		token, err := c.Login(testContext(t), LoginPayload{Email: "a@b.co", Password: "secret"})
		if err != nil || token != "a" {
			t.Fatalf("Login(%s) = %q, %v", body, token, err)
		}
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}, Options{})
	if _, err := c.Login(testContext(t), LoginPayload{Email: "a@b.co", Password: "secret"}); err == nil {
		t.Fatalf("Login accepted response without token")
	}
}

func TestClient_RegisterNormalizesBirthDate(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"message":"created","user":{"nick_name":"ana","role":"user"}}`)
	}, Options{})

	resp, err := c.Register(testContext(t), RegisterPayload{
		NickName: "ana", FirstName: "Ana", LastName: "Lima", Email: "ana@example.com",
		Password: "secret1", BirthDate: "31/12/1999",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if got["birth_date"] != "1999-12-31" {
		t.Fatalf("birth_date = %v", got["birth_date"])
	}
	if resp.User.NickName != "ana" || resp.Message != "created" {
		t.Fatalf("resp = %#v", resp)
	}
}

func TestClient_AchievementsCachedUntilCompleted(t *testing.T) {
	var gets atomic.Int32
	var posted map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/achievements/7" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&posted)
			_, _ = io.WriteString(w, `{"message":"ok"}`)
			return
		}
		gets.Add(1)
		_, _ = io.WriteString(w, `{"achievementsList":[{"id":1,"name":"A"},{"id":2,"name":"B"},{"id":3,"name":"C"}],"completedAchievementsIds":[1]}`)
	}, Options{})
	ctx := testContext(t)

	a, err := c.Achievements(ctx, 7)
	if err != nil {
		t.Fatalf("Achievements returned error: %v", err)
	}
	if a.Progress() != 33 || !a.IsCompleted(1) || a.IsCompleted(2) {
		t.Fatalf("achievements = %#v progress %d", a, a.Progress())
	}
	if _, err := c.Achievements(ctx, 7); err != nil {
		t.Fatalf("second Achievements returned error: %v", err)
	}
	if gets.Load() != 1 {
		t.Fatalf("GET count = %d, want 1 (cached)", gets.Load())
	}

	if err := c.CompleteAchievements(ctx, 7, []int{2, 3}); err != nil {
		t.Fatalf("CompleteAchievements returned error: %v", err)
	}
	ids, _ := posted["achievementsIds"].([]any)
	if len(ids) != 2 {
		t.Fatalf("posted = %v", posted)
	}
	if _, err := c.Achievements(ctx, 7); err != nil {
		t.Fatalf("Achievements after complete returned error: %v", err)
	}
	if gets.Load() != 2 {
		t.Fatalf("GET count = %d, want 2 after invalidation", gets.Load())
	}
}

func TestClient_GameDetailsCached(t *testing.T) {
	var gets atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/games/620/details" {
			http.NotFound(w, r)
			return
		}
		gets.Add(1)
		_, _ = io.WriteString(w, `{"data":{"app_id":620,"name":"Portal 2","genres":["Puzzle"],"release_date":{"coming_soon":false,"date":"18 Apr, 2011"}}}`)
	}, Options{})
	ctx := testContext(t)

	for i := 0; i < 3; i++ {
		d, err := c.GameDetails(ctx, 620)
		if err != nil {
			t.Fatalf("GameDetails returned error: %v", err)
		}
		if d.Name != "Portal 2" || d.ReleaseDate.Date != "18 Apr, 2011" {
			t.Fatalf("details = %#v", d)
		}
	}
	if gets.Load() != 1 {
		t.Fatalf("GET count = %d, want 1", gets.Load())
	}

	c.Forget()
	if _, err := c.GameDetails(ctx, 620); err != nil {
		t.Fatalf("GameDetails returned error: %v", err)
	}
	if gets.Load() != 2 {
		t.Fatalf("GET count = %d, want 2 after Forget", gets.Load())
	}
}

func TestClient_ProfileEndpoints(t *testing.T) {
	var putBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/users/me":
			_, _ = io.WriteString(w, `{"data":{"id":3,"nick_name":"ana","first_name":"Ana","last_name":"Lima","avatar":"http://a/2.png","created_at":"2024-01-02T03:04:05Z"}}`)
		case r.URL.Path == "/api/avatars":
			_, _ = io.WriteString(w, `{"data":[{"id":1,"link":"http://a/1.png"},{"id":2,"link":"http://a/2.png"}]}`)
		case r.URL.Path == "/api/users/3" && r.Method == http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&putBody)
			_, _ = io.WriteString(w, `{"message":"updated"}`)
		default:
			http.NotFound(w, r)
		}
	}, Options{})
	ctx := testContext(t)

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if me.FullName() != "Ana Lima" || me.ParsedCreatedAt().Year() != 2024 {
		t.Fatalf("me = %#v", me)
	}
	avatars, err := c.Avatars(ctx)
	if err != nil {
		t.Fatalf("Avatars returned error: %v", err)
	}
	id, ok := AvatarIDFor(avatars, me.Avatar)
	if !ok || id != 2 {
		t.Fatalf("AvatarIDFor = %d, %v", id, ok)
	}

	msg, err := c.UpdateUser(ctx, me.ID, UpdateUserPayload{Email: "ana@example.com", AvatarID: &id})
	if err != nil || msg != "updated" {
		t.Fatalf("UpdateUser = %q, %v", msg, err)
	}
	if _, hasPassword := putBody["password"]; hasPassword {
		t.Fatalf("empty password was sent: %v", putBody)
	}
	if putBody["avatar_id"] != float64(2) {
		t.Fatalf("avatar_id = %v", putBody["avatar_id"])
	}
}

func TestNormalizeBirthDate(t *testing.T) {
	for in, want := range map[string]string{"31/12/1999": "1999-12-31", " 1999-12-31 ": "1999-12-31"} {
		got, err := NormalizeBirthDate(in)
		if err != nil || got != want {
			t.Fatalf("NormalizeBirthDate(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := NormalizeBirthDate("12-31-1999"); err == nil {
		t.Fatalf("NormalizeBirthDate accepted bad layout")
	}
}
