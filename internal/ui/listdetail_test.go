package ui

import (
	"testing"

	"github.com/five82/vapor/internal/paging"
	"github.com/five82/vapor/internal/prefs"
	"github.com/five82/vapor/internal/vapor"
)

func openBacklog(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m, _ := newTestModel(t, api, &fakeSessions{token: "t", email: "ana@example.com"})
	next, cmd := m.openList(vapor.List{ID: 7, Name: "Backlog"})
	m = settle(t, next.(Model), cmd)
	if m.currentView != ViewListDetail {
		t.Fatalf("currentView = %v, want List", m.currentView)
	}
	return m
}

func TestListDetail_SortReloadsWithCurrentSearch(t *testing.T) {
	api := &fakeAPI{games: []vapor.Game{
		{ID: 1, Name: "Portal"},
		{ID: 2, Name: "Hades"},
		{ID: 3, Name: "Portal 2"},
	}}
	m := openBacklog(t, api)
	if m.listDetail.sort != listSorts[0] {
		t.Fatalf("initial sort = %+v, want %+v", m.listDetail.sort, listSorts[0])
	}

	api.resetQueries()
	m.listDetail.games.search.SetValue("po")
	oldPager := m.listDetail.games.pager
	m = update(t, m, runes("s"))

	if m.listDetail.games.pager == oldPager {
		t.Fatal("sort change should rebuild the controller")
	}
	api.mu.Lock()
	sorts := append([]vapor.ListSort(nil), api.listSorts...)
	api.mu.Unlock()
	if got := sorts[len(sorts)-1]; got != listSorts[1] {
		t.Fatalf("source sort = %+v, want %+v", got, listSorts[1])
	}

	queries := api.seenQueries()
	if len(queries) != 1 || queries[0] != (paging.Query{Search: "po"}) {
		t.Fatalf("queries = %#v, want one reset with search po", queries)
	}
	if got := gameNames(m.listDetail.games.state.Items); len(got) != 2 || got[0] != "Portal" || got[1] != "Portal 2" {
		t.Fatalf("items = %v", got)
	}
	if m.listDetail.games.state.Search != "po" || m.listDetail.games.search.Value() != "po" {
		t.Fatalf("search = %q / %q, want po", m.listDetail.games.state.Search, m.listDetail.games.search.Value())
	}
	if m.toast.text != "Sorted by date added ↑" {
		t.Fatalf("toast = %q", m.toast.text)
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load prefs: %v", err)
	}
	if saved.ListSortBy != "created_at" || saved.ListSortOrder != "asc" {
		t.Fatalf("saved sort = %s %s, want created_at asc", saved.ListSortBy, saved.ListSortOrder)
	}
}

func TestListDetail_RemoveConfirmsThenRefreshes(t *testing.T) {
	api := &fakeAPI{games: []vapor.Game{
		{ID: 1, Name: "Portal"},
		{ID: 2, Name: "Hades"},
		{ID: 3, Name: "Celeste"},
	}}
	m := openBacklog(t, api)
	m = press(t, m, downKey, runes("x"))
	if _, ok := m.modal.(*confirmModal); !ok {
		t.Fatalf("modal = %T, want confirm", m.modal)
	}

	api.resetQueries()
	seen := watchPager(api, m.listDetail.games.pager)
	m = update(t, m, runes("y"))

	api.mu.Lock()
	removed := append([][2]int(nil), api.removed...)
	api.mu.Unlock()
	if len(removed) != 1 || removed[0] != [2]int{7, 2} {
		t.Fatalf("removed = %v, want Hades from list 7", removed)
	}
	if m.modal != nil {
		t.Fatal("confirm should close the modal")
	}

	queries := api.seenQueries()
	if len(queries) != 1 || queries[0] != (paging.Query{}) {
		t.Fatalf("queries = %#v, want one first-page reload", queries)
	}
	if st := nextFetch(t, seen); !st.Refreshing || st.LoadingPage {
		t.Fatalf("state during reload = %+v, want Refreshing", st)
	}
	if got := gameNames(m.listDetail.games.state.Items); len(got) != 2 || got[0] != "Portal" || got[1] != "Celeste" {
		t.Fatalf("items = %v", got)
	}
	if m.toast.text != "Removed Hades" {
		t.Fatalf("toast = %q", m.toast.text)
	}
}

func TestListDetail_RemoveCancelled(t *testing.T) {
	api := &fakeAPI{games: []vapor.Game{{ID: 1, Name: "Portal"}}}
	m := openBacklog(t, api)
	m = press(t, m, runes("x"), runes("n"))

	if m.modal != nil {
		t.Fatal("n should close the modal")
	}
	if len(api.removed) != 0 {
		t.Fatalf("removed = %v, want none", api.removed)
	}
	if got := len(m.listDetail.games.state.Items); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}
}
