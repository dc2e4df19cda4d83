package vapor

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/vapor/internal/paging"
)

func TestGamePages_DrivesController(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = io.WriteString(w, `{"data":[{"id":1},{"id":2}],"cursor":3}`)
		case "3":
			_, _ = io.WriteString(w, `{"data":[{"id":3}]}`)
		default:
			http.Error(w, "bad cursor", http.StatusBadRequest)
		}
	}, Options{})
	ctx := testContext(t)

	ctrl := paging.New[Game](c.GamePages(), paging.Options{})
	require.True(t, ctrl.Load(ctx))
	snap := ctrl.Snapshot()
	require.Len(t, snap.Items, 2)
	token, ok := snap.Cursor.Token()
	assert.True(t, ok)
	assert.Equal(t, "3", token)

	require.True(t, ctrl.OnScrollNearEnd(ctx))
	snap = ctrl.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.True(t, snap.Cursor.IsExhausted())
	assert.False(t, ctrl.OnScrollNearEnd(ctx))
}

func TestListGamePages_PassesSortAndSearch(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = fmt.Sprintf("%s?%s", r.URL.Path, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"data":[],"cursor":null}`)
	}, Options{})

	src := c.ListGamePages(4, ListSort{By: "name", Order: "asc"})
	page, err := src.FetchPage(testContext(t), paging.Query{Search: "hades"})
	require.NoError(t, err)
	assert.Empty(t, page.Next)
	assert.Equal(t, "/api/games-lists/4?search=hades&setOrder=asc&sortBy=name", got)
}

func TestGamePages_ErrorSurfacesAsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Options{})

	ctrl := paging.New[Game](c.GamePages(), paging.Options{})
	ctrl.Load(testContext(t))

	err := ctrl.Snapshot().LastError
	var te *paging.TransportError
	require.ErrorAs(t, err, &te)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
