package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/paging"
	"github.com/five82/vapor/internal/vapor"
)

func pagedSource(pages map[string]paging.Page[vapor.Game], seen *[]paging.Query) paging.Source[vapor.Game] {
	return paging.SourceFunc[vapor.Game](func(_ context.Context, q paging.Query) (paging.Page[vapor.Game], error) {
		*seen = append(*seen, q)
		if q.Search == "boom" {
			return paging.Page[vapor.Game]{}, errors.New("boom")
		}
		return pages[q.Cursor], nil
	})
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestCollectPages_FollowsCursor(t *testing.T) {
	var seen []paging.Query
	src := pagedSource(map[string]paging.Page[vapor.Game]{
		"":  {Items: []vapor.Game{{ID: 1}, {ID: 2}}, Next: "3"},
		"3": {Items: []vapor.Game{{ID: 3}}, Next: "4"},
		"4": {Items: []vapor.Game{{ID: 4}}},
	}, &seen)

	games, state, err := collectPages(testCmd(), src, "", 2, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, games, 3)
	assert.True(t, state.CanLoadMore())
	assert.Len(t, seen, 2)

	seen = nil
	games, state, err = collectPages(testCmd(), src, "", 10, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, games, 4)
	assert.False(t, state.CanLoadMore())
	assert.Len(t, seen, 3)
}

func TestCollectPages_SearchIsSinglePage(t *testing.T) {
	var seen []paging.Query
	src := pagedSource(map[string]paging.Page[vapor.Game]{
		"": {Items: []vapor.Game{{ID: 1}}, Next: "2"},
	}, &seen)

	_, _, err := collectPages(testCmd(), src, "portal", 5, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "portal", seen[0].Search)
}

func TestCollectPages_Error(t *testing.T) {
	var seen []paging.Query
	_, _, err := collectPages(testCmd(), pagedSource(nil, &seen), "boom", 1, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
