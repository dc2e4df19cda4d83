package paging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	query Query
}

// scriptedSource answers queued responses in order and records every query.
type scriptedSource struct {
	mu        sync.Mutex
	calls     []call
	responses []response
}

type response struct {
	page Page[string]
	err  error
}

func (s *scriptedSource) push(items []string, next string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response{page: Page[string]{Items: items, Next: next}})
}

func (s *scriptedSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response{err: err})
}

func (s *scriptedSource) FetchPage(_ context.Context, q Query) (Page[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{query: q})
	if len(s.responses) == 0 {
		return Page[string]{}, errors.New("no scripted response")
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r.page, r.err
}

func (s *scriptedSource) queries() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Query, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.query
	}
	return out
}

// gatedSource blocks each fetch until the test releases it.
type gatedSource struct {
	started chan Query
	release chan response
	calls   atomic.Int32
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		started: make(chan Query, 16),
		release: make(chan response),
	}
}

func (s *gatedSource) FetchPage(ctx context.Context, q Query) (Page[string], error) {
	s.calls.Add(1)
	s.started <- q
	select {
	case r := <-s.release:
		return r.page, r.err
	case <-ctx.Done():
		return Page[string]{}, ctx.Err()
	}
}

func games(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("g%d", i))
	}
	return out
}

func TestController_InitialLoadScenario(t *testing.T) {
	src := &scriptedSource{}
	src.push(games(1, 20), "21")
	c := New[string](src, Options{})

	require.True(t, c.Load(context.Background()))

	require.Equal(t, []Query{{}}, src.queries())
	snap := c.Snapshot()
	assert.Equal(t, games(1, 20), snap.Items)
	token, ok := snap.Cursor.Token()
	require.True(t, ok)
	assert.Equal(t, "21", token)
	assert.False(t, snap.InFlight)
	assert.False(t, snap.LoadingPage)
	assert.NoError(t, snap.LastError)
}

func TestController_AppendUntilExhausted(t *testing.T) {
	src := &scriptedSource{}
	src.push(games(1, 20), "21")
	src.push(games(21, 30), "")
	c := New[string](src, Options{})
	ctx := context.Background()

	require.True(t, c.Load(ctx))
	require.True(t, c.OnScrollNearEnd(ctx))

	qs := src.queries()
	require.Len(t, qs, 2)
	assert.Equal(t, Query{Cursor: "21"}, qs[1])

	snap := c.Snapshot()
	assert.Equal(t, games(1, 30), snap.Items)
	assert.True(t, snap.Cursor.IsExhausted())
	assert.False(t, snap.CanLoadMore())

	for i := 0; i < 3; i++ {
		assert.False(t, c.OnScrollNearEnd(ctx))
	}
	assert.Len(t, src.queries(), 2)
}

func TestController_AppendRequiresToken(t *testing.T) {
	src := &scriptedSource{}
	c := New[string](src, Options{})

	assert.True(t, c.Snapshot().Cursor.IsUnset())
	assert.False(t, c.OnScrollNearEnd(context.Background()))
	assert.Empty(t, src.queries())
}

func TestController_AppendSkippedWhileSearching(t *testing.T) {
	src := &scriptedSource{}
	src.push([]string{"zelda"}, "2")
	c := New[string](src, Options{})
	ctx := context.Background()

	term := "zelda"
	require.True(t, c.RequestPage(ctx, ModeInitial, &term))
	assert.Equal(t, "zelda", c.Snapshot().Search)

	assert.False(t, c.OnScrollNearEnd(ctx))
	assert.Len(t, src.queries(), 1)
}

func TestController_ResetReplacesAppendConcatenates(t *testing.T) {
	for _, mode := range []Mode{ModeInitial, ModeRefresh} {
		t.Run(mode.String(), func(t *testing.T) {
			src := &scriptedSource{}
			src.push([]string{"a", "b", "c"}, "K")
			src.push([]string{"d", "e"}, "L")
			src.push([]string{"x", "y"}, "M")
			c := New[string](src, Options{})
			ctx := context.Background()

			require.True(t, c.Load(ctx))
			require.True(t, c.OnScrollNearEnd(ctx))
			assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.Snapshot().Items)

			require.True(t, c.RequestPage(ctx, mode, nil))
			assert.Equal(t, []string{"x", "y"}, c.Snapshot().Items)

			qs := src.queries()
			assert.Equal(t, Query{}, qs[2], "reset fetch must not send a cursor")
		})
	}
}

func TestController_AppendDoesNotDeduplicate(t *testing.T) {
	src := &scriptedSource{}
	src.push([]string{"a", "b"}, "2")
	src.push([]string{"b", "c"}, "")
	c := New[string](src, Options{})
	ctx := context.Background()

	require.True(t, c.Load(ctx))
	require.True(t, c.OnScrollNearEnd(ctx))
	assert.Equal(t, []string{"a", "b", "b", "c"}, c.Snapshot().Items)
}

func TestController_AppendFailurePreservesState(t *testing.T) {
	src := &scriptedSource{}
	src.push([]string{"a", "b", "c"}, "K")
	boom := errors.New("connection reset")
	src.fail(boom)
	c := New[string](src, Options{})
	ctx := context.Background()

	require.True(t, c.Load(ctx))
	require.True(t, c.OnScrollNearEnd(ctx))

	snap := c.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, snap.Items)
	token, ok := snap.Cursor.Token()
	require.True(t, ok)
	assert.Equal(t, "K", token)

	var terr *TransportError
	require.ErrorAs(t, snap.LastError, &terr)
	assert.Equal(t, ModeAppend, terr.Mode)
	assert.ErrorIs(t, snap.LastError, boom)
	assert.False(t, snap.InFlight)
}

func TestController_ResetFailureClearsItems(t *testing.T) {
	for _, mode := range []Mode{ModeInitial, ModeRefresh} {
		t.Run(mode.String(), func(t *testing.T) {
			src := &scriptedSource{}
			src.push([]string{"a", "b", "c"}, "K")
			src.fail(errors.New("status 503"))
			c := New[string](src, Options{})
			ctx := context.Background()

			require.True(t, c.Load(ctx))
			require.True(t, c.RequestPage(ctx, mode, nil))

			snap := c.Snapshot()
			assert.Empty(t, snap.Items)
			assert.Error(t, snap.LastError)
			assert.False(t, snap.Refreshing)
			assert.False(t, snap.LoadingPage)
			assert.False(t, snap.CanLoadMore())
		})
	}
}

func TestController_SuccessClearsLastError(t *testing.T) {
	src := &scriptedSource{}
	src.fail(errors.New("offline"))
	src.push([]string{"a"}, "")
	c := New[string](src, Options{})
	ctx := context.Background()

	c.Load(ctx)
	require.Error(t, c.Snapshot().LastError)
	c.OnPullToRefresh(ctx)
	assert.NoError(t, c.Snapshot().LastError)
}

func TestController_SingleFlightDropsOverlappingTriggers(t *testing.T) {
	src := newGatedSource()
	c := New[string](src, Options{})
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- c.Load(ctx) }()
	<-src.started

	snap := c.Snapshot()
	require.True(t, snap.InFlight)
	require.True(t, snap.LoadingPage)
	assert.False(t, snap.Refreshing)

	assert.False(t, c.OnPullToRefresh(ctx))
	assert.False(t, c.Load(ctx))
	assert.False(t, c.OnScrollNearEnd(ctx))

	src.release <- response{page: Page[string]{Items: []string{"a"}, Next: "2"}}
	require.True(t, <-done)
	assert.EqualValues(t, 1, src.calls.Load())

	snap = c.Snapshot()
	assert.False(t, snap.InFlight)
	assert.Equal(t, []string{"a"}, snap.Items)
}

func TestController_RefreshSetsRefreshingFlag(t *testing.T) {
	src := newGatedSource()
	c := New[string](src, Options{})

	done := make(chan bool)
	go func() { done <- c.OnPullToRefresh(context.Background()) }()
	<-src.started

	snap := c.Snapshot()
	assert.True(t, snap.Refreshing)
	assert.False(t, snap.LoadingPage)

	src.release <- response{err: errors.New("timeout")}
	<-done
	snap = c.Snapshot()
	assert.False(t, snap.Refreshing)
	assert.False(t, snap.InFlight)
}

func TestController_ConcurrentTriggersIssueOneFetch(t *testing.T) {
	src := newGatedSource()
	c := New[string](src, Options{})
	ctx := context.Background()

	var issued, dropped atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			mode := ModeInitial
			if i%2 == 0 {
				mode = ModeRefresh
			}
			if c.RequestPage(ctx, mode, nil) {
				issued.Add(1)
			} else {
				dropped.Add(1)
			}
		}(i)
	}
	close(start)

	<-src.started
	require.Eventually(t, func() bool { return dropped.Load() == 31 }, testWait, testTick)
	src.release <- response{page: Page[string]{Items: []string{"a"}}}
	wg.Wait()

	assert.EqualValues(t, 1, issued.Load())
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestController_StaleAppendDiscardedAfterSearchChange(t *testing.T) {
	src := newGatedSource()
	clock := newFakeClock()
	c := New[string](src, Options{})
	c.afterFunc = clock.AfterFunc
	ctx := context.Background()

	go c.Load(ctx)
	<-src.started
	src.release <- response{page: Page[string]{Items: []string{"a", "b"}, Next: "3"}}
	require.Eventually(t, func() bool { return !c.Snapshot().InFlight }, testWait, testTick)

	done := make(chan bool)
	go func() { done <- c.OnScrollNearEnd(ctx) }()
	q := <-src.started
	require.Equal(t, "3", q.Cursor)

	c.OnSearchTextChanged("cat")
	src.release <- response{page: Page[string]{Items: []string{"c", "d"}, Next: "5"}}
	require.True(t, <-done)

	snap := c.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.Items, "stale append must not land")
	token, _ := snap.Cursor.Token()
	assert.Equal(t, "3", token)
	assert.False(t, snap.InFlight)
	assert.Equal(t, "cat", snap.Search)
}

func TestController_CloseDiscardsInFlightAndIgnoresTriggers(t *testing.T) {
	src := newGatedSource()
	c := New[string](src, Options{})
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- c.Load(ctx) }()
	<-src.started

	c.Close()
	src.release <- response{page: Page[string]{Items: []string{"a"}}}
	<-done

	assert.Empty(t, c.Snapshot().Items)
	assert.False(t, c.Load(ctx))
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestController_OnChangeNotified(t *testing.T) {
	src := &scriptedSource{}
	src.push([]string{"a"}, "")
	var changes atomic.Int32
	c := New[string](src, Options{OnChange: func() { changes.Add(1) }})

	c.Load(context.Background())
	assert.EqualValues(t, 2, changes.Load(), "one for start, one for completion")
}

func TestController_SnapshotIsACopy(t *testing.T) {
	src := &scriptedSource{}
	src.push([]string{"a", "b"}, "")
	c := New[string](src, Options{})
	c.Load(context.Background())

	snap := c.Snapshot()
	snap.Items[0] = "mutated"
	assert.Equal(t, "a", c.Snapshot().Items[0])
}

func TestCursor_States(t *testing.T) {
	var unset Cursor
	assert.True(t, unset.IsUnset())
	assert.False(t, unset.IsExhausted())
	_, ok := unset.Token()
	assert.False(t, ok)

	tok := TokenCursor("21")
	got, ok := tok.Token()
	assert.True(t, ok)
	assert.Equal(t, "21", got)
	assert.Equal(t, "21", tok.String())

	assert.True(t, TokenCursor("").IsExhausted())
	assert.Equal(t, "<exhausted>", ExhaustedCursor().String())
}
