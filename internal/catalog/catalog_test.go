package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/credential"
)

// pagedLister serves a fixed dataset per year, sliced by limit and offset.
type pagedLister struct {
	mu      sync.Mutex
	data    map[int][]activity.Activity
	err     error
	queries []activity.ListQuery
}

func (p *pagedLister) List(_ context.Context, q activity.ListQuery) ([]activity.Activity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, q)
	if p.err != nil {
		return nil, p.err
	}

	all := p.data[q.Filters.Year]
	if q.Offset >= len(all) {
		return []activity.Activity{}, nil
	}
	end := min(q.Offset+q.Limit, len(all))
	return all[q.Offset:end], nil
}

// gatedLister hands every call to the test, which decides when and how it
// resolves.
type gatedLister struct {
	calls chan *gatedCall
}

type gatedCall struct {
	q    activity.ListQuery
	resp chan gatedResult
}

type gatedResult struct {
	items []activity.Activity
	err   error
}

func newGatedLister() *gatedLister {
	return &gatedLister{calls: make(chan *gatedCall, 4)}
}

func (g *gatedLister) List(ctx context.Context, q activity.ListQuery) ([]activity.Activity, error) {
	call := &gatedCall{q: q, resp: make(chan gatedResult, 1)}
	g.calls <- call
	select {
	case r := <-call.resp:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedLister) next(t *testing.T) *gatedCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("expected a remote call")
		return nil
	}
}

func series(prefix string, n int) []activity.Activity {
	out := make([]activity.Activity, n)
	for i := range out {
		out[i] = activity.Activity{ID: fmt.Sprintf("%s-%02d", prefix, i)}
	}
	return out
}

func ids(items []activity.Activity) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func newTestCatalog(l activity.Lister, pageSize int) *Catalog {
	return New(l, credential.Static("tok"), pageSize, zerolog.New(io.Discard))
}

func TestCatalog_FirstPage(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{2024: series("y24", 7)}}
	c := newTestCatalog(l, 3)

	require.NoError(t, c.Load(context.Background(), activity.Filters{Year: 2024}, false))

	snap := c.Snapshot()
	assert.Equal(t, []string{"y24-00", "y24-01", "y24-02"}, ids(snap.Items))
	assert.Equal(t, 2, snap.Page)
	assert.True(t, snap.CanLoadMore)
	assert.Equal(t, StateLoaded, snap.State)
	assert.Empty(t, snap.Err)

	require.Len(t, l.queries, 1)
	assert.Equal(t, activity.ListQuery{Limit: 3, Offset: 0, Filters: activity.Filters{Year: 2024}}, l.queries[0])
}

func TestCatalog_AppendPreservesServerOrder(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{0: series("a", 7)}}
	c := newTestCatalog(l, 3)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, activity.Filters{}, false))
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	assert.Equal(t, ids(series("a", 7)), ids(c.Items()))
	assert.False(t, c.CanLoadMore(), "third page is short")

	offsets := make([]int, 0, len(l.queries))
	for _, q := range l.queries {
		offsets = append(offsets, q.Offset)
	}
	assert.Equal(t, []int{0, 3, 6}, offsets)
}

func TestCatalog_ShortPageStopsPaging(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{2024: series("y24", 2)}}
	c := newTestCatalog(l, 5)
	ctx := context.Background()
	f := activity.Filters{Year: 2024}

	require.NoError(t, c.Load(ctx, f, false))
	assert.False(t, c.CanLoadMore())

	require.NoError(t, c.Load(ctx, f, true))

	assert.Len(t, l.queries, 1, "append after the last page does not call the remote")
	assert.Equal(t, []string{"y24-00", "y24-01"}, ids(c.Items()))
}

func TestCatalog_ExactPageThenEmpty(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{0: series("a", 4)}}
	c := newTestCatalog(l, 2)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, activity.Filters{}, false))
	require.NoError(t, c.LoadMore(ctx))
	assert.True(t, c.CanLoadMore(), "a full page may be followed by more")

	require.NoError(t, c.LoadMore(ctx))
	assert.False(t, c.CanLoadMore())
	assert.Len(t, c.Items(), 4)
	assert.Equal(t, 4, c.Snapshot().Page)
}

func TestCatalog_FilterChangeResets(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{
		2024: series("y24", 6),
		2023: series("y23", 6),
	}}
	c := newTestCatalog(l, 3)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, activity.Filters{Year: 2024}, false))
	require.NoError(t, c.LoadMore(ctx))
	require.Len(t, c.Items(), 6)

	require.NoError(t, c.Load(ctx, activity.Filters{Year: 2023}, false))

	snap := c.Snapshot()
	assert.Equal(t, []string{"y23-00", "y23-01", "y23-02"}, ids(snap.Items))
	assert.Equal(t, activity.Filters{Year: 2023}, snap.Filters)
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, 0, l.queries[len(l.queries)-1].Offset)
}

func TestCatalog_AppendWithDifferentFiltersResets(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{
		2024: series("y24", 6),
		2023: series("y23", 6),
	}}
	c := newTestCatalog(l, 3)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, activity.Filters{Year: 2024}, false))
	require.NoError(t, c.Load(ctx, activity.Filters{Year: 2023}, true))

	assert.Equal(t, []string{"y23-00", "y23-01", "y23-02"}, ids(c.Items()))
	assert.Equal(t, 0, l.queries[1].Offset)
}

func TestCatalog_FailureKeepsCounters(t *testing.T) {
	l := &pagedLister{data: map[int][]activity.Activity{0: series("a", 6)}}
	c := newTestCatalog(l, 3)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx, activity.Filters{}, false))

	l.err = &apierr.Error{Status: 500}
	require.Error(t, c.LoadMore(ctx))

	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "Failed to fetch activities.", snap.Err)
	assert.Equal(t, 2, snap.Page)
	assert.True(t, snap.CanLoadMore)
	assert.Len(t, snap.Items, 3)

	l.err = nil
	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, ids(series("a", 6)), ids(c.Items()))
	assert.Equal(t, 3, l.queries[len(l.queries)-1].Offset, "retry requests the same page")
}

func TestCatalog_NoCredential(t *testing.T) {
	l := &pagedLister{}
	c := New(l, credential.Static(""), 3, zerolog.New(io.Discard))

	err := c.Load(context.Background(), activity.Filters{}, false)

	require.ErrorIs(t, err, credential.ErrMissing)
	assert.Empty(t, l.queries)
	assert.Equal(t, apierr.MsgNotAuthenticated, c.Snapshot().Err)
}

func TestCatalog_StaleResponseIsDropped(t *testing.T) {
	l := newGatedLister()
	c := newTestCatalog(l, 3)
	ctx := context.Background()

	done24 := make(chan error, 1)
	go func() { done24 <- c.Load(ctx, activity.Filters{Year: 2024}, false) }()
	call24 := l.next(t)
	require.Equal(t, 2024, call24.q.Filters.Year)

	done23 := make(chan error, 1)
	go func() { done23 <- c.Load(ctx, activity.Filters{Year: 2023}, false) }()
	call23 := l.next(t)
	require.Equal(t, 2023, call23.q.Filters.Year)

	// 2023 resolves first, then the older 2024 request.
	call23.resp <- gatedResult{items: series("y23", 2)}
	require.NoError(t, <-done23)

	call24.resp <- gatedResult{items: series("y24", 3)}
	require.ErrorIs(t, <-done24, ErrSuperseded)

	snap := c.Snapshot()
	assert.Equal(t, []string{"y23-00", "y23-01"}, ids(snap.Items))
	assert.Equal(t, activity.Filters{Year: 2023}, snap.Filters)
	assert.False(t, snap.CanLoadMore)
	assert.Equal(t, StateLoaded, snap.State)
}

func TestCatalog_StaleFailureIsDropped(t *testing.T) {
	l := newGatedLister()
	c := newTestCatalog(l, 3)
	ctx := context.Background()

	done1 := make(chan error, 1)
	go func() { done1 <- c.Load(ctx, activity.Filters{Month: 1}, false) }()
	first := l.next(t)

	done2 := make(chan error, 1)
	go func() { done2 <- c.Load(ctx, activity.Filters{Month: 2}, false) }()
	second := l.next(t)

	first.resp <- gatedResult{err: errors.New("boom")}
	require.ErrorIs(t, <-done1, ErrSuperseded)
	assert.Empty(t, c.Snapshot().Err, "stale failure does not surface")

	second.resp <- gatedResult{items: series("m2", 1)}
	require.NoError(t, <-done2)
	assert.Equal(t, []string{"m2-00"}, ids(c.Items()))
}

func TestCatalog_AppendWhileLoadingIsNoop(t *testing.T) {
	l := newGatedLister()
	c := newTestCatalog(l, 2)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Load(ctx, activity.Filters{}, false) }()
	call := l.next(t)
	assert.Equal(t, StateLoading, c.Snapshot().State)

	require.NoError(t, c.LoadMore(ctx))
	select {
	case <-l.calls:
		t.Fatal("append during an in-flight load must not call the remote")
	default:
	}

	call.resp <- gatedResult{items: series("a", 2)}
	require.NoError(t, <-done)
	assert.Len(t, c.Items(), 2, "no duplicate page")
}

func TestNew_DefaultPageSize(t *testing.T) {
	c := New(&pagedLister{}, credential.Static("tok"), 0, zerolog.New(io.Discard))
	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateLoading, "loading"},
		{StateLoaded, "loaded"},
		{StateError, "error"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}
