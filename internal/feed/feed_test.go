package feed

import (
	"context"
	"errors"
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

// mockLister implements activity.Lister for testing.
type mockLister struct {
	mu      sync.Mutex
	queries []activity.ListQuery
	items   []activity.Activity
	err     error
	block   chan struct{} // when set, List waits for it to close
	started chan struct{}
}

func (m *mockLister) List(ctx context.Context, q activity.ListQuery) ([]activity.Activity, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	block, started := m.block, m.started
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.items, m.err
}

func (m *mockLister) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

func acts(ids ...string) []activity.Activity {
	out := make([]activity.Activity, 0, len(ids))
	for _, id := range ids {
		out = append(out, activity.Activity{ID: id})
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

func newTestFeed(l activity.Lister, creds credential.Provider) *Feed {
	return New(l, creds, 5, zerolog.New(io.Discard))
}

func TestFeed_Refresh(t *testing.T) {
	l := &mockLister{items: acts("a1", "a2", "a3")}
	f := newTestFeed(l, credential.Static("tok"))

	require.NoError(t, f.Refresh(context.Background()))

	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(f.Items()))
	assert.Empty(t, f.Err())
	assert.False(t, f.Loading())
	require.Len(t, l.queries, 1)
	assert.Equal(t, activity.ListQuery{Limit: 5}, l.queries[0])
}

func TestFeed_RefreshReplacesWholesale(t *testing.T) {
	l := &mockLister{items: acts("a1", "a2")}
	f := newTestFeed(l, credential.Static("tok"))
	require.NoError(t, f.Refresh(context.Background()))

	l.items = acts("a3")
	require.NoError(t, f.Refresh(context.Background()))

	assert.Equal(t, []string{"a3"}, ids(f.Items()))
}

func TestFeed_NoCredential(t *testing.T) {
	l := &mockLister{items: acts("a1")}
	f := newTestFeed(l, credential.Static(""))

	err := f.Refresh(context.Background())

	require.ErrorIs(t, err, credential.ErrMissing)
	assert.Equal(t, apierr.MsgNotAuthenticated, f.Err())
	assert.Equal(t, 0, l.calls(), "no network call without a credential")
	assert.False(t, f.Loading())
}

func TestFeed_FailureKeepsPreviousItems(t *testing.T) {
	l := &mockLister{items: acts("a1", "a2")}
	f := newTestFeed(l, credential.Static("tok"))
	require.NoError(t, f.Refresh(context.Background()))

	l.err = errors.New("connection reset")
	err := f.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Failed to fetch activities.", f.Err())
	assert.Equal(t, []string{"a1", "a2"}, ids(f.Items()))
	assert.False(t, f.Loading())

	l.err = nil
	require.NoError(t, f.Refresh(context.Background()))
	assert.Empty(t, f.Err(), "a successful refresh clears the error")
}

func TestFeed_ServerMessage(t *testing.T) {
	l := &mockLister{err: &apierr.Error{Status: 503, Desc: apierr.Description{Message: "Maintenance"}}}
	f := newTestFeed(l, credential.Static("tok"))

	require.Error(t, f.Refresh(context.Background()))
	assert.Equal(t, "Maintenance", f.Err())
}

func TestFeed_RefreshInFlightIsSkipped(t *testing.T) {
	l := &mockLister{
		items:   acts("a1"),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	f := newTestFeed(l, credential.Static("tok"))

	done := make(chan error, 1)
	go func() { done <- f.Refresh(context.Background()) }()

	select {
	case <-l.started:
	case <-time.After(time.Second):
		t.Fatal("first refresh never reached the remote")
	}
	assert.True(t, f.Loading())

	// Second refresh returns immediately without a call.
	require.NoError(t, f.Refresh(context.Background()))
	assert.Equal(t, 1, l.calls())

	close(l.block)
	require.NoError(t, <-done)
	assert.False(t, f.Loading())
	assert.Equal(t, []string{"a1"}, ids(f.Items()))
}

func TestFeed_Remove(t *testing.T) {
	l := &mockLister{items: acts("a1", "a2", "a3")}
	f := newTestFeed(l, credential.Static("tok"))
	require.NoError(t, f.Refresh(context.Background()))

	assert.True(t, f.Remove("a2"))
	assert.Equal(t, []string{"a1", "a3"}, ids(f.Items()))

	assert.False(t, f.Remove("missing"))
	assert.Len(t, f.Items(), 2)
}

func TestFeed_ItemsIsACopy(t *testing.T) {
	l := &mockLister{items: acts("a1")}
	f := newTestFeed(l, credential.Static("tok"))
	require.NoError(t, f.Refresh(context.Background()))

	items := f.Items()
	items[0].ID = "changed"

	assert.Equal(t, "a1", f.Items()[0].ID)
}

func TestNew_DefaultLimit(t *testing.T) {
	l := &mockLister{}
	f := New(l, credential.Static("tok"), 0, zerolog.New(io.Discard))
	require.NoError(t, f.Refresh(context.Background()))
	assert.Equal(t, DefaultLimit, l.queries[0].Limit)
}
