package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/stride/internal/catalog"
	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/credential"
	"github.com/hay-kot/stride/internal/feed"
	"github.com/hay-kot/stride/internal/stride"
)

type fakeLister struct {
	mu      sync.Mutex
	total   int
	queries []activity.ListQuery
}

func (l *fakeLister) List(_ context.Context, q activity.ListQuery) ([]activity.Activity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)

	var out []activity.Activity
	for i := q.Offset; i < l.total && len(out) < q.Limit; i++ {
		out = append(out, activity.Activity{
			ID:     fmt.Sprintf("act-%02d", i),
			Start:  time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC),
			TypeID: 1,
		})
	}
	return out, nil
}

func (l *fakeLister) last() activity.ListQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queries[len(l.queries)-1]
}

type fakeService struct {
	feed    *feed.Feed
	catalog *catalog.Catalog
	result  stride.Result
	deleted []string
}

func (s *fakeService) Feed() *feed.Feed           { return s.feed }
func (s *fakeService) Catalog() *catalog.Catalog { return s.catalog }

func (s *fakeService) Delete(_ context.Context, id string) stride.Result {
	s.deleted = append(s.deleted, id)
	if s.result.Success {
		s.feed.Remove(id)
	}
	return s.result
}

func (s *fakeService) TypeNames(context.Context) activity.TypeNames {
	return activity.NewTypeNames([]activity.ActivityType{{ID: 1, Name: "Running"}})
}

func newTestModel(t *testing.T, total int) (Model, *fakeService, *fakeLister) {
	t.Helper()
	l := &fakeLister{total: total}
	creds := credential.Static("token")
	svc := &fakeService{
		feed:    feed.New(l, creds, 5, zerolog.Nop()),
		catalog: catalog.New(l, creds, 3, zerolog.Nop()),
		result:  stride.Result{Success: true, Message: stride.MsgDeleted},
	}
	m := New(context.Background(), svc)
	m.now = func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) }
	return m, svc, l
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestShiftYear(t *testing.T) {
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		year  int
		delta int
		want  int
	}{
		{name: "back from all", year: 0, delta: -1, want: 2024},
		{name: "forward from all", year: 0, delta: 1, want: 0},
		{name: "back", year: 2024, delta: -1, want: 2023},
		{name: "forward", year: 2022, delta: 1, want: 2023},
		{name: "past current", year: 2024, delta: 1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shiftYear(activity.Filters{Year: tt.year}, tt.delta, now)
			assert.Equal(t, tt.want, got.Year)
		})
	}
}

func TestShiftMonth(t *testing.T) {
	assert.Equal(t, 1, shiftMonth(activity.Filters{}, 1).Month)
	assert.Equal(t, 12, shiftMonth(activity.Filters{}, -1).Month)
	assert.Equal(t, 0, shiftMonth(activity.Filters{Month: 12}, 1).Month)
	assert.Equal(t, 0, shiftMonth(activity.Filters{Month: 1}, -1).Month)
}

func TestModel_FeedLoaded(t *testing.T) {
	m, _, _ := newTestModel(t, 8)

	m, _ = update(t, m, m.refreshFeed()())

	assert.Len(t, m.rows, 5)
	assert.Equal(t, "act-00", m.selectedID())
}

func TestModel_SwitchViewLoadsCatalog(t *testing.T) {
	m, svc, l := newTestModel(t, 8)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewCatalog, m.view)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"act-00", "act-01", "act-02"}, m.rows)
	assert.Equal(t, 0, l.last().Offset)
	assert.True(t, svc.catalog.CanLoadMore())

	// Switching back and forth does not reload a loaded catalog.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewRecent, m.view)
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
}

func TestModel_LoadMoreAppends(t *testing.T) {
	m, _, l := newTestModel(t, 5)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, cmd())

	m, cmd = update(t, m, runes("m"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Len(t, m.rows, 5)
	assert.Equal(t, 3, l.last().Offset)

	// The short page ended the data, so there is nothing more to request.
	_, cmd = update(t, m, runes("m"))
	assert.Nil(t, cmd)
}

func TestModel_FilterKeyResetsCatalog(t *testing.T) {
	m, _, l := newTestModel(t, 8)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, cmd())

	m, cmd = update(t, m, runes("["))
	require.NotNil(t, cmd)
	assert.Equal(t, 2024, m.filters.Year)

	m, _ = update(t, m, cmd())
	assert.Equal(t, 2024, l.last().Filters.Year)
	assert.Equal(t, 0, l.last().Offset)

	m, cmd = update(t, m, runes("c"))
	require.NotNil(t, cmd)
	assert.True(t, m.filters.IsZero())

	// Clearing already clear filters does nothing.
	m, _ = update(t, m, cmd())
	_, cmd = update(t, m, runes("c"))
	assert.Nil(t, cmd)
}

func TestModel_SupersededLoadIsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, 8)
	m.view = ViewCatalog

	m, cmd := update(t, m, catalogLoadedMsg{err: catalog.ErrSuperseded})
	assert.Nil(t, cmd)
	assert.Empty(t, m.status)
}

func TestModel_DeleteConfirm(t *testing.T) {
	m, svc, _ := newTestModel(t, 3)
	m, _ = update(t, m, m.refreshFeed()())

	m, cmd := update(t, m, runes("x"))
	assert.Nil(t, cmd)
	require.True(t, m.modal.Visible())

	m, cmd = update(t, m, runes("y"))
	assert.False(t, m.modal.Visible())
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"act-00"}, svc.deleted)
	assert.Equal(t, stride.MsgDeleted, m.status)
	assert.False(t, m.statusErr)
	assert.Equal(t, []string{"act-01", "act-02"}, m.rows)
}

func TestModel_DeleteCancel(t *testing.T) {
	m, svc, _ := newTestModel(t, 3)
	m, _ = update(t, m, m.refreshFeed()())

	m, _ = update(t, m, runes("x"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, m.modal.Visible())
	assert.Empty(t, svc.deleted)
	assert.Len(t, m.rows, 3)
}

func TestModel_DeleteFailure(t *testing.T) {
	m, svc, _ := newTestModel(t, 3)
	svc.result = stride.Result{Message: stride.MsgDeleteFailed}
	m, _ = update(t, m, m.refreshFeed()())

	m, _ = update(t, m, deletedMsg{id: "act-00", res: svc.Delete(context.Background(), "act-00")})

	assert.True(t, m.statusErr)
	assert.Equal(t, stride.MsgDeleteFailed, m.status)
	assert.Len(t, m.rows, 3)
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t, 2)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, typesLoadedMsg{names: activity.NewTypeNames([]activity.ActivityType{{ID: 1, Name: "Running"}})})
	m, _ = update(t, m, m.refreshFeed()())

	out := m.View()
	assert.Contains(t, out, "Recent")
	assert.Contains(t, out, "act-01")
	assert.Contains(t, out, "Running")
}

func TestActivityRow_DistanceInKilometres(t *testing.T) {
	dist := 8200.0
	row := activityRow(activity.Activity{
		ID:              "0123456789abcdef",
		TypeID:          1,
		DurationSeconds: 2700,
		Distance:        &dist,
	}, nil)

	require.Len(t, row, 6)
	assert.Equal(t, "01234567", row[0])
	assert.Equal(t, "#1", row[3])
	assert.Equal(t, "8.20 km", row[5])

	row = activityRow(activity.Activity{ID: "a1", TypeID: 1}, nil)
	assert.Equal(t, "-", row[5])
}
