package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/stride/internal/catalog"
	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/feed"
	"github.com/hay-kot/stride/internal/stride"
	"github.com/hay-kot/stride/internal/styles"
)

// Service is the part of the stride service the TUI drives.
type Service interface {
	Feed() *feed.Feed
	Catalog() *catalog.Catalog
	Delete(ctx context.Context, id string) stride.Result
	TypeNames(ctx context.Context) activity.TypeNames
}

// ViewType represents which view is active.
type ViewType int

const (
	ViewRecent ViewType = iota
	ViewCatalog
)

func (v ViewType) String() string {
	if v == ViewCatalog {
		return "Activities"
	}
	return "Recent"
}

// Lines taken by the banner, tab bar, filter line, status and help.
const chromeHeight = 10

type (
	feedLoadedMsg    struct{ err error }
	catalogLoadedMsg struct{ err error }
	typesLoadedMsg   struct{ names activity.TypeNames }
	deletedMsg       struct {
		id  string
		res stride.Result
	}
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	ctx     context.Context
	service Service
	keys    keyMap
	help    help.Model
	table   table.Model
	spinner spinner.Model
	now     func() time.Time

	view    ViewType
	filters activity.Filters
	names   activity.TypeNames

	// rows mirrors the ids shown in the table, in order.
	rows []string

	status    string
	statusErr bool

	modal         Modal
	pendingDelete string

	width  int
	height int
}

// New creates a new TUI model.
func New(ctx context.Context, service Service) Model {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles()),
	)

	h := help.New()
	muted := lipgloss.NewStyle().Foreground(styles.ColorGray)
	h.Styles.ShortKey = muted
	h.Styles.ShortDesc = muted
	h.Styles.ShortSeparator = muted
	h.Styles.FullKey = muted
	h.Styles.FullDesc = muted
	h.Styles.FullSeparator = muted

	return Model{
		ctx:     ctx,
		service: service,
		keys:    defaultKeyMap(),
		help:    h,
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		now:     time.Now,
		view:    ViewRecent,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshFeed(), m.loadTypes(), m.spinner.Tick)
}

func (m Model) refreshFeed() tea.Cmd {
	f := m.service.Feed()
	return func() tea.Msg {
		return feedLoadedMsg{err: f.Refresh(m.ctx)}
	}
}

func (m Model) loadCatalog(filters activity.Filters, appendPage bool) tea.Cmd {
	c := m.service.Catalog()
	return func() tea.Msg {
		return catalogLoadedMsg{err: c.Load(m.ctx, filters, appendPage)}
	}
}

func (m Model) loadTypes() tea.Cmd {
	return func() tea.Msg {
		return typesLoadedMsg{names: m.service.TypeNames(m.ctx)}
	}
}

func (m Model) deleteActivity(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, res: m.service.Delete(m.ctx, id)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case typesLoadedMsg:
		m.names = msg.names
		m.syncRows()
		return m, nil

	case feedLoadedMsg:
		if msg.err != nil {
			m.setError(m.service.Feed().Err())
		}
		if m.view == ViewRecent {
			m.syncRows()
		}
		return m, nil

	case catalogLoadedMsg:
		switch {
		case errors.Is(msg.err, catalog.ErrSuperseded):
			// a newer load owns the table
			return m, nil
		case msg.err != nil:
			m.setError(m.service.Catalog().Snapshot().Err)
		}
		if m.view == ViewCatalog {
			m.syncRows()
		}
		return m, nil

	case deletedMsg:
		if !msg.res.Success {
			log.Warn().Err(msg.res.Err).Str("id", msg.id).Msg("delete activity")
			m.setError(msg.res.Message)
			return m, nil
		}
		m.setStatus(msg.res.Message)
		if m.view == ViewCatalog {
			return m, m.loadCatalog(m.filters, false)
		}
		m.syncRows()
		return m, nil

	case tea.KeyMsg:
		if m.modal.Visible() {
			return m.updateModal(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.pendingDelete
		m.modal = Modal{}
		m.pendingDelete = ""
		return m, m.deleteActivity(id)
	case "n", "N", "esc", "q":
		m.modal = Modal{}
		m.pendingDelete = ""
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.SwitchView):
		if m.view == ViewRecent {
			m.view = ViewCatalog
			m.table.SetCursor(0)
			m.syncRows()
			if m.service.Catalog().Snapshot().State == catalog.StateIdle {
				return m, m.loadCatalog(m.filters, false)
			}
			return m, nil
		}
		m.view = ViewRecent
		m.table.SetCursor(0)
		m.syncRows()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.clearStatus()
		if m.view == ViewRecent {
			return m, m.refreshFeed()
		}
		return m, m.loadCatalog(m.filters, false)

	case key.Matches(msg, m.keys.Delete):
		id := m.selectedID()
		if id == "" {
			return m, nil
		}
		m.pendingDelete = id
		m.modal = NewModal("Delete activity?", m.table.SelectedRow()[2]+"\n"+id)
		return m, nil
	}

	if m.view == ViewCatalog {
		if next, ok := m.filterKey(msg); ok {
			m.filters = next
			m.clearStatus()
			m.table.SetCursor(0)
			return m, m.loadCatalog(next, false)
		}
		if key.Matches(msg, m.keys.More) {
			return m, m.loadMore()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	// Reaching the last row pages in the next batch.
	if m.view == ViewCatalog && len(m.rows) > 0 && m.table.Cursor() == len(m.rows)-1 {
		return m, tea.Batch(cmd, m.loadMore())
	}
	return m, cmd
}

func (m Model) loadMore() tea.Cmd {
	snap := m.service.Catalog().Snapshot()
	if !snap.CanLoadMore || snap.State == catalog.StateLoading {
		return nil
	}
	return m.loadCatalog(m.filters, true)
}

func (m Model) filterKey(msg tea.KeyMsg) (activity.Filters, bool) {
	switch {
	case key.Matches(msg, m.keys.PrevYear):
		return shiftYear(m.filters, -1, m.now()), true
	case key.Matches(msg, m.keys.NextYear):
		return shiftYear(m.filters, 1, m.now()), true
	case key.Matches(msg, m.keys.PrevMonth):
		return shiftMonth(m.filters, -1), true
	case key.Matches(msg, m.keys.NextMonth):
		return shiftMonth(m.filters, 1), true
	case key.Matches(msg, m.keys.ClearFilters):
		return activity.Filters{}, !m.filters.IsZero()
	}
	return m.filters, false
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

func (m Model) selectedID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return ""
	}
	return m.rows[i]
}

// syncRows copies the active view's activities into the table.
func (m *Model) syncRows() {
	var items []activity.Activity
	if m.view == ViewCatalog {
		items = m.service.Catalog().Items()
	} else {
		items = m.service.Feed().Items()
	}

	m.rows = make([]string, 0, len(items))
	rows := make([]table.Row, 0, len(items))
	for _, a := range items {
		m.rows = append(m.rows, a.ID)
		rows = append(rows, activityRow(a, m.names))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func columns(width int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "DATE", Width: 16},
		{Title: "NAME", Width: 0},
		{Title: "TYPE", Width: 18},
		{Title: "DURATION", Width: 9},
		{Title: "DISTANCE", Width: 10},
	}

	// each cell carries one column of padding on both sides
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	cols[2].Width = max(width-used-2, 12)
	return cols
}

func activityRow(a activity.Activity, names activity.TypeNames) table.Row {
	id := a.ID
	if len(id) > 8 {
		id = id[:8]
	}

	typ := "#" + strconv.Itoa(a.TypeID)
	if names != nil {
		typ = names.Label(a.TypeID, a.SubTypeID)
	}

	return table.Row{
		id,
		a.Start.Local().Format("2006-01-02 15:04"),
		a.DisplayName(),
		typ,
		a.HumanDuration(),
		activity.FormatKm(a.Distance),
	}
}

// View renders the model.
func (m Model) View() string {
	if m.modal.Visible() && m.width > 0 {
		return m.modal.View(m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(bannerStyle.Render(strings.TrimPrefix(styles.Banner, "\n")))
	b.WriteString("\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n")
	b.WriteString(m.filterView())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, 2)
	for _, v := range []ViewType{ViewRecent, ViewCatalog} {
		style := tabStyle
		if v == m.view {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) filterView() string {
	if m.view == ViewRecent {
		return filterStyle.Render(fmt.Sprintf("latest %d", len(m.rows)))
	}

	parts := []string{"year: all", "month: all"}
	if m.filters.Year != 0 {
		parts[0] = "year: " + strconv.Itoa(m.filters.Year)
	}
	if m.filters.Month != 0 {
		parts[1] = "month: " + time.Month(m.filters.Month).String()
	}

	snap := m.service.Catalog().Snapshot()
	more := ""
	if snap.CanLoadMore && snap.State == catalog.StateLoaded {
		more = "  (more available)"
	}
	return filterStyle.Render(fmt.Sprintf("%s  %d loaded%s", strings.Join(parts, "  "), len(m.rows), more))
}

func (m Model) statusView() string {
	if m.loading() {
		return statusStyle.Render(m.spinner.View() + " loading")
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusErrStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m Model) loading() bool {
	if m.view == ViewCatalog {
		return m.service.Catalog().Snapshot().State == catalog.StateLoading
	}
	return m.service.Feed().Loading()
}
