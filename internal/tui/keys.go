package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/stride/internal/core/activity"
)

type keyMap struct {
	SwitchView   key.Binding
	Refresh      key.Binding
	More         key.Binding
	PrevYear     key.Binding
	NextYear     key.Binding
	PrevMonth    key.Binding
	NextMonth    key.Binding
	ClearFilters key.Binding
	Delete       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchView:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		More:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		PrevYear:     key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "year")),
		NextYear:     key.NewBinding(key.WithKeys("]")),
		PrevMonth:    key.NewBinding(key.WithKeys("{"), key.WithHelp("{/}", "month")),
		NextMonth:    key.NewBinding(key.WithKeys("}")),
		ClearFilters: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Delete:       key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Refresh, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchView, k.Refresh, k.Delete},
		{k.More, k.PrevYear, k.PrevMonth, k.ClearFilters},
		{k.Help, k.Quit},
	}
}

// shiftYear moves the year filter. From "all years" stepping back selects
// the current year; stepping past the current year returns to all years.
func shiftYear(f activity.Filters, delta int, now time.Time) activity.Filters {
	current := now.Year()
	switch {
	case f.Year == 0 && delta < 0:
		f.Year = current
	case f.Year == 0:
	default:
		f.Year += delta
		if f.Year > current {
			f.Year = 0
		}
	}
	return f
}

// shiftMonth cycles the month filter through 0 (all months) and 1..12.
func shiftMonth(f activity.Filters, delta int) activity.Filters {
	f.Month = ((f.Month+delta)%13 + 13) % 13
	return f
}
