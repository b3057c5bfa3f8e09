// Package calview renders scheduled todos as a day-by-day agenda and lets
// the user move and resize them from the keyboard.
package calview

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/calendar"
	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/prefs"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
)

const (
	moveStep     = 30 * time.Minute
	resizeStep   = 15 * time.Minute
	minDuration  = 15 * time.Minute
	defaultStart = 9 // hour used for todos created from the calendar
)

// Model is the calendar agenda.
type Model struct {
	todos     *store.TodoStore
	prefs     *prefs.Store
	keys      *keys.KeyMap
	now       func() time.Time
	anchor    time.Time
	days      []time.Time
	events    []calendar.Event
	cursor    int
	statusMsg string
	width     int
	height    int
}

// New creates the calendar view anchored on today. A nil now uses
// time.Now.
func New(todos *store.TodoStore, p *prefs.Store, k *keys.KeyMap, now func() time.Time, width, height int) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		todos:  todos,
		prefs:  p,
		keys:   k,
		now:    now,
		anchor: calendar.StartOfDay(now()),
		width:  width,
		height: height,
	}
	m.Refresh()
	return m
}

func (m Model) view() model.CalendarView {
	return m.prefs.Preferences().CalendarView
}

// Refresh recomputes the visible window and its events, keeping the
// cursor on the same event when it is still shown.
func (m *Model) Refresh() {
	selected, _ := m.Selected()

	m.days = calendar.Days(m.view(), m.anchor)
	m.events = nil
	if len(m.days) > 0 {
		from := m.days[0]
		to := m.days[len(m.days)-1].AddDate(0, 0, 1)
		m.events = calendar.InRange(calendar.Events(m.todos.Todos()), from, to)
	}

	if i := slices.IndexFunc(m.events, func(e calendar.Event) bool { return e.ID == selected.ID }); i >= 0 {
		m.cursor = i
	}
	if m.cursor >= len(m.events) {
		m.cursor = max(len(m.events)-1, 0)
	}
}

// Anchor returns the day the window is built around.
func (m Model) Anchor() time.Time {
	return m.anchor
}

// Events returns the events in the visible window.
func (m Model) Events() []calendar.Event {
	return m.events
}

// Selected returns the event under the cursor.
func (m Model) Selected() (calendar.Event, bool) {
	if m.cursor < 0 || m.cursor >= len(m.events) {
		return calendar.Event{}, false
	}
	return m.events[m.cursor], true
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.statusMsg = ""

	switch {
	case key.Matches(k, m.keys.Down):
		if len(m.events) > 0 {
			m.cursor = min(m.cursor+1, len(m.events)-1)
		}
	case key.Matches(k, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)

	case key.Matches(k, m.keys.PrevRange):
		m.anchor = calendar.Shift(m.view(), m.anchor, -1)
		m.cursor = 0
		m.Refresh()
	case key.Matches(k, m.keys.NextRange):
		m.anchor = calendar.Shift(m.view(), m.anchor, 1)
		m.cursor = 0
		m.Refresh()
	case key.Matches(k, m.keys.Today):
		m.anchor = calendar.StartOfDay(m.now())
		m.cursor = 0
		m.Refresh()
	case key.Matches(k, m.keys.CycleCalendar):
		if err := m.prefs.SetCalendarView(calendar.NextView(m.view())); err != nil {
			m.statusMsg = err.Error()
		}
		m.cursor = 0
		m.Refresh()

	case key.Matches(k, m.keys.MoveEarlier):
		m.move(-moveStep)
	case key.Matches(k, m.keys.MoveLater):
		m.move(moveStep)
	case key.Matches(k, m.keys.Shrink):
		m.resize(-resizeStep)
	case key.Matches(k, m.keys.Grow):
		m.resize(resizeStep)

	case key.Matches(k, m.keys.Select):
		if e, ok := m.Selected(); ok {
			id := e.ID
			return m, func() tea.Msg { return ui.OpenTodoMsg{TodoID: id} }
		}
	case key.Matches(k, m.keys.ToggleComplete):
		if e, ok := m.Selected(); ok {
			m.todos.ToggleComplete(e.ID)
			m.Refresh()
		}
	case key.Matches(k, m.keys.NewTodo):
		at := m.anchor.Add(defaultStart * time.Hour)
		defaults := &model.CreateTodoInput{ScheduledDate: &at}
		return m, func() tea.Msg { return ui.NewTodoMsg{Defaults: defaults} }
	}
	return m, nil
}

// move shifts the selected event, keeping its duration.
func (m *Model) move(by time.Duration) {
	e, ok := m.Selected()
	if !ok {
		return
	}
	if _, ok := calendar.Reschedule(m.todos, e.ID, e.Start.Add(by), nil); !ok {
		m.statusMsg = "Todo no longer exists"
	}
	m.Refresh()
}

// resize changes the selected event's end, never below minDuration.
func (m *Model) resize(by time.Duration) {
	e, ok := m.Selected()
	if !ok {
		return
	}
	length := time.Duration(0)
	if e.End != nil {
		length = e.End.Sub(*e.Start)
	}
	length = max(length+by, minDuration)
	end := e.Start.Add(length)
	if _, ok := calendar.Reschedule(m.todos, e.ID, *e.Start, &end); !ok {
		m.statusMsg = "Todo no longer exists"
	}
	m.Refresh()
}

// title describes the window, for example "Jun 1 – Jun 7, 2025".
func (m Model) title() string {
	if len(m.days) == 0 {
		return "Calendar"
	}
	first, last := m.days[0], m.days[len(m.days)-1]
	if m.view() == model.CalendarMonth {
		return first.Format("January 2006")
	}
	if first.Equal(last) {
		return first.Format("Mon Jan 2, 2006")
	}
	return first.Format("Jan 2") + " – " + last.Format("Jan 2, 2006")
}

// View renders the agenda.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render(fmt.Sprintf("Calendar · %s · %s", m.view(), m.title())))
	b.WriteString("\n\n")

	today := calendar.StartOfDay(m.now())
	idx := 0
	for _, day := range m.days {
		next := day.AddDate(0, 0, 1)
		heading := day.Format("Mon Jan 2")
		if day.Equal(today) {
			heading += " · today"
		}
		var lines []string
		for idx < len(m.events) && m.events[idx].Start.Before(next) {
			lines = append(lines, m.renderEvent(idx))
			idx++
		}
		if len(lines) == 0 && m.view() == model.CalendarMonth {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(heading))
		b.WriteString("\n")
		if len(lines) == 0 {
			b.WriteString(theme.ListItemStyle.Render(theme.DimmedStyle.Render("nothing scheduled")))
			b.WriteString("\n")
		}
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	if len(m.events) == 0 && m.view() == model.CalendarMonth {
		b.WriteString(theme.DimmedStyle.Render("Nothing scheduled this month. Press 'n' to add a todo."))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render(m.statusMsg))
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderEvent(i int) string {
	e := m.events[i]
	span := e.Start.Format("15:04")
	if e.End != nil {
		span += "–" + e.End.Format("15:04")
		span += " (" + calendar.FormatDuration(calendar.DiffInMinutes(*e.Start, *e.End)) + ")"
	}
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("●")
	line := fmt.Sprintf("%s %s %s", marker, theme.DateStyle.Render(span), e.Title)
	if i == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
