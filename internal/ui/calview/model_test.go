package calview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/prefs"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/ui"
)

// Wednesday; the default week layout spans Sunday Jun 1 to Saturday Jun 7.
var now = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func newCalendar(t *testing.T) (Model, *store.TodoStore, *prefs.Store) {
	t.Helper()
	todos := store.NewTodoStore(nil)
	todos.Create(model.CreateTodoInput{Title: "Standup", ScheduledDate: model.Ptr(at(2, 9)), DurationMinutes: model.Ptr(60)})
	todos.Create(model.CreateTodoInput{Title: "Review", ScheduledDate: model.Ptr(at(5, 14))})
	todos.Create(model.CreateTodoInput{Title: "Next week", ScheduledDate: model.Ptr(at(9, 9))})
	todos.Create(model.CreateTodoInput{Title: "Unscheduled"})
	done := todos.Create(model.CreateTodoInput{Title: "Done", ScheduledDate: model.Ptr(at(3, 9))})
	todos.ToggleComplete(done.ID)

	p := prefs.Open("", nil)
	m := New(todos, p, keys.DefaultKeyMap(), func() time.Time { return now }, 80, 30)
	return m, todos, p
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func titles(m Model) []string {
	var out []string
	for _, e := range m.Events() {
		out = append(out, e.Title)
	}
	return out
}

func TestCalendarShowsOpenEventsInWindow(t *testing.T) {
	m, _, _ := newCalendar(t)
	got := titles(m)
	if len(got) != 2 || got[0] != "Standup" || got[1] != "Review" {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestCalendarNavigation(t *testing.T) {
	m, _, _ := newCalendar(t)

	m, _ = m.Update(runes("l"))
	if got := titles(m); len(got) != 1 || got[0] != "Next week" {
		t.Fatalf("next week: unexpected events %v", got)
	}

	m, _ = m.Update(runes("t"))
	if !m.Anchor().Equal(at(4, 0)) {
		t.Fatalf("today: unexpected anchor %v", m.Anchor())
	}
	if len(m.Events()) != 2 {
		t.Fatalf("expected to be back on the current week, got %v", titles(m))
	}
}

func TestCalendarCycleViewPersistsPreference(t *testing.T) {
	m, _, p := newCalendar(t)

	m, _ = m.Update(runes("v"))
	if got := p.Preferences().CalendarView; got != model.CalendarMonth {
		t.Fatalf("expected month view, got %s", got)
	}
	if len(m.Events()) != 3 {
		t.Fatalf("month view should include next week, got %v", titles(m))
	}

	m, _ = m.Update(runes("v"))
	if got := p.Preferences().CalendarView; got != model.CalendarDay {
		t.Fatalf("expected wrap to day view, got %s", got)
	}
	if len(m.Events()) != 0 {
		t.Fatalf("nothing is scheduled on the anchor day, got %v", titles(m))
	}
}

func TestCalendarMoveKeepsDuration(t *testing.T) {
	m, todos, _ := newCalendar(t)
	e, _ := m.Selected()

	m, _ = m.Update(runes(">"))
	got, _ := todos.Get(e.ID)
	if !got.ScheduledDate.Equal(at(2, 9).Add(30*time.Minute)) || *got.DurationMinutes != 60 {
		t.Fatalf("move later: got %v for %v", got.ScheduledDate, got.DurationMinutes)
	}

	m, _ = m.Update(runes("<"))
	m, _ = m.Update(runes("<"))
	got, _ = todos.Get(e.ID)
	if !got.ScheduledDate.Equal(at(2, 8).Add(30 * time.Minute)) {
		t.Fatalf("move earlier: got %v", got.ScheduledDate)
	}
	if sel, _ := m.Selected(); sel.ID != e.ID {
		t.Fatalf("cursor should stay on the moved event")
	}
}

func TestCalendarResize(t *testing.T) {
	m, todos, _ := newCalendar(t)
	standup, _ := m.Selected()

	m, _ = m.Update(runes("+"))
	got, _ := todos.Get(standup.ID)
	if *got.DurationMinutes != 75 || !got.ScheduledDate.Equal(at(2, 9)) {
		t.Fatalf("grow: got %d minutes at %v", *got.DurationMinutes, got.ScheduledDate)
	}

	for range 10 {
		m, _ = m.Update(runes("-"))
	}
	got, _ = todos.Get(standup.ID)
	if *got.DurationMinutes != 15 {
		t.Fatalf("shrink should stop at 15 minutes, got %d", *got.DurationMinutes)
	}

	// An event without a duration gains the minimum slot.
	m, _ = m.Update(runes("j"))
	review, _ := m.Selected()
	m, _ = m.Update(runes("+"))
	got, _ = todos.Get(review.ID)
	if got.DurationMinutes == nil || *got.DurationMinutes != 15 {
		t.Fatalf("grow from nothing: got %v", got.DurationMinutes)
	}
}

func TestCalendarToggleCompleteRemovesEvent(t *testing.T) {
	m, _, _ := newCalendar(t)
	m, _ = m.Update(runes("x"))
	if got := titles(m); len(got) != 1 || got[0] != "Review" {
		t.Fatalf("completed todo still on the calendar: %v", got)
	}
}

func TestCalendarOpenAndCreateMessages(t *testing.T) {
	m, _, _ := newCalendar(t)
	e, _ := m.Selected()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected a command from enter")
	}
	if open, ok := cmd().(ui.OpenTodoMsg); !ok || open.TodoID != e.ID {
		t.Fatalf("unexpected message %#v", cmd())
	}

	_, cmd = m.Update(runes("n"))
	msg, ok := cmd().(ui.NewTodoMsg)
	if !ok || msg.Defaults == nil || msg.Defaults.ScheduledDate == nil {
		t.Fatalf("unexpected message %#v", cmd())
	}
	if !msg.Defaults.ScheduledDate.Equal(at(4, 9)) {
		t.Fatalf("expected the anchor day at 09:00, got %v", msg.Defaults.ScheduledDate)
	}
}

func TestCalendarViewRendersDays(t *testing.T) {
	m, _, _ := newCalendar(t)
	out := m.View()
	for _, want := range []string{"Mon Jun 2", "Standup", "09:00–10:00", "Wed Jun 4 · today", "nothing scheduled"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
