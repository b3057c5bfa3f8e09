// Package calendar maps scheduled todos onto calendar events.
package calendar

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/store"
)

// Event is a todo placed on the calendar.
type Event struct {
	ID              string
	Title           string
	Start           *time.Time
	End             *time.Time
	AllDay          bool
	Color           string
	Priority        model.Priority
	DurationMinutes *int
}

// FromTodo converts t to an Event. End is set only when t has both a
// scheduled date and a positive duration.
func FromTodo(t model.Todo) Event {
	e := Event{
		ID:       t.ID,
		Title:    t.Title,
		Color:    t.Priority.Color(),
		Priority: t.Priority,
	}
	if t.DurationMinutes != nil {
		d := *t.DurationMinutes
		e.DurationMinutes = &d
	}
	if t.ScheduledDate != nil {
		start := *t.ScheduledDate
		e.Start = &start
		if t.DurationMinutes != nil && *t.DurationMinutes > 0 {
			end := start.Add(time.Duration(*t.DurationMinutes) * time.Minute)
			e.End = &end
		}
	}
	return e
}

// Events returns the events for all scheduled open todos, ordered by
// start. Completed todos stay off the calendar.
func Events(todos []model.Todo) []Event {
	var out []Event
	for _, t := range todos {
		if t.ScheduledDate == nil || t.IsCompleted {
			continue
		}
		out = append(out, FromTodo(t))
	}
	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Start.Compare(*b.Start)
	})
	return out
}

// InRange returns the events that overlap [from, to). Events without an
// end occupy their start instant.
func InRange(events []Event, from, to time.Time) []Event {
	var out []Event
	for _, e := range events {
		if e.Start == nil {
			continue
		}
		if !e.Start.Before(to) {
			continue
		}
		if !e.Start.Before(from) || (e.End != nil && e.End.After(from)) {
			out = append(out, e)
		}
	}
	return out
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// DiffInMinutes returns end-start in whole minutes, rounded.
func DiffInMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// Reschedule applies a calendar move or resize to the todo id. A nil end
// keeps the current duration. It reports false if id is unknown.
func Reschedule(s *store.TodoStore, id string, start time.Time, end *time.Time) (model.Todo, bool) {
	var duration *int
	if end != nil {
		d := DiffInMinutes(start, *end)
		duration = &d
	}
	return s.Schedule(id, start, duration)
}

// Views lists the calendar layouts in the order the view switcher cycles.
var Views = []model.CalendarView{
	model.CalendarDay,
	model.CalendarThreeDay,
	model.CalendarWorkWeek,
	model.CalendarWeek,
	model.CalendarMonth,
}

// NextView returns the layout after v, wrapping around.
func NextView(v model.CalendarView) model.CalendarView {
	i := slices.Index(Views, v)
	return Views[(i+1)%len(Views)]
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Sunday starting the week of t.
func startOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Days returns the days shown by layout v around anchor. The work week
// leaves out Saturday and Sunday.
func Days(v model.CalendarView, anchor time.Time) []time.Time {
	var first time.Time
	n := 1
	switch v {
	case model.CalendarThreeDay:
		first, n = StartOfDay(anchor), 3
	case model.CalendarWorkWeek, model.CalendarWeek:
		first, n = startOfWeek(anchor), 7
	case model.CalendarMonth:
		first = StartOfDay(anchor).AddDate(0, 0, 1-anchor.Day())
		n = first.AddDate(0, 1, -1).Day()
	default:
		first = StartOfDay(anchor)
	}

	days := make([]time.Time, 0, n)
	for i := range n {
		d := first.AddDate(0, 0, i)
		if v == model.CalendarWorkWeek && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Shift moves anchor one page of layout v forward (dir > 0) or back.
func Shift(v model.CalendarView, anchor time.Time, dir int) time.Time {
	switch v {
	case model.CalendarThreeDay:
		return anchor.AddDate(0, 0, 3*dir)
	case model.CalendarWorkWeek, model.CalendarWeek:
		return anchor.AddDate(0, 0, 7*dir)
	case model.CalendarMonth:
		first := StartOfDay(anchor).AddDate(0, 0, 1-anchor.Day())
		return first.AddDate(0, dir, 0)
	default:
		return anchor.AddDate(0, 0, dir)
	}
}
