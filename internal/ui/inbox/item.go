package inbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-way/internal/calendar"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/theme"
)

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
type TodoItem struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Title }

// TodoDelegate implements list.ItemDelegate for todo rows. Which
// attributes are shown follows the card display preferences.
type TodoDelegate struct {
	Fields      model.CardDisplayFields
	SectionName func(id string) (string, bool)
	Now         func() time.Time
}

// Height returns the number of lines each item takes.
func (d TodoDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TodoDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TodoDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a single todo line.
func (d TodoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}
	line := d.Line(ti.Todo)
	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}

// Line builds the row content for t.
func (d TodoDelegate) Line(t model.Todo) string {
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	prefix := "○"
	title := t.Title
	if t.IsCompleted {
		prefix = "✓"
		title = theme.DimmedStyle.Render(title)
	}
	parts := []string{prefix}

	if d.Fields.ShowPriority {
		parts = append(parts, theme.PriorityStyle(t.Priority).Render(strings.ToUpper(string(t.Priority))))
	}
	parts = append(parts, title)

	if d.Fields.ShowDate && t.ScheduledDate != nil {
		parts = append(parts, theme.DateStyle.Render(t.ScheduledDate.Format("Jan 02 15:04")))
	}
	if d.Fields.ShowDuration && t.DurationMinutes != nil {
		parts = append(parts, theme.DimmedStyle.Render(calendar.FormatDuration(*t.DurationMinutes)))
	}
	if d.Fields.ShowDeadline && t.DeadlineDate != nil {
		due := "due " + t.DeadlineDate.Format("Jan 02")
		if t.IsOverdue(now) {
			parts = append(parts, theme.OverdueStyle.Render("⚠ "+due))
		} else {
			parts = append(parts, theme.DimmedStyle.Render(due))
		}
	}
	if d.Fields.ShowLabels {
		for _, l := range t.Labels {
			parts = append(parts, theme.LabelStyle(l).Render("#"+l.Name))
		}
	}
	if d.Fields.ShowSection && t.SectionID != nil && d.SectionName != nil {
		if name, ok := d.SectionName(*t.SectionID); ok {
			parts = append(parts, theme.DimmedStyle.Render("["+name+"]"))
		}
	}

	return strings.Join(parts, " ")
}
