package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/calendar"
	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
)

// BackMsg signals the parent to close the detail view.
type BackMsg struct{}

// Model is the todo detail view component.
type Model struct {
	todoID   string
	viewport viewport.Model
	todos    *store.TodoStore
	sections *store.SectionStore
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates a new detail view model.
func New(todos *store.TodoStore, sections *store.SectionStore, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		todos:    todos,
		sections: sections,
		keys:     k,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// SetTodo shows the todo with the given id.
func (m *Model) SetTodo(id string) {
	m.todoID = id
	m.Refresh()
	m.viewport.GotoTop()
}

// TodoID returns the id of the todo being shown.
func (m Model) TodoID() string {
	return m.todoID
}

// Refresh re-renders the content from the store.
func (m *Model) Refresh() {
	m.viewport.SetContent(m.renderContent())
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Edit):
			if _, ok := m.todos.Get(m.todoID); ok {
				id := m.todoID
				return m, func() tea.Msg { return ui.EditTodoMsg{TodoID: id} }
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleComplete):
			m.todos.ToggleComplete(m.todoID)
			m.Refresh()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.todos.Delete(m.todoID)
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if _, ok := m.todos.Get(m.todoID); !ok {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("This todo no longer exists")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	t, ok := m.todos.Get(m.todoID)
	if !ok {
		return ""
	}

	var lines []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	lines = append(lines, titleStyle.Render(t.Title))

	status := theme.DateStyle.Render("Open")
	if t.IsCompleted {
		status = theme.DimmedStyle.Render("Done")
	}
	priBadge := theme.PriorityStyle(t.Priority).Render(strings.ToUpper(string(t.Priority)))
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, priBadge, "  ", status), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(11)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(name, value string) {
		lines = append(lines, metaStyle.Render(name+":")+" "+valStyle.Render(value))
	}

	if place := m.placement(t); place != "" {
		row("Section", place)
	}
	if t.ScheduledDate != nil {
		row("Scheduled", t.ScheduledDate.Local().Format("Mon Jan 02 2006 15:04"))
	}
	if t.DurationMinutes != nil {
		row("Duration", calendar.FormatDuration(*t.DurationMinutes))
	}
	if t.DeadlineDate != nil {
		due := t.DeadlineDate.Local().Format("Mon Jan 02 2006")
		if t.IsOverdue(m.now()) {
			due = theme.OverdueStyle.Render(due + " ⚠ overdue")
		}
		row("Deadline", due)
	}
	if t.Location != nil {
		row("Location", *t.Location)
	}
	if len(t.Labels) > 0 {
		chips := make([]string, len(t.Labels))
		for i, l := range t.Labels {
			chips[i] = theme.LabelStyle(l).Render("#" + l.Name)
		}
		row("Labels", strings.Join(chips, ""))
	}
	for _, r := range t.Reminders {
		row("Reminder", fmt.Sprintf("%s at %s", r.Type, r.RemindAt.Local().Format("Jan 02 15:04")))
	}
	row("Created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	row("Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		row("Completed", t.CompletedAt.Local().Format("2006-01-02 15:04"))
	}

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	lines = append(lines, "", separator, "")

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Description"))
	if t.Description != nil && *t.Description != "" {
		lines = append(lines, *t.Description)
	} else {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render("No description"))
	}

	lines = append(lines, "", theme.HelpStyle.Render("e edit | x toggle done | d delete | esc back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// placement renders "Section / Subsection" for t, falling back to raw ids
// for references that no longer resolve.
func (m Model) placement(t model.Todo) string {
	if t.SectionID == nil {
		return ""
	}
	sec, ok := m.sections.Section(*t.SectionID)
	if !ok {
		return *t.SectionID
	}
	out := sec.Name
	if t.SubsectionID != nil {
		name := *t.SubsectionID
		for _, sub := range sec.Subsections {
			if sub.ID == *t.SubsectionID {
				name = sub.Name
			}
		}
		out += " / " + name
	}
	return out
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.Refresh()
}
