package detail

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/ui"
)

var nine = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newDetail(t *testing.T) (Model, *store.TodoStore) {
	t.Helper()
	past := nine.Add(-48 * time.Hour)
	snap := &source.Snapshot{
		Todos: []model.Todo{{
			ID:              "todo-1",
			Title:           "Prepare review",
			Description:     model.Ptr("slides and demo"),
			Priority:        model.PriorityP1,
			ScheduledDate:   &nine,
			DurationMinutes: model.Ptr(90),
			DeadlineDate:    &past,
			SectionID:       model.Ptr("sec-work"),
			SubsectionID:    model.Ptr("subsec-sprint"),
			Labels:          []model.Label{{ID: "lbl-work", Name: "work"}},
			CreatedAt:       nine,
			UpdatedAt:       nine,
		}},
		Sections: []model.Section{{ID: "sec-work", Name: "Work", Subsections: []model.Subsection{
			{ID: "subsec-sprint", Name: "Sprint", SectionID: "sec-work"},
		}}},
	}
	todos := store.NewTodoStore(snap)
	sections := store.NewSectionStore(snap)
	todos.Load(context.Background())
	sections.LoadSections(context.Background())

	m := New(todos, sections, keys.DefaultKeyMap(), 100, 40)
	m.now = func() time.Time { return nine }
	m.SetTodo("todo-1")
	return m, todos
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDetailRendersTodo(t *testing.T) {
	m, _ := newDetail(t)
	out := m.renderContent()
	for _, want := range []string{"Prepare review", "P1", "Work / Sprint", "1h 30m", "overdue", "#work", "slides and demo"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestDetailToggleComplete(t *testing.T) {
	m, todos := newDetail(t)
	m, _ = m.Update(runes("x"))
	got, _ := todos.Get("todo-1")
	if !got.IsCompleted {
		t.Fatalf("expected todo completed")
	}
	if !strings.Contains(m.renderContent(), "Done") {
		t.Fatalf("status not refreshed")
	}
}

func TestDetailEditEmitsMessage(t *testing.T) {
	m, _ := newDetail(t)
	_, cmd := m.Update(runes("e"))
	msg, ok := cmd().(ui.EditTodoMsg)
	if !ok || msg.TodoID != "todo-1" {
		t.Fatalf("expected EditTodoMsg, got %#v", msg)
	}
}

func TestDetailDeleteGoesBack(t *testing.T) {
	m, todos := newDetail(t)
	m, cmd := m.Update(runes("d"))
	if _, ok := todos.Get("todo-1"); ok {
		t.Fatalf("expected todo deleted")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatalf("expected BackMsg")
	}
	if !strings.Contains(m.View(), "no longer exists") {
		t.Fatalf("expected missing-todo view")
	}

	if _, cmd := m.Update(runes("e")); cmd != nil {
		t.Fatalf("editing a deleted todo should do nothing")
	}
}

func TestDetailEscGoesBack(t *testing.T) {
	m, _ := newDetail(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatalf("expected BackMsg")
	}
}
