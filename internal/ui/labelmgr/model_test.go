package labelmgr

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
	"github.com/nhle/todo-way/internal/store"
)

func newManager(t *testing.T) (Model, *store.SectionStore) {
	t.Helper()
	snap := &source.Snapshot{
		Labels: []model.Label{
			{ID: "lbl-work", Name: "work", Color: "#3B82F6"},
			{ID: "lbl-home", Name: "home", Color: "#10B981"},
		},
	}
	s := store.NewSectionStore(snap)
	s.LoadLabels(context.Background())
	return New(s, keys.DefaultKeyMap(), 80, 30), s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCreateLabel(t *testing.T) {
	m, s := newManager(t)
	m, _ = m.Update(runes("n"))
	if !m.Editing() || m.fb.color != defaultColor {
		t.Fatalf("expected form with default color, got %+v", m.fb)
	}

	m.fb.name = "errand"
	m.fb.color = "#F59E0B"
	m.save()

	labels := s.Labels()
	if len(labels) != 3 || labels[2].Name != "errand" || labels[2].Color != "#F59E0B" {
		t.Fatalf("unexpected labels %+v", labels)
	}
	if len(m.labels) != 3 || m.Editing() {
		t.Fatalf("list not refreshed or form still open")
	}
}

func TestEditLabel(t *testing.T) {
	m, s := newManager(t)
	m, _ = m.Update(runes("j"))
	m, _ = m.Update(runes("e"))
	if m.fb.name != "home" || m.editingID != "lbl-home" {
		t.Fatalf("edit should start from the selected label, got %+v", m.fb)
	}
	m.fb.name = "house"
	m.save()

	if l, _ := s.Label("lbl-home"); l.Name != "house" || l.Color != "#10B981" {
		t.Fatalf("unexpected label %+v", l)
	}
}

func TestInvalidColorRejected(t *testing.T) {
	m, s := newManager(t)
	m, _ = m.Update(runes("n"))
	m.fb.name = "bad"
	m.fb.color = "blue"
	m.save()

	if len(s.Labels()) != 2 || m.statusMsg == "" {
		t.Fatalf("invalid color should not create a label")
	}
}

func TestValidateColor(t *testing.T) {
	for _, ok := range []string{"", "#fff", "#3B82F6"} {
		if err := validateColor(ok); err != nil {
			t.Errorf("%q: %v", ok, err)
		}
	}
	for _, bad := range []string{"blue", "3B82F6", "#12345"} {
		if validateColor(bad) == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestDeleteLabel(t *testing.T) {
	m, s := newManager(t)
	m, _ = m.Update(runes("d"))
	m.fb.confirm = true
	m.confirmDelete()

	if _, ok := s.Label("lbl-work"); ok {
		t.Fatalf("label not deleted")
	}
	if len(m.labels) != 1 {
		t.Fatalf("list not refreshed: %+v", m.labels)
	}
}

func TestEscClosesView(t *testing.T) {
	m, _ := newManager(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseMsg); !ok {
		t.Fatalf("expected CloseMsg")
	}
}
