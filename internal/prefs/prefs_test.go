package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nhle/todo-way/internal/model"
)

func blobPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "ui", BlobName+".yaml")
}

func TestOpenMissingBlobUsesDefaults(t *testing.T) {
	s := Open(blobPath(t), nil)
	if got := s.Preferences(); !reflect.DeepEqual(got, model.DefaultPreferences()) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestOpenUnreadableBlobUsesDefaults(t *testing.T) {
	path := blobPath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("theme: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path, nil)
	if got := s.Preferences(); !reflect.DeepEqual(got, model.DefaultPreferences()) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestOpenInvalidValueUsesDefaults(t *testing.T) {
	path := blobPath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("theme: neon\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path, nil)
	if got := s.Preferences().Theme; got != model.ThemeSystem {
		t.Fatalf("expected default theme, got %q", got)
	}
}

func TestPreferencesPersistAcrossOpen(t *testing.T) {
	path := blobPath(t)
	s := Open(path, nil)

	if err := s.ToggleSidebar(); err != nil {
		t.Fatalf("ToggleSidebar: %v", err)
	}
	if err := s.SetTheme(model.ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if err := s.SetCalendarView(model.CalendarMonth); err != nil {
		t.Fatalf("SetCalendarView: %v", err)
	}
	if err := s.ToggleCardDisplayField("show_section"); err != nil {
		t.Fatalf("ToggleCardDisplayField: %v", err)
	}
	if err := s.ToggleCardDisplayField("show_labels"); err != nil {
		t.Fatalf("ToggleCardDisplayField: %v", err)
	}

	got := Open(path, nil).Preferences()
	want := model.DefaultPreferences()
	want.SidebarOpen = false
	want.Theme = model.ThemeDark
	want.CalendarView = model.CalendarMonth
	want.TodoCardDisplayFields.ShowSection = true
	want.TodoCardDisplayFields.ShowLabels = false

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("reopened preferences mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestEphemeralStateIsNotPersisted(t *testing.T) {
	path := blobPath(t)
	s := Open(path, nil)

	s.OpenTodoDetail("todo-1")
	s.OpenCreateDialog(&model.CreateTodoInput{Title: "draft"})
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened := Open(path, nil)
	if _, ok := reopened.SelectedTodoID(); ok {
		t.Fatalf("selected todo was persisted")
	}
	if open, _ := reopened.CreateDialog(); open {
		t.Fatalf("create dialog state was persisted")
	}
}

func TestRejectsInvalidValues(t *testing.T) {
	s := Open("", nil)

	if err := s.SetTheme("neon"); err == nil {
		t.Errorf("expected error for invalid theme")
	}
	if err := s.SetCalendarView("year"); err == nil {
		t.Errorf("expected error for invalid view")
	}
	if err := s.ToggleCardDisplayField("show_everything"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if got := s.Preferences(); !reflect.DeepEqual(got, model.DefaultPreferences()) {
		t.Fatalf("rejected updates changed state: %+v", got)
	}
}

func TestTodoDetail(t *testing.T) {
	s := Open("", nil)
	if _, ok := s.SelectedTodoID(); ok {
		t.Fatalf("expected no selection")
	}
	s.OpenTodoDetail("todo-3")
	if id, ok := s.SelectedTodoID(); !ok || id != "todo-3" {
		t.Fatalf("unexpected selection %q %v", id, ok)
	}
	s.CloseTodoDetail()
	if _, ok := s.SelectedTodoID(); ok {
		t.Fatalf("expected selection cleared")
	}
}

func TestCreateDialog(t *testing.T) {
	s := Open("", nil)

	s.OpenCreateDialog(nil)
	open, defaults := s.CreateDialog()
	if !open || defaults != nil {
		t.Fatalf("unexpected dialog state %v %+v", open, defaults)
	}

	in := &model.CreateTodoInput{Title: "prefilled", Priority: model.PriorityP2}
	s.OpenCreateDialog(in)
	in.Title = "mutated"
	_, defaults = s.CreateDialog()
	if defaults == nil || defaults.Title != "prefilled" {
		t.Fatalf("unexpected defaults %+v", defaults)
	}

	s.CloseCreateDialog()
	open, defaults = s.CreateDialog()
	if open || defaults != nil {
		t.Fatalf("expected dialog closed and defaults dropped")
	}
}

func TestDisplayFieldsAreToggleable(t *testing.T) {
	s := Open("", nil)
	for _, name := range DisplayFields {
		if err := s.ToggleCardDisplayField(name); err != nil {
			t.Errorf("toggling %s: %v", name, err)
		}
	}
	want := model.CardDisplayFields{ShowSection: true}
	if got := s.Preferences().TodoCardDisplayFields; got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
