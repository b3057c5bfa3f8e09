package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
)

func TestSectionStoreLoad(t *testing.T) {
	ctx := context.Background()
	s := NewSectionStore(source.NewFixtures())

	s.LoadSections(ctx)
	s.LoadLabels(ctx)

	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Sections()) == 0 || len(s.Labels()) == 0 {
		t.Fatalf("expected fixtures loaded")
	}

	s.CreateSection("scratch")
	s.LoadSections(ctx)
	for _, sec := range s.Sections() {
		if sec.Name == "scratch" {
			t.Fatalf("reload must overwrite local sections")
		}
	}
}

func TestSectionStoreLoadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s := NewSectionStore(failingProvider{err: errors.New("boom")})
	sec := s.CreateSection("Work")
	l := s.CreateLabel("urgent", "#FF0000")

	s.LoadSections(ctx)
	s.LoadLabels(ctx)

	if !errors.Is(s.Err(), ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", s.Err())
	}
	if _, ok := s.Section(sec.ID); !ok {
		t.Fatalf("failed load dropped sections")
	}
	if _, ok := s.Label(l.ID); !ok {
		t.Fatalf("failed load dropped labels")
	}
	if s.IsLoading() {
		t.Fatalf("store still loading")
	}
}

func TestSectionStoreCreateSectionSortOrder(t *testing.T) {
	s := NewSectionStore(nil)
	a := s.CreateSection("A")
	b := s.CreateSection("B")
	if a.SortOrder != 1 || b.SortOrder != 2 {
		t.Fatalf("unexpected sort orders %d %d", a.SortOrder, b.SortOrder)
	}
	if a.Subsections == nil || len(a.Subsections) != 0 {
		t.Fatalf("expected empty subsections")
	}

	// Deleting does not renumber, and the next section uses count+1.
	s.DeleteSection(a.ID)
	c := s.CreateSection("C")
	if c.SortOrder != 2 {
		t.Fatalf("expected sort order 2 after delete, got %d", c.SortOrder)
	}
	secs := s.Sections()
	if len(secs) != 2 || secs[0].SortOrder != 2 || secs[1].SortOrder != 2 {
		t.Fatalf("unexpected sections %+v", secs)
	}
}

func TestSectionStoreUpdateAndDelete(t *testing.T) {
	s := NewSectionStore(nil)
	sec := s.CreateSection("Wrok")

	if !s.UpdateSection(sec.ID, "Work") {
		t.Fatalf("expected rename to succeed")
	}
	if name, _ := s.SectionName(sec.ID); name != "Work" {
		t.Fatalf("expected renamed section, got %q", name)
	}
	if s.UpdateSection("missing", "x") || s.DeleteSection("missing") {
		t.Fatalf("operations on a missing section must report false")
	}
	if len(s.Sections()) != 1 {
		t.Fatalf("missing-id operations changed the sections")
	}

	if !s.DeleteSection(sec.ID) {
		t.Fatalf("expected delete to succeed")
	}
	if _, ok := s.SectionName(sec.ID); ok {
		t.Fatalf("deleted section still resolves")
	}
}

func TestSectionStoreCreateSubsection(t *testing.T) {
	s := NewSectionStore(nil)
	sec := s.CreateSection("Work")

	first, ok := s.CreateSubsection(sec.ID, "Sprint")
	if !ok || first.SectionID != sec.ID || first.SortOrder != 1 {
		t.Fatalf("unexpected subsection %+v", first)
	}
	second, _ := s.CreateSubsection(sec.ID, "Backlog")
	if second.SortOrder != 2 || second.ID == first.ID {
		t.Fatalf("unexpected second subsection %+v", second)
	}

	got, _ := s.Section(sec.ID)
	if len(got.Subsections) != 2 || got.Subsections[0].ID != first.ID {
		t.Fatalf("subsections not stored: %+v", got.Subsections)
	}

	before := s.Sections()
	if _, ok := s.CreateSubsection("missing", "x"); ok {
		t.Fatalf("expected failure for a missing section")
	}
	if !reflect.DeepEqual(before, s.Sections()) {
		t.Fatalf("failed subsection create mutated state")
	}
}

func TestSectionStoreReturnsCopies(t *testing.T) {
	s := NewSectionStore(nil)
	sec := s.CreateSection("Work")
	s.CreateSubsection(sec.ID, "Sprint")

	secs := s.Sections()
	secs[0].Subsections[0].Name = "mutated"

	got, _ := s.Section(sec.ID)
	if got.Subsections[0].Name != "Sprint" {
		t.Fatalf("section state was aliased")
	}
}

func TestSectionStoreLabels(t *testing.T) {
	s := NewSectionStore(nil)
	l := s.CreateLabel("work", "#3B82F6")

	if !s.UpdateLabel(l.ID, "office", "#000000") {
		t.Fatalf("expected update to succeed")
	}
	got, _ := s.Label(l.ID)
	if got.Name != "office" || got.Color != "#000000" {
		t.Fatalf("unexpected label %+v", got)
	}
	if s.UpdateLabel("missing", "x", "y") || s.DeleteLabel("missing") {
		t.Fatalf("operations on a missing label must report false")
	}
	if !s.DeleteLabel(l.ID) || len(s.Labels()) != 0 {
		t.Fatalf("expected label deleted")
	}
}

func TestSectionStoreIDsAreUnique(t *testing.T) {
	s := NewSectionStore(nil)
	seen := make(map[string]bool)
	check := func(id string) {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	for i := 0; i < 50; i++ {
		sec := s.CreateSection("s")
		check(sec.ID)
		sub, _ := s.CreateSubsection(sec.ID, "sub")
		check(sub.ID)
		check(s.CreateLabel("l", "#fff").ID)
	}
}

func TestLabelSnapshotIsolation(t *testing.T) {
	sections := NewSectionStore(nil)
	todos := NewTodoStore(nil)

	l := sections.CreateLabel("errand", "#F59E0B")
	todo := todos.Create(model.CreateTodoInput{Title: "Post office", Labels: []model.Label{l}})

	sections.UpdateLabel(l.ID, "chore", "#000000")
	got, _ := todos.Get(todo.ID)
	if got.Labels[0].Name != "errand" || got.Labels[0].Color != "#F59E0B" {
		t.Fatalf("todo label snapshot changed after rename: %+v", got.Labels[0])
	}

	sections.DeleteLabel(l.ID)
	got, _ = todos.Get(todo.ID)
	if len(got.Labels) != 1 || got.Labels[0].ID != l.ID {
		t.Fatalf("todo label snapshot removed after delete: %+v", got.Labels)
	}

	// The deleted label's snapshot still matches a label filter.
	todos.SetFilters(model.FilterPatch{LabelIDs: &[]string{l.ID}})
	if v := todos.Visible(); len(v) != 1 {
		t.Fatalf("expected snapshot to match label filter, got %d", len(v))
	}
}

func TestDanglingSectionReference(t *testing.T) {
	sections := NewSectionStore(nil)
	todos := NewTodoStore(nil)

	sec := sections.CreateSection("Temp")
	todo := todos.Create(model.CreateTodoInput{Title: "orphan", SectionID: model.Ptr(sec.ID)})
	todos.Create(model.CreateTodoInput{Title: "other"})

	sections.DeleteSection(sec.ID)

	got, _ := todos.Get(todo.ID)
	if got.SectionID == nil || *got.SectionID != sec.ID {
		t.Fatalf("expected dangling section id to remain, got %v", got.SectionID)
	}
	if _, ok := sections.SectionName(*got.SectionID); ok {
		t.Fatalf("dangling id must not resolve")
	}

	// Filtering on another section never matches the dangling todo.
	other := sections.CreateSection("Other")
	todos.SetFilters(model.FilterPatch{SectionID: model.Value(other.ID)})
	if v := todos.Visible(); len(v) != 0 {
		t.Fatalf("expected no matches for section %s, got %d", other.ID, len(v))
	}
	todos.SetFilters(model.FilterPatch{SectionID: model.Null[string]()})
	if v := todos.Visible(); len(v) != 2 {
		t.Fatalf("expected both todos without a section filter, got %d", len(v))
	}
}

func TestEndToEndScenario(t *testing.T) {
	sections := NewSectionStore(nil)
	todos := NewTodoStore(nil)

	work := sections.CreateSection("Work")
	sprint, ok := sections.CreateSubsection(work.ID, "Sprint")
	if !ok {
		t.Fatalf("creating subsection failed")
	}

	todo := todos.Create(model.CreateTodoInput{
		Title:        "Ship release",
		SectionID:    model.Ptr(work.ID),
		SubsectionID: model.Ptr(sprint.ID),
	})

	at := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	if _, ok := todos.Schedule(todo.ID, at, model.Ptr(60)); !ok {
		t.Fatalf("scheduling failed")
	}
	if _, ok := todos.ToggleComplete(todo.ID); !ok {
		t.Fatalf("toggling failed")
	}

	hidden := View(todos.Todos(), model.TodoFilters{ShowCompleted: false}, model.SortByCreatedAt, model.SortDesc)
	if len(hidden) != 0 {
		t.Fatalf("completed todo visible with showCompleted=false")
	}

	shown := View(todos.Todos(), model.TodoFilters{ShowCompleted: true}, model.SortByCreatedAt, model.SortDesc)
	if len(shown) != 1 {
		t.Fatalf("expected completed todo with showCompleted=true, got %d", len(shown))
	}
	got := shown[0]
	if got.CompletedAt == nil {
		t.Errorf("expected completed_at set")
	}
	if got.ScheduledDate == nil || !got.ScheduledDate.Equal(at) {
		t.Errorf("unexpected scheduled_date %v", got.ScheduledDate)
	}
	if got.DurationMinutes == nil || *got.DurationMinutes != 60 {
		t.Errorf("unexpected duration %v", got.DurationMinutes)
	}
	if *got.SectionID != work.ID || *got.SubsectionID != sprint.ID {
		t.Errorf("unexpected section refs %v %v", *got.SectionID, *got.SubsectionID)
	}
}
