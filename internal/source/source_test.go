package source_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
	"github.com/nhle/todo-way/internal/testutil"
)

func TestFixturesSnapshot(t *testing.T) {
	ctx := context.Background()
	snap, err := source.Load(ctx, source.NewFixtures())
	if err != nil {
		t.Fatalf("loading fixtures: %v", err)
	}
	if len(snap.Todos) == 0 || len(snap.Sections) == 0 || len(snap.Labels) == 0 {
		t.Fatalf("expected non-empty fixtures, got %d todos %d sections %d labels",
			len(snap.Todos), len(snap.Sections), len(snap.Labels))
	}

	ids := make(map[string]bool)
	for _, todo := range snap.Todos {
		if ids[todo.ID] {
			t.Errorf("duplicate fixture todo id %s", todo.ID)
		}
		ids[todo.ID] = true
		if todo.IsCompleted != (todo.CompletedAt != nil) {
			t.Errorf("todo %s: completion fields disagree", todo.ID)
		}
		if !todo.Priority.Valid() {
			t.Errorf("todo %s: invalid priority %q", todo.ID, todo.Priority)
		}
		if todo.Labels == nil || todo.Reminders == nil {
			t.Errorf("todo %s: expected non-nil labels and reminders", todo.ID)
		}
	}
}

func TestFixturesReturnIndependentCopies(t *testing.T) {
	ctx := context.Background()
	f := source.NewFixtures()

	first, err := f.ListTodos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	first[0].Title = "mutated"

	second, err := f.ListTodos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Title == "mutated" {
		t.Fatalf("fixture snapshots share memory")
	}
}

func TestFixturesMissingFile(t *testing.T) {
	f := source.NewFixturesFS(fstest.MapFS{})
	_, err := f.ListLabels(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSQLiteRoundTripsFixtures(t *testing.T) {
	ctx := context.Background()
	want, err := source.Load(ctx, source.NewFixtures())
	if err != nil {
		t.Fatal(err)
	}

	db := testutil.NewTestSQLite(t)
	if err := db.Seed(ctx, want); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	got, err := source.Load(ctx, db)
	if err != nil {
		t.Fatalf("loading from sqlite: %v", err)
	}

	if len(got.Labels) != len(want.Labels) {
		t.Fatalf("expected %d labels, got %d", len(want.Labels), len(got.Labels))
	}
	if len(got.Sections) != len(want.Sections) {
		t.Fatalf("expected %d sections, got %d", len(want.Sections), len(got.Sections))
	}
	for i := range want.Sections {
		if len(got.Sections[i].Subsections) != len(want.Sections[i].Subsections) {
			t.Errorf("section %s: expected %d subsections, got %d", want.Sections[i].ID,
				len(want.Sections[i].Subsections), len(got.Sections[i].Subsections))
		}
	}
	if len(got.Todos) != len(want.Todos) {
		t.Fatalf("expected %d todos, got %d", len(want.Todos), len(got.Todos))
	}

	byID := make(map[string]model.Todo)
	for _, todo := range got.Todos {
		byID[todo.ID] = todo
	}
	for _, w := range want.Todos {
		g, ok := byID[w.ID]
		if !ok {
			t.Errorf("todo %s missing from sqlite snapshot", w.ID)
			continue
		}
		if g.Title != w.Title || g.Priority != w.Priority || g.IsCompleted != w.IsCompleted {
			t.Errorf("todo %s: got %+v, want %+v", w.ID, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("todo %s: created_at %v, want %v", w.ID, g.CreatedAt, w.CreatedAt)
		}
		if (g.ScheduledDate == nil) != (w.ScheduledDate == nil) {
			t.Errorf("todo %s: scheduled_date nullness differs", w.ID)
		} else if w.ScheduledDate != nil && !g.ScheduledDate.Equal(*w.ScheduledDate) {
			t.Errorf("todo %s: scheduled_date %v, want %v", w.ID, g.ScheduledDate, w.ScheduledDate)
		}
		if len(g.Labels) != len(w.Labels) {
			t.Errorf("todo %s: expected %d labels, got %d", w.ID, len(w.Labels), len(g.Labels))
		}
		for i := range w.Labels {
			if i < len(g.Labels) && g.Labels[i] != w.Labels[i] {
				t.Errorf("todo %s: label %d is %+v, want %+v", w.ID, i, g.Labels[i], w.Labels[i])
			}
		}
		if len(g.Reminders) != len(w.Reminders) {
			t.Errorf("todo %s: expected %d reminders, got %d", w.ID, len(w.Reminders), len(g.Reminders))
		}
	}
}

func TestSQLiteSeedReplacesContents(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestSQLite(t)

	first := &source.Snapshot{Labels: []model.Label{{ID: "lbl-a", Name: "a", Color: "#000000"}}}
	second := &source.Snapshot{Labels: []model.Label{{ID: "lbl-b", Name: "b", Color: "#FFFFFF"}}}
	if err := db.Seed(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := db.Seed(ctx, second); err != nil {
		t.Fatal(err)
	}

	labels, err := db.ListLabels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 1 || labels[0].ID != "lbl-b" {
		t.Fatalf("expected only lbl-b after reseed, got %+v", labels)
	}
}

func TestSQLiteReopenSkipsAppliedMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	db, err := source.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	snap := &source.Snapshot{Sections: []model.Section{{ID: "sec-a", Name: "Work", SortOrder: 1}}}
	if err := db.Seed(ctx, snap); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = source.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer db.Close()

	sections, err := db.ListSections(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 1 || sections[0].Name != "Work" {
		t.Fatalf("reopen lost seeded data: %+v", sections)
	}
}
