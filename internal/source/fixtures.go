package source

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/nhle/todo-way/internal/model"
)

//go:embed fixtures/*.json
var embedded embed.FS

// Fixtures is a Provider that decodes static JSON files named todos.json,
// sections.json and labels.json. Each call decodes afresh, so callers never
// share memory with one another.
type Fixtures struct {
	fsys fs.FS
}

// NewFixtures returns a Provider over the bundled demo data.
func NewFixtures() *Fixtures {
	sub, err := fs.Sub(embedded, "fixtures")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return &Fixtures{fsys: sub}
}

// NewFixturesFS returns a Provider reading the JSON files from fsys.
func NewFixturesFS(fsys fs.FS) *Fixtures {
	return &Fixtures{fsys: fsys}
}

// ListTodos decodes todos.json.
func (f *Fixtures) ListTodos(_ context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := f.decode("todos.json", &todos); err != nil {
		return nil, err
	}
	for i := range todos {
		if todos[i].Labels == nil {
			todos[i].Labels = []model.Label{}
		}
		if todos[i].Reminders == nil {
			todos[i].Reminders = []model.Reminder{}
		}
	}
	return todos, nil
}

// ListSections decodes sections.json.
func (f *Fixtures) ListSections(_ context.Context) ([]model.Section, error) {
	var sections []model.Section
	if err := f.decode("sections.json", &sections); err != nil {
		return nil, err
	}
	for i := range sections {
		if sections[i].Subsections == nil {
			sections[i].Subsections = []model.Subsection{}
		}
	}
	return sections, nil
}

// ListLabels decodes labels.json.
func (f *Fixtures) ListLabels(_ context.Context) ([]model.Label, error) {
	var labels []model.Label
	if err := f.decode("labels.json", &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (f *Fixtures) decode(name string, v any) error {
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding fixture %s: %w", name, err)
	}
	return nil
}
