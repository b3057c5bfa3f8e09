// Package source supplies the read-only initial snapshot of todos,
// sections and labels that the in-memory stores are loaded from.
package source

import (
	"context"

	"github.com/nhle/todo-way/internal/model"
)

// Provider is the data-loading facade. Every call returns a full,
// independent snapshot; calls have no side effects and may be repeated.
type Provider interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	ListSections(ctx context.Context) ([]model.Section, error)
	ListLabels(ctx context.Context) ([]model.Label, error)
}

// Snapshot is an in-memory Provider over fixed slices.
type Snapshot struct {
	Todos    []model.Todo
	Sections []model.Section
	Labels   []model.Label
}

// ListTodos returns a deep copy of the snapshot's todos.
func (s *Snapshot) ListTodos(_ context.Context) ([]model.Todo, error) {
	out := make([]model.Todo, len(s.Todos))
	for i, t := range s.Todos {
		out[i] = t.Clone()
	}
	return out, nil
}

// ListSections returns a deep copy of the snapshot's sections.
func (s *Snapshot) ListSections(_ context.Context) ([]model.Section, error) {
	out := make([]model.Section, len(s.Sections))
	for i, sec := range s.Sections {
		out[i] = sec.Clone()
	}
	return out, nil
}

// ListLabels returns a copy of the snapshot's labels.
func (s *Snapshot) ListLabels(_ context.Context) ([]model.Label, error) {
	return append([]model.Label{}, s.Labels...), nil
}

// Load reads a full snapshot from p.
func Load(ctx context.Context, p Provider) (*Snapshot, error) {
	todos, err := p.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	sections, err := p.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := p.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Todos: todos, Sections: sections, Labels: labels}, nil
}
