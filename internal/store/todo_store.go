package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/ident"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
)

// TodoStore owns the todo collection and the active sort and filter
// configuration.
type TodoStore struct {
	notifier

	provider source.Provider
	opts     options
	log      *zap.Logger

	mu        sync.RWMutex
	todos     map[string]model.Todo
	order     []string
	sortBy    model.SortField
	sortOrder model.SortOrder
	filters   model.TodoFilters
	loading   bool
	err       error
}

// NewTodoStore creates an empty TodoStore that loads from p.
func NewTodoStore(p source.Provider, opts ...Option) *TodoStore {
	o := buildOptions(opts)
	return &TodoStore{
		provider:  p,
		opts:      o,
		log:       o.logger.Named("todos"),
		todos:     make(map[string]model.Todo),
		sortBy:    model.SortByCreatedAt,
		sortOrder: model.SortDesc,
		filters:   model.TodoFilters{LabelIDs: []string{}},
	}
}

// Load replaces the whole collection with the provider's current snapshot.
// On failure the collection is left unchanged and the error is available
// from Err.
func (s *TodoStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	todos, err := s.listTodos(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = fmt.Errorf("%w: fetching todos: %w", ErrLoadFailed, err)
		s.mu.Unlock()
		s.log.Warn("loading todos failed", zap.Error(err))
		return
	}
	s.todos = make(map[string]model.Todo, len(todos))
	s.order = s.order[:0]
	for _, t := range todos {
		if _, ok := s.todos[t.ID]; !ok {
			s.order = append(s.order, t.ID)
		}
		s.todos[t.ID] = t.Clone()
	}
	n := len(s.order)
	s.mu.Unlock()

	s.log.Debug("todos loaded", zap.Int("count", n))
	s.publish(Event{Kind: EventTodosLoaded})
}

func (s *TodoStore) listTodos(ctx context.Context) ([]model.Todo, error) {
	if s.provider == nil {
		return nil, errors.New("no data provider")
	}
	return s.provider.ListTodos(ctx)
}

// Create inserts a new todo built from in and returns it. Title is not
// validated; an empty title produces a todo with an empty title.
func (s *TodoStore) Create(in model.CreateTodoInput) model.Todo {
	now := s.opts.now()
	todo := model.Todo{
		ID:              s.opts.ids.New(ident.KindTodo),
		Title:           in.Title,
		Description:     in.Description,
		ScheduledDate:   in.ScheduledDate,
		DeadlineDate:    in.DeadlineDate,
		DurationMinutes: in.DurationMinutes,
		Priority:        in.Priority,
		Location:        in.Location,
		SectionID:       in.SectionID,
		SubsectionID:    in.SubsectionID,
		Labels:          append([]model.Label{}, in.Labels...),
		Reminders:       append([]model.Reminder{}, in.Reminders...),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if todo.Priority == "" {
		todo.Priority = model.DefaultPriority
	}
	todo = todo.Clone()

	s.mu.Lock()
	s.todos[todo.ID] = todo
	s.order = append(s.order, todo.ID)
	s.mu.Unlock()

	s.log.Debug("todo created", zap.String("id", todo.ID))
	s.publish(Event{Kind: EventTodoCreated, ID: todo.ID})
	return todo.Clone()
}

// Update merges patch onto the todo with the given id and refreshes its
// updated_at. It reports false, changing nothing, if id is unknown.
func (s *TodoStore) Update(id string, patch model.TodoPatch) (model.Todo, bool) {
	return s.mutate(id, func(t model.Todo, now time.Time) model.Todo {
		return patch.Apply(t, now)
	})
}

// ToggleComplete flips the completion state of a todo, stamping
// completed_at on completion and clearing it on reopening. It reports false
// if id is unknown.
func (s *TodoStore) ToggleComplete(id string) (model.Todo, bool) {
	return s.mutate(id, func(t model.Todo, now time.Time) model.Todo {
		t.IsCompleted = !t.IsCompleted
		if t.IsCompleted {
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
		return t
	})
}

// Schedule sets the scheduled date of a todo. A non-nil duration replaces
// duration_minutes; nil leaves it as is. It reports false if id is unknown.
func (s *TodoStore) Schedule(id string, at time.Time, duration *int) (model.Todo, bool) {
	return s.mutate(id, func(t model.Todo, _ time.Time) model.Todo {
		t.ScheduledDate = &at
		if duration != nil {
			d := *duration
			t.DurationMinutes = &d
		}
		return t
	})
}

// mutate applies fn to a copy of the todo and stores the result with a
// fresh updated_at. The identifier and created_at are always kept.
func (s *TodoStore) mutate(id string, fn func(model.Todo, time.Time) model.Todo) (model.Todo, bool) {
	s.mu.Lock()
	existing, ok := s.todos[id]
	if !ok {
		s.mu.Unlock()
		return model.Todo{}, false
	}

	now := s.stamp(existing)
	updated := fn(existing.Clone(), now)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now
	s.todos[id] = updated
	s.mu.Unlock()

	s.log.Debug("todo updated", zap.String("id", id))
	s.publish(Event{Kind: EventTodoUpdated, ID: id})
	return updated.Clone(), true
}

// stamp returns the clock reading, never earlier than the todo's existing
// timestamps.
func (s *TodoStore) stamp(t model.Todo) time.Time {
	now := s.opts.now()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	return now
}

// Delete removes the todo with the given id. It reports false if id is
// unknown.
func (s *TodoStore) Delete(id string) bool {
	s.mu.Lock()
	if _, ok := s.todos[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.todos, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.log.Debug("todo deleted", zap.String("id", id))
	s.publish(Event{Kind: EventTodoDeleted, ID: id})
	return true
}

// SetSortBy selects the sort field of the display view.
func (s *TodoStore) SetSortBy(field model.SortField) {
	s.mu.Lock()
	s.sortBy = field
	s.mu.Unlock()
	s.publish(Event{Kind: EventViewChanged})
}

// SetSortOrder selects the sort direction of the display view.
func (s *TodoStore) SetSortOrder(order model.SortOrder) {
	s.mu.Lock()
	s.sortOrder = order
	s.mu.Unlock()
	s.publish(Event{Kind: EventViewChanged})
}

// SetFilters shallow-merges patch onto the current filters.
func (s *TodoStore) SetFilters(patch model.FilterPatch) {
	s.mu.Lock()
	s.filters = patch.Apply(s.filters)
	s.mu.Unlock()
	s.publish(Event{Kind: EventViewChanged})
}

// Todos returns a copy of every todo in insertion order. This order is not
// the display order; use Visible for that.
func (s *TodoStore) Todos() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Todo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.todos[id].Clone())
	}
	return out
}

// Get returns a copy of the todo with the given id.
func (s *TodoStore) Get(id string) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, false
	}
	return t.Clone(), true
}

// Len returns the number of todos.
func (s *TodoStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// SortBy returns the active sort field.
func (s *TodoStore) SortBy() model.SortField {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

// SortOrder returns the active sort direction.
func (s *TodoStore) SortOrder() model.SortOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortOrder
}

// Filters returns a copy of the active filters.
func (s *TodoStore) Filters() model.TodoFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// IsLoading reports whether a Load is in progress.
func (s *TodoStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the last Load, if it failed.
func (s *TodoStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Visible returns the filtered, sorted display list for the current state.
// Each call allocates a new slice.
func (s *TodoStore) Visible() []model.Todo {
	s.mu.RLock()
	todos := make([]model.Todo, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, s.todos[id].Clone())
	}
	filters, sortBy, order := s.filters.Clone(), s.sortBy, s.sortOrder
	s.mu.RUnlock()
	return View(todos, filters, sortBy, order)
}
