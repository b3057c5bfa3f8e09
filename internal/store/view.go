package store

import (
	"slices"
	"time"

	"github.com/nhle/todo-way/internal/model"
)

// View derives the display list from todos: completed todos are dropped
// unless filters.ShowCompleted is set, then the section, priority and label
// filters are applied, and the result is stably sorted by sortBy.
//
// Section matching is exact (a subsection's todos are not implied) and
// label matching uses OR logic. For date fields a missing value always
// sorts last, whatever the direction. View never modifies its inputs and
// returns a new slice on every call.
func View(todos []model.Todo, filters model.TodoFilters, sortBy model.SortField, order model.SortOrder) []model.Todo {
	result := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if matches(t, filters) {
			result = append(result, t.Clone())
		}
	}

	dir := 1
	if order != model.SortAsc {
		dir = -1
	}

	slices.SortStableFunc(result, func(a, b model.Todo) int {
		switch sortBy {
		case model.SortByPriority:
			return (a.Priority.Rank() - b.Priority.Rank()) * dir
		case model.SortByScheduledDate, model.SortByDeadlineDate, model.SortByCreatedAt:
			return compareNullsLast(sortTime(a, sortBy), sortTime(b, sortBy), dir)
		default:
			return 0
		}
	})

	return result
}

func matches(t model.Todo, f model.TodoFilters) bool {
	if !f.ShowCompleted && t.IsCompleted {
		return false
	}
	if f.SectionID != nil && *f.SectionID != "" {
		if t.SectionID == nil || *t.SectionID != *f.SectionID {
			return false
		}
	}
	if f.Priority != nil && *f.Priority != "" && t.Priority != *f.Priority {
		return false
	}
	if len(f.LabelIDs) > 0 {
		found := false
		for _, id := range f.LabelIDs {
			if t.HasLabel(id) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// sortTime returns the value of a date sort field, nil when unset.
func sortTime(t model.Todo, field model.SortField) *time.Time {
	switch field {
	case model.SortByScheduledDate:
		return t.ScheduledDate
	case model.SortByDeadlineDate:
		return t.DeadlineDate
	case model.SortByCreatedAt:
		if t.CreatedAt.IsZero() {
			return nil
		}
		return &t.CreatedAt
	}
	return nil
}

// compareNullsLast orders instants by dir while keeping nil values at the
// end regardless of dir.
func compareNullsLast(a, b *time.Time, dir int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b) * dir
}
