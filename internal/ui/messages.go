package ui

import "github.com/nhle/todo-way/internal/model"

// OpenTodoMsg asks the root model to show a todo's detail.
type OpenTodoMsg struct {
	TodoID string
}

// NewTodoMsg asks the root model to open the create dialog. Defaults may
// be nil.
type NewTodoMsg struct {
	Defaults *model.CreateTodoInput
}

// EditTodoMsg asks the root model to open the edit form for a todo.
type EditTodoMsg struct {
	TodoID string
}
