package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// FormWidth clamps a form to the available width.
func FormWidth(width int) int {
	return min(max(width-4, 40), 100)
}

// FormHeight clamps a form to the available height.
func FormHeight(height int) int {
	return max(height-4, 10)
}

// NameForm builds a single-field form bound to value.
func NameForm(title, placeholder string, value *string, width, height int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(value).
				Validate(Required("name")),
		),
	).WithWidth(FormWidth(width)).WithHeight(FormHeight(height))
}

// ConfirmForm builds a yes/no form bound to value.
func ConfirmForm(title, description string, value *bool, width, height int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(value),
		),
	).WithWidth(FormWidth(width)).WithHeight(FormHeight(height))
}

// Required rejects blank input.
func Required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// UpdateForm forwards msg to f and returns the updated form. Callers
// inspect its State for huh.StateCompleted or huh.StateAborted.
func UpdateForm(f *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	mdl, cmd := f.Update(msg)
	if next, ok := mdl.(*huh.Form); ok {
		f = next
	}
	return f, cmd
}
