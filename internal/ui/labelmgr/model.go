package labelmgr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
)

// defaultColor is offered for new labels.
const defaultColor = "#6BCB77"

// CloseMsg signals the parent to close the label view.
type CloseMsg struct{}

type labelMode int

const (
	modeList labelMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	color   string
	confirm bool
}

var validate = validator.New()

// Model is the Bubble Tea model for label management.
type Model struct {
	mode        labelMode
	store       *store.SectionStore
	keys        *keys.KeyMap
	labels      []model.Label
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new label manager model.
func New(s *store.SectionStore, k *keys.KeyMap, width, height int) Model {
	m := Model{
		mode:  modeList,
		store: s,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
	m.Refresh()
	return m
}

// Refresh reloads the labels from the store.
func (m *Model) Refresh() {
	m.labels = m.store.Labels()
	if m.selectedIdx >= len(m.labels) {
		m.selectedIdx = max(len(m.labels)-1, 0)
	}
}

// Editing reports whether a form currently owns the keyboard.
func (m Model) Editing() bool {
	return m.mode != modeList
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.labels) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.labels)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.labels) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.labels) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewTodo):
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.fb.color = defaultColor
		m.statusMsg = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.labels) == 0 {
			return m, nil
		}
		l := m.labels[m.selectedIdx]
		m.isNew = false
		m.editingID = l.ID
		m.fb.name = l.Name
		m.fb.color = l.Color
		m.statusMsg = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.labels) == 0 {
			return m, nil
		}
		l := m.labels[m.selectedIdx]
		m.editingID = l.ID
		m.fb.confirm = false
		m.confirmForm = ui.ConfirmForm(
			fmt.Sprintf("Delete label %q?", l.Name),
			"Todos that carry it keep their copy.",
			&m.fb.confirm, m.width, m.height,
		)
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Label name").
				Value(&m.fb.name).
				Validate(ui.Required("name")),
			huh.NewInput().
				Title("Color").
				Placeholder(defaultColor).
				Value(&m.fb.color).
				Validate(validateColor),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

// validateColor accepts an empty value or a hex color such as #3B82F6.
func validateColor(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "omitempty,hexcolor"); err != nil {
		return fmt.Errorf("color must be a hex value like %s", defaultColor)
	}
	return nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = ui.UpdateForm(m.form, msg)
	switch m.form.State {
	case huh.StateCompleted:
		m.save()
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.confirmForm, cmd = ui.UpdateForm(m.confirmForm, msg)
	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.confirmDelete()
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// save applies the submitted form to the store.
func (m *Model) save() {
	m.mode = modeList
	name := strings.TrimSpace(m.fb.name)
	color := strings.TrimSpace(m.fb.color)
	if name == "" || validateColor(color) != nil {
		m.statusMsg = "Label not saved: invalid name or color"
		return
	}

	if m.isNew {
		l := m.store.CreateLabel(name, color)
		m.statusMsg = fmt.Sprintf("Label %q created", l.Name)
	} else if m.store.UpdateLabel(m.editingID, name, color) {
		m.statusMsg = "Label saved"
	} else {
		m.statusMsg = "Label no longer exists"
	}
	m.Refresh()
}

// confirmDelete removes the label when the user agreed.
func (m *Model) confirmDelete() {
	m.mode = modeList
	if !m.fb.confirm {
		return
	}
	if m.store.DeleteLabel(m.editingID) {
		m.statusMsg = "Label deleted"
	}
	m.Refresh()
}

// View renders the label manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Labels"))
	b.WriteString("\n\n")

	if len(m.labels) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No labels yet. Press 'n' to create one."))
	} else {
		for i, l := range m.labels {
			chip := theme.LabelStyle(l).Render("●")
			line := fmt.Sprintf("%s %s", chip, l.Name)
			if l.Color != "" {
				line += theme.DimmedStyle.Render("  " + l.Color)
			}
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorBlue).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("n new | e edit | d delete | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
