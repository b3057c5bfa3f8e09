package sectionmgr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
)

// CloseMsg signals the parent to close the section view.
type CloseMsg struct{}

type sectionMode int

const (
	modeList sectionMode = iota
	modeForm
	modeConfirmDelete
)

// formPurpose says what a submitted name form does.
type formPurpose int

const (
	purposeNewSection formPurpose = iota
	purposeNewSubsection
	purposeRename
)

type formBindings struct {
	name    string
	confirm bool
}

// row is one line of the manager: a section or one of its subsections.
type row struct {
	sectionID    string
	subsectionID string
	name         string
}

func (r row) isSection() bool { return r.subsectionID == "" }

// Model is the Bubble Tea model for section management.
type Model struct {
	mode        sectionMode
	purpose     formPurpose
	store       *store.SectionStore
	keys        *keys.KeyMap
	rows        []row
	selectedIdx int
	targetID    string
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new section manager model.
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

// Refresh rebuilds the rows from the store.
func (m *Model) Refresh() {
	m.rows = buildRows(m.store.Sections())
	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = max(len(m.rows)-1, 0)
	}
}

func buildRows(sections []model.Section) []row {
	var rows []row
	for _, s := range sections {
		rows = append(rows, row{sectionID: s.ID, name: s.Name})
		for _, sub := range s.Subsections {
			rows = append(rows, row{sectionID: s.ID, subsectionID: sub.ID, name: sub.Name})
		}
	}
	return rows
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
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
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

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.rows) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.rows)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.rows) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.rows) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewSection), key.Matches(msg, m.keys.NewTodo):
		return m.openForm(purposeNewSection, "", "")

	case key.Matches(msg, m.keys.NewSubsection):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.openForm(purposeNewSubsection, r.sectionID, "")

	case key.Matches(msg, m.keys.Edit):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !r.isSection() {
			m.statusMsg = "Subsections cannot be renamed"
			return m, nil
		}
		return m.openForm(purposeRename, r.sectionID, r.name)

	case key.Matches(msg, m.keys.Delete):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !r.isSection() {
			m.statusMsg = "Subsections are removed with their section"
			return m, nil
		}
		m.targetID = r.sectionID
		m.fb.confirm = false
		m.confirmForm = ui.ConfirmForm(
			fmt.Sprintf("Delete section %q?", r.name),
			"Its subsections go with it. Todos keep their section reference.",
			&m.fb.confirm, m.width, m.height,
		)
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) openForm(purpose formPurpose, targetID, name string) (Model, tea.Cmd) {
	m.purpose = purpose
	m.targetID = targetID
	m.fb.name = name
	m.statusMsg = ""

	title := "Section name"
	if purpose == purposeNewSubsection {
		title = "Subsection name"
	}
	m.form = ui.NameForm(title, "e.g. Work", &m.fb.name, m.width, m.height)
	m.mode = modeForm
	return m, m.form.Init()
}

func (m Model) selected() (row, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.selectedIdx], true
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

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// save applies the submitted name form to the store.
func (m *Model) save() {
	name := strings.TrimSpace(m.fb.name)
	m.mode = modeList
	if name == "" {
		return
	}

	switch m.purpose {
	case purposeNewSection:
		sec := m.store.CreateSection(name)
		m.statusMsg = fmt.Sprintf("Section %q created", sec.Name)
	case purposeNewSubsection:
		if _, ok := m.store.CreateSubsection(m.targetID, name); ok {
			m.statusMsg = fmt.Sprintf("Subsection %q created", name)
		} else {
			m.statusMsg = "Section no longer exists"
		}
	case purposeRename:
		if m.store.UpdateSection(m.targetID, name) {
			m.statusMsg = "Section renamed"
		} else {
			m.statusMsg = "Section no longer exists"
		}
	}
	m.Refresh()
}

// confirmDelete removes the target section when the user agreed.
func (m *Model) confirmDelete() {
	m.mode = modeList
	if !m.fb.confirm {
		return
	}
	if m.store.DeleteSection(m.targetID) {
		m.statusMsg = "Section deleted"
	}
	m.Refresh()
}

// View renders the section manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Sections"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No sections yet. Press 'A' to create one."))
	} else {
		for i, r := range m.rows {
			label := "▸ " + r.name
			if !r.isSection() {
				label = "    " + r.name
			}
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorBlue).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render(
		"A new section | a new subsection | e rename | d delete | esc back",
	))

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
