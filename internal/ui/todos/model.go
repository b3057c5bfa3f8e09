package todos

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/prefs"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
	"github.com/nhle/todo-way/internal/ui/inbox"
)

type rowKind int

const (
	rowSection rowKind = iota
	rowSubsection
	rowTodo
)

// unsortedKey identifies the unsorted group in the collapse set.
const unsortedKey = "unsorted"

type row struct {
	kind         rowKind
	key          string
	sectionID    string
	subsectionID string
	todo         model.Todo
	text         string
}

// Model is the section/subsection grouped view of all open todos.
type Model struct {
	todos     *store.TodoStore
	sections  *store.SectionStore
	prefs     *prefs.Store
	keys      *keys.KeyMap
	groups    []Group
	rows      []row
	collapsed map[string]bool
	cursor    int
	offset    int
	form      *huh.Form
	newName   *string
	addTo     string // section id for a new subsection, "" for a new section
	statusMsg string
	width     int
	height    int
}

// New creates the grouped todos view.
func New(todos *store.TodoStore, sections *store.SectionStore, p *prefs.Store, k *keys.KeyMap, width, height int) Model {
	m := Model{
		todos:     todos,
		sections:  sections,
		prefs:     p,
		keys:      k,
		collapsed: make(map[string]bool),
		newName:   new(string),
		width:     width,
		height:    height,
	}
	m.Refresh()
	return m
}

// Refresh rebuilds the groups from the stores.
func (m *Model) Refresh() {
	m.groups = Build(m.todos.Todos(), m.sections.Sections())
	m.rows = m.buildRows()
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m Model) buildRows() []row {
	var rows []row
	for _, g := range m.groups {
		gk := g.SectionID
		if gk == "" {
			gk = unsortedKey
		}
		rows = append(rows, row{kind: rowSection, key: gk, sectionID: g.SectionID,
			text: fmt.Sprintf("%s (%d)", g.Name, g.Count)})
		if m.collapsed[gk] {
			continue
		}
		for _, t := range g.Todos {
			rows = append(rows, row{kind: rowTodo, sectionID: g.SectionID, todo: t})
		}
		for _, sg := range g.Subgroups {
			sub := sg.Subsection
			rows = append(rows, row{kind: rowSubsection, key: sub.ID, sectionID: g.SectionID, subsectionID: sub.ID,
				text: fmt.Sprintf("%s (%d)", sub.Name, len(sg.Todos))})
			if m.collapsed[sub.ID] {
				continue
			}
			for _, t := range sg.Todos {
				rows = append(rows, row{kind: rowTodo, sectionID: g.SectionID, subsectionID: sub.ID, todo: t})
			}
		}
	}
	return rows
}

// Editing reports whether the inline name form owns the keyboard.
func (m Model) Editing() bool {
	return m.form != nil
}

// Update handles messages for the grouped view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Down):
		if len(m.rows) > 0 {
			m.cursor = min(m.cursor+1, len(m.rows)-1)
		}
	case key.Matches(k, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)

	case key.Matches(k, m.keys.Select):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if r.kind == rowTodo {
			id := r.todo.ID
			return m, func() tea.Msg { return ui.OpenTodoMsg{TodoID: id} }
		}
		m.collapsed[r.key] = !m.collapsed[r.key]
		m.rows = m.buildRows()

	case key.Matches(k, m.keys.ToggleComplete):
		if r, ok := m.selected(); ok && r.kind == rowTodo {
			m.todos.ToggleComplete(r.todo.ID)
			m.Refresh()
		}

	case key.Matches(k, m.keys.NewTodo):
		defaults := m.createDefaults()
		return m, func() tea.Msg { return ui.NewTodoMsg{Defaults: defaults} }

	case key.Matches(k, m.keys.NewSection):
		return m.openForm("")

	case key.Matches(k, m.keys.NewSubsection):
		r, ok := m.selected()
		if !ok || r.sectionID == "" {
			m.statusMsg = "Select a section first"
			return m, nil
		}
		return m.openForm(r.sectionID)
	}
	m.scroll()
	return m, nil
}

// createDefaults pre-fills the create dialog with the selected group.
func (m Model) createDefaults() *model.CreateTodoInput {
	r, ok := m.selected()
	if !ok || r.sectionID == "" {
		return nil
	}
	in := &model.CreateTodoInput{SectionID: model.Ptr(r.sectionID)}
	if r.subsectionID != "" {
		in.SubsectionID = model.Ptr(r.subsectionID)
	}
	return in
}

func (m Model) openForm(sectionID string) (Model, tea.Cmd) {
	m.addTo = sectionID
	*m.newName = ""
	m.statusMsg = ""
	title := "New section"
	if sectionID != "" {
		name, _ := m.sections.SectionName(sectionID)
		title = fmt.Sprintf("New subsection in %s", name)
	}
	m.form = ui.NameForm(title, "Name", m.newName, m.width, m.height)
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = ui.UpdateForm(m.form, msg)
	switch m.form.State {
	case huh.StateCompleted:
		m.submitName()
		return m, nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// submitName creates the section or subsection named in the inline form.
func (m *Model) submitName() {
	m.form = nil
	name := strings.TrimSpace(*m.newName)
	if name == "" {
		return
	}
	if m.addTo == "" {
		m.sections.CreateSection(name)
	} else if _, ok := m.sections.CreateSubsection(m.addTo, name); !ok {
		m.statusMsg = "Section no longer exists"
	}
	m.Refresh()
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m Model) listHeight() int {
	return max(m.height-4, 1)
}

// View renders the grouped view.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder
	total := Total(m.groups)
	b.WriteString(theme.HeaderStyle.Render(fmt.Sprintf("Todos · %d open", total)))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(theme.DimmedStyle.Render("No sections yet. Press 'A' to create one or 'n' for a todo."))
		return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(b.String())
	}

	delegate := inbox.TodoDelegate{
		Fields:      m.prefs.Preferences().TodoCardDisplayFields,
		SectionName: m.sections.SectionName,
	}
	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		var line string
		switch r.kind {
		case rowSection:
			line = m.arrow(r.key) + " " + lipgloss.NewStyle().Bold(true).Render(r.text)
		case rowSubsection:
			line = "  " + m.arrow(r.key) + " " + r.text
		default:
			indent := "  "
			if r.subsectionID != "" {
				indent = "    "
			}
			line = indent + delegate.Line(r.todo)
		}
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render(m.statusMsg))
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) arrow(groupKey string) string {
	if m.collapsed[groupKey] {
		return "▸"
	}
	return "▾"
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scroll()
}
