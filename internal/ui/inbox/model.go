package inbox

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/prefs"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
)

// Model is the inbox list over the visible todos.
type Model struct {
	list     list.Model
	todos    *store.TodoStore
	sections *store.SectionStore
	prefs    *prefs.Store
	keys     *keys.KeyMap
	// labelForm is the label filter picker; labelIDs is bound to it.
	labelForm *huh.Form
	labelIDs  *[]string
	statusMsg string
	width     int
	height    int
}

// New creates a new inbox model.
func New(todos *store.TodoStore, sections *store.SectionStore, p *prefs.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TodoDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	m := Model{
		list:     l,
		todos:    todos,
		sections: sections,
		prefs:    p,
		keys:     k,
		labelIDs: new([]string),
		width:    width,
		height:   height,
	}
	m.Refresh()
	return m
}

// Refresh rebuilds the rows from the store's current visible view.
func (m *Model) Refresh() tea.Cmd {
	visible := m.todos.Visible()
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TodoItem{Todo: t}
	}

	m.list.SetDelegate(TodoDelegate{
		Fields:      m.prefs.Preferences().TodoCardDisplayFields,
		SectionName: m.sections.SectionName,
	})
	m.list.Title = "Inbox · " + m.Summary()
	return m.list.SetItems(items)
}

// Editing reports whether the label filter picker owns the keyboard.
func (m Model) Editing() bool {
	return m.labelForm != nil
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.labelForm != nil {
		return m.updateLabelForm(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.statusMsg = ""
	switch {
	case key.Matches(msg, m.keys.Select):
		t, ok := m.SelectedTodo()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ui.OpenTodoMsg{TodoID: t.ID} }

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.SelectedTodo()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ui.EditTodoMsg{TodoID: t.ID} }

	case key.Matches(msg, m.keys.NewTodo):
		var defaults *model.CreateTodoInput
		if sec := m.todos.Filters().SectionID; sec != nil {
			defaults = &model.CreateTodoInput{SectionID: model.Ptr(*sec)}
		}
		return m, func() tea.Msg { return ui.NewTodoMsg{Defaults: defaults} }

	case key.Matches(msg, m.keys.ToggleComplete):
		if t, ok := m.SelectedTodo(); ok {
			m.todos.ToggleComplete(t.ID)
		}
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.SelectedTodo(); ok {
			m.todos.Delete(t.ID)
		}
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.CycleSort):
		m.todos.SetSortBy(nextSortField(m.todos.SortBy()))
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.FlipOrder):
		order := model.SortAsc
		if m.todos.SortOrder() == model.SortAsc {
			order = model.SortDesc
		}
		m.todos.SetSortOrder(order)
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.ShowCompleted):
		show := !m.todos.Filters().ShowCompleted
		m.todos.SetFilters(model.FilterPatch{ShowCompleted: &show})
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.CyclePriority):
		m.todos.SetFilters(model.FilterPatch{Priority: nextPriority(m.todos.Filters().Priority)})
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.CycleSection):
		m.todos.SetFilters(model.FilterPatch{SectionID: m.nextSection(m.todos.Filters().SectionID)})
		cmd := m.Refresh()
		return m, cmd

	case key.Matches(msg, m.keys.LabelFilter):
		return m.openLabelForm()

	case key.Matches(msg, m.keys.ClearFilters):
		m.todos.SetFilters(model.FilterPatch{
			SectionID: model.Null[string](),
			Priority:  model.Null[model.Priority](),
			LabelIDs:  &[]string{},
		})
		cmd := m.Refresh()
		return m, cmd
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// openLabelForm shows a multi-select over the label catalog, pre-checked
// with the active label filter.
func (m Model) openLabelForm() (Model, tea.Cmd) {
	labels := m.sections.Labels()
	if len(labels) == 0 {
		m.statusMsg = "No labels yet"
		return m, nil
	}
	*m.labelIDs = append([]string{}, m.todos.Filters().LabelIDs...)

	opts := make([]huh.Option[string], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l.Name, l.ID)
	}
	m.labelForm = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Filter by labels").
				Description("Todos with any checked label are shown").
				Options(opts...).
				Value(m.labelIDs),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
	return m, m.labelForm.Init()
}

func (m Model) updateLabelForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.labelForm = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.labelForm, cmd = ui.UpdateForm(m.labelForm, msg)
	switch m.labelForm.State {
	case huh.StateCompleted:
		m.labelForm = nil
		m.applyLabelFilter(*m.labelIDs)
		cmd := m.Refresh()
		return m, cmd
	case huh.StateAborted:
		m.labelForm = nil
		return m, nil
	}
	return m, cmd
}

// applyLabelFilter replaces the label filter, dropping ids no longer in
// the catalog.
func (m Model) applyLabelFilter(ids []string) {
	keep := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.sections.Label(id); ok {
			keep = append(keep, id)
		}
	}
	m.todos.SetFilters(model.FilterPatch{LabelIDs: &keep})
}

// nextSortField returns the sort field after cur in SortFields.
func nextSortField(cur model.SortField) model.SortField {
	i := slices.Index(model.SortFields, cur)
	return model.SortFields[(i+1)%len(model.SortFields)]
}

// nextPriority cycles none → p1 → … → p4 → none.
func nextPriority(cur *model.Priority) model.Field[model.Priority] {
	if cur == nil {
		return model.Value(model.Priorities[0])
	}
	i := slices.Index(model.Priorities, *cur)
	if i < 0 || i == len(model.Priorities)-1 {
		return model.Null[model.Priority]()
	}
	return model.Value(model.Priorities[i+1])
}

// nextSection cycles none → each section in order → none.
func (m Model) nextSection(cur *string) model.Field[string] {
	secs := m.sections.Sections()
	if len(secs) == 0 {
		return model.Null[string]()
	}
	if cur == nil {
		return model.Value(secs[0].ID)
	}
	i := slices.IndexFunc(secs, func(s model.Section) bool { return s.ID == *cur })
	if i < 0 || i == len(secs)-1 {
		return model.Null[string]()
	}
	return model.Value(secs[i+1].ID)
}

// SelectedTodo returns the todo under the cursor.
func (m Model) SelectedTodo() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

// Summary describes the active sort and filters, for example
// "created_at desc · p1 · Work".
func (m Model) Summary() string {
	parts := []string{fmt.Sprintf("%s %s", m.todos.SortBy(), m.todos.SortOrder())}
	f := m.todos.Filters()
	if f.Priority != nil {
		parts = append(parts, string(*f.Priority))
	}
	if f.SectionID != nil {
		name, ok := m.sections.SectionName(*f.SectionID)
		if !ok {
			name = *f.SectionID
		}
		parts = append(parts, name)
	}
	for _, id := range f.LabelIDs {
		if l, ok := m.sections.Label(id); ok {
			parts = append(parts, "#"+l.Name)
		}
	}
	if f.ShowCompleted {
		parts = append(parts, "+done")
	}
	return strings.Join(parts, " · ")
}

// View renders the inbox.
func (m Model) View() string {
	if m.labelForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.labelForm.View())
	}
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	if m.statusMsg != "" {
		return m.list.View() + "\n" + theme.HelpStyle.Render(m.statusMsg)
	}
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.todos.Len() > 0 {
		return style.Render("No matching todos.\nTry adjusting your filters.")
	}
	return style.Render("No todos yet.\n\nRun `todoway seed` to load sample data.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
