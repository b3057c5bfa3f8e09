package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/keys"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/store"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
	"github.com/nhle/todo-way/internal/ui/calview"
	"github.com/nhle/todo-way/internal/ui/detail"
	helpview "github.com/nhle/todo-way/internal/ui/help"
	"github.com/nhle/todo-way/internal/ui/inbox"
	"github.com/nhle/todo-way/internal/ui/labelmgr"
	"github.com/nhle/todo-way/internal/ui/sectionmgr"
	"github.com/nhle/todo-way/internal/ui/todoform"
	"github.com/nhle/todo-way/internal/ui/todos"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewTodos
	ViewCalendar
	ViewSections
	ViewLabels
	ViewDetail
	ViewForm
	ViewHelp
)

// loadedMsg is sent when a session load finishes.
type loadedMsg struct {
	err error
}

// storeEventMsg carries a store change into the update loop.
type storeEventMsg struct {
	event store.Event
}

// Model is the root Bubble Tea model that manages view routing and layout
// over a Session.
type Model struct {
	currentView ViewState
	// stack holds the views to return to from detail, form and help.
	stack       []ViewState
	layout      ui.Layout
	session     *Session
	keys        *keys.KeyMap
	inbox       inbox.Model
	todos       todos.Model
	calendar    calview.Model
	sectionMgr  sectionmgr.Model
	labelMgr    labelmgr.Model
	detail      detail.Model
	form        todoform.Model
	helpView    helpview.Model
	events      chan store.Event
	unsubscribe []func()
	statusMsg   string
	ready       bool
	loadErr     error
}

// NewModel creates the root model for s and subscribes to its stores.
func NewModel(s *Session) Model {
	k := keys.DefaultKeyMap()
	theme.Apply(s.Prefs.Preferences().Theme)

	events := make(chan store.Event, 64)
	forward := func(e store.Event) {
		select {
		case events <- e:
		default:
			// The UI refreshes from the stores on the next event anyway.
		}
	}

	return Model{
		currentView: ViewInbox,
		session:     s,
		keys:        k,
		inbox:       inbox.New(s.Todos, s.Sections, s.Prefs, k, 80, 24),
		todos:       todos.New(s.Todos, s.Sections, s.Prefs, k, 80, 24),
		calendar:    calview.New(s.Todos, s.Prefs, k, nil, 80, 24),
		sectionMgr:  sectionmgr.New(s.Sections, k, 80, 24),
		labelMgr:    labelmgr.New(s.Sections, k, 80, 24),
		detail:      detail.New(s.Todos, s.Sections, k, 80, 24),
		form:        todoform.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		events:      events,
		unsubscribe: []func(){
			s.Todos.Subscribe(forward),
			s.Sections.Subscribe(forward),
		},
	}
}

// Init loads the session and starts listening for store events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForEvent())
}

func (m Model) load() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return loadedMsg{err: s.Load(context.Background())}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return storeEventMsg{event: <-events}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height, m.session.Prefs.Preferences().SidebarOpen)
		m.ready = true
		m.resize()
		return m, nil

	case loadedMsg:
		m.loadErr = msg.err
		cmd := m.refresh()
		return m, cmd

	case storeEventMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, m.waitForEvent())

	case ui.OpenTodoMsg:
		m.session.Prefs.OpenTodoDetail(msg.TodoID)
		m.detail.SetTodo(msg.TodoID)
		m.push(ViewDetail)
		return m, nil

	case detail.BackMsg:
		m.session.Prefs.CloseTodoDetail()
		m.pop()
		cmd := m.refresh()
		return m, cmd

	case ui.NewTodoMsg:
		m.session.Prefs.OpenCreateDialog(msg.Defaults)
		_, defaults := m.session.Prefs.CreateDialog()
		m.form.SetOptions(m.session.Sections.Sections(), m.session.Sections.Labels())
		cmd := m.form.StartCreate(defaults)
		m.push(ViewForm)
		return m, cmd

	case ui.EditTodoMsg:
		t, ok := m.session.Todos.Get(msg.TodoID)
		if !ok {
			m.statusMsg = "Todo no longer exists"
			return m, nil
		}
		m.form.SetOptions(m.session.Sections.Sections(), m.session.Sections.Labels())
		cmd := m.form.StartEdit(t)
		m.push(ViewForm)
		return m, cmd

	case todoform.TodoCreatedMsg:
		t := m.session.Todos.Create(msg.Input)
		m.session.Prefs.CloseCreateDialog()
		m.session.log.Debug("todo created from form", zap.String("id", t.ID))
		m.statusMsg = fmt.Sprintf("Created %q", t.Title)
		m.pop()
		cmd := m.refresh()
		return m, cmd

	case todoform.TodoUpdatedMsg:
		if t, ok := m.session.Todos.Update(msg.ID, msg.Patch); ok {
			m.statusMsg = fmt.Sprintf("Saved %q", t.Title)
		} else {
			m.statusMsg = "Todo no longer exists"
		}
		m.pop()
		cmd := m.refresh()
		return m, cmd

	case todoform.TodoFormCancelMsg:
		m.session.Prefs.CloseCreateDialog()
		m.statusMsg = ""
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
		}
		m.pop()
		return m, nil

	case sectionmgr.CloseMsg, labelmgr.CloseMsg:
		m.switchTo(ViewInbox)
		cmd := m.refresh()
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stop()
			return m, tea.Quit
		}
		if m.capturing() {
			break
		}
		if next, cmd, ok := m.handleGlobalKey(msg); ok {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey runs the bindings shared by every view. ok is false
// when the key belongs to the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.pop()
			return m, nil, true
		}
		m.push(ViewHelp)
		return m, nil, true

	case key.Matches(msg, m.keys.Back) && m.currentView == ViewHelp:
		m.pop()
		return m, nil, true

	case key.Matches(msg, m.keys.GoInbox):
		m.switchTo(ViewInbox)
	case key.Matches(msg, m.keys.GoTodos):
		m.switchTo(ViewTodos)
	case key.Matches(msg, m.keys.GoCalendar):
		m.switchTo(ViewCalendar)
	case key.Matches(msg, m.keys.GoSections):
		m.switchTo(ViewSections)
	case key.Matches(msg, m.keys.GoLabels):
		m.switchTo(ViewLabels)

	case key.Matches(msg, m.keys.ToggleSidebar) && m.sidebarView():
		if err := m.session.Prefs.ToggleSidebar(); err != nil {
			m.session.log.Warn("toggling sidebar", zap.Error(err))
		}
		m.layout.SidebarOpen = m.session.Prefs.Preferences().SidebarOpen
		m.resize()

	case key.Matches(msg, m.keys.Refresh) && m.sidebarView():
		return m, m.load(), true

	default:
		return m, nil, false
	}
	cmd := m.refresh()
	return m, cmd, true
}

// capturing reports whether the active view is taking text input, in
// which case global bindings are not applied.
func (m Model) capturing() bool {
	switch m.currentView {
	case ViewForm:
		return true
	case ViewInbox:
		return m.inbox.Editing()
	case ViewTodos:
		return m.todos.Editing()
	case ViewSections:
		return m.sectionMgr.Editing()
	case ViewLabels:
		return m.labelMgr.Editing()
	}
	return false
}

func (m Model) sidebarView() bool {
	return m.currentView == ViewInbox || m.currentView == ViewTodos
}

// push shows v and remembers the current view for pop.
func (m *Model) push(v ViewState) {
	m.stack = append(m.stack, m.currentView)
	m.currentView = v
}

// pop returns to the previous view, or the inbox when there is none.
func (m *Model) pop() {
	if len(m.stack) == 0 {
		m.currentView = ViewInbox
		return
	}
	m.currentView = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
}

// switchTo replaces the whole view stack with the top-level view v.
func (m *Model) switchTo(v ViewState) {
	if m.currentView == ViewDetail || len(m.stack) > 0 {
		m.session.Prefs.CloseTodoDetail()
	}
	m.stack = nil
	m.currentView = v
	m.statusMsg = ""
}

// refresh rebuilds every view from the stores.
func (m *Model) refresh() tea.Cmd {
	m.todos.Refresh()
	m.calendar.Refresh()
	m.sectionMgr.Refresh()
	m.labelMgr.Refresh()
	m.detail.Refresh()
	return m.inbox.Refresh()
}

func (m *Model) resize() {
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.inbox.SetSize(w, h)
	m.todos.SetSize(w, h)
	m.calendar.SetSize(w, h)
	m.sectionMgr.SetSize(w, h)
	m.labelMgr.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.form.SetSize(w, h)
	m.helpView.SetSize(w, h)
}

func (m *Model) stop() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case ViewTodos:
		m.todos, cmd = m.todos.Update(msg)
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewSections:
		m.sectionMgr, cmd = m.sectionMgr.Update(msg)
	case ViewLabels:
		m.labelMgr, cmd = m.labelMgr.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}
	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("The Todo Way", m.status())

	var content string
	switch m.currentView {
	case ViewHelp:
		content = m.helpView.View()
	case ViewCalendar:
		content = m.calendar.View()
	case ViewSections:
		content = m.sectionMgr.View()
	case ViewLabels:
		content = m.labelMgr.View()
	case ViewDetail:
		content = m.detail.View()
	case ViewForm:
		content = m.form.View()
	default:
		main := m.inbox.View()
		if m.currentView == ViewTodos {
			main = m.todos.View()
		}
		sidebar := m.layout.RenderSidebar(m.session.Sections.Sections(), m.openCounts(), m.session.Todos.Filters().SectionID)
		content = m.layout.RenderBody(sidebar, main)
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(m.keyHints()))
}

// openCounts returns the number of open todos per section id.
func (m Model) openCounts() map[string]int {
	counts := make(map[string]int)
	for _, t := range m.session.Todos.Todos() {
		if !t.IsCompleted && t.SectionID != nil {
			counts[*t.SectionID]++
		}
	}
	return counts
}

// status returns a short string describing the load state.
func (m Model) status() string {
	switch {
	case m.session.Todos.IsLoading() || m.session.Sections.IsLoading():
		return "loading…"
	case m.loadErr != nil:
		return "⚠ load failed"
	default:
		return fmt.Sprintf("%d todos", m.session.Todos.Len())
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewForm:
		return "tab next field | enter submit | esc cancel"
	case ViewDetail:
		if t, ok := m.session.Todos.Get(m.detail.TodoID()); ok {
			return fmt.Sprintf("%s | %s | e edit | esc close", t.Title, describe(t))
		}
		return "esc close"
	case ViewCalendar:
		return "h/l prev/next | t today | v layout | </> move | -/+ resize | n new"
	case ViewSections, ViewLabels:
		return "n new | e edit | d delete | esc back"
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.currentView == ViewTodos {
		return "1-5 views | n new | A section | a subsection | enter open/collapse | x done"
	}
	return "1-5 views | n new | e edit | x done | tab sort | p priority | S section | L labels | c clear"
}

// describe summarizes a todo for the status bar.
func describe(t model.Todo) string {
	s := string(t.Priority)
	if t.ScheduledDate != nil {
		s += " · " + t.ScheduledDate.Format("Mon Jan 02 15:04")
	}
	if t.DeadlineDate != nil {
		s += " · due " + t.DeadlineDate.Format("Jan 02")
	}
	return s
}
