package todoform

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/calendar"
	"github.com/nhle/todo-way/internal/ident"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui"
)

const (
	scheduleLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

// durationChoices are the preset durations offered by the form, in minutes.
var durationChoices = []int{15, 30, 45, 60, 90, 120, 180, 240}

// TodoCreatedMsg is dispatched when the create form is submitted.
type TodoCreatedMsg struct {
	Input model.CreateTodoInput
}

// TodoUpdatedMsg is dispatched when the edit form is submitted.
type TodoUpdatedMsg struct {
	ID    string
	Patch model.TodoPatch
}

// TodoFormCancelMsg is dispatched when the user cancels the form, or when
// the submitted values could not be turned into a todo.
type TodoFormCancelMsg struct {
	Err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title        string
	description  string
	location     string
	priority     model.Priority
	sectionID    string
	subsectionID string
	scheduled    string
	deadline     string
	duration     string
	reminder     string
	labelIDs     []string
	completed    bool
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editing  model.Todo
	sections []model.Section
	labels   []model.Label
	loc      *time.Location
	width    int
	height   int
}

// New creates a new todo form model. Dates are read and shown in the
// local time zone.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.DefaultPriority},
		loc:    time.Local,
		width:  width,
		height: height,
	}
}

// SetOptions sets the sections and labels offered by the selectors.
func (m *Model) SetOptions(sections []model.Section, labels []model.Label) {
	m.sections = sections
	m.labels = labels
}

// SetLocation changes the time zone used for the date fields.
func (m *Model) SetLocation(loc *time.Location) {
	m.loc = loc
}

// StartCreate initializes the form for a new todo, pre-filled from
// defaults when it is not nil.
func (m *Model) StartCreate(defaults *model.CreateTodoInput) tea.Cmd {
	m.editMode = false
	m.editing = model.Todo{}
	*m.fb = formBindings{priority: model.DefaultPriority}

	if d := defaults; d != nil {
		m.fb.title = d.Title
		m.fb.description = deref(d.Description)
		m.fb.location = deref(d.Location)
		if d.Priority.Valid() {
			m.fb.priority = d.Priority
		}
		m.fb.sectionID = deref(d.SectionID)
		m.fb.subsectionID = deref(d.SubsectionID)
		m.fb.scheduled = m.formatTime(d.ScheduledDate, scheduleLayout)
		m.fb.deadline = m.formatTime(d.DeadlineDate, dateLayout)
		if d.DurationMinutes != nil {
			m.fb.duration = strconv.Itoa(*d.DurationMinutes)
		}
		for _, l := range d.Labels {
			m.fb.labelIDs = append(m.fb.labelIDs, l.ID)
		}
	}

	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing todo.
func (m *Model) StartEdit(t model.Todo) tea.Cmd {
	m.editMode = true
	m.editing = t.Clone()
	*m.fb = formBindings{
		title:        t.Title,
		description:  deref(t.Description),
		location:     deref(t.Location),
		priority:     t.Priority,
		sectionID:    deref(t.SectionID),
		subsectionID: deref(t.SubsectionID),
		scheduled:    m.formatTime(t.ScheduledDate, scheduleLayout),
		deadline:     m.formatTime(t.DeadlineDate, dateLayout),
		completed:    t.IsCompleted,
	}
	if t.DurationMinutes != nil {
		m.fb.duration = strconv.Itoa(*t.DurationMinutes)
	}
	for _, l := range t.Labels {
		m.fb.labelIDs = append(m.fb.labelIDs, l.ID)
	}

	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing todo.
func (m Model) Editing() bool {
	return m.editMode
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}

	var cmd tea.Cmd
	m.form, cmd = ui.UpdateForm(m.form, msg)

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.submit()
	case huh.StateAborted:
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}
	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.editMode {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	details := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(ui.Required("title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("P1 - Critical", model.PriorityP1),
				huh.NewOption("P2 - High", model.PriorityP2),
				huh.NewOption("P3 - Medium", model.PriorityP3),
				huh.NewOption("P4 - Low", model.PriorityP4),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Location").
			Placeholder("Optional").
			Value(&m.fb.location),
	}

	schedule := []huh.Field{
		huh.NewInput().
			Title("Scheduled").
			Placeholder("YYYY-MM-DD HH:MM (optional)").
			Value(&m.fb.scheduled).
			Validate(validateSchedule),
		huh.NewSelect[string]().
			Title("Duration").
			Options(m.durationOptions()...).
			Value(&m.fb.duration),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.deadline).
			Validate(validateDate),
	}
	if !m.editMode {
		schedule = append(schedule,
			huh.NewSelect[string]().
				Title("Reminder").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("5 minutes before", string(model.ReminderBefore5Min)),
					huh.NewOption("15 minutes before", string(model.ReminderBefore15Min)),
					huh.NewOption("30 minutes before", string(model.ReminderBefore30Min)),
					huh.NewOption("1 hour before", string(model.ReminderBefore1Hr)),
				).
				Value(&m.fb.reminder),
		)
	}

	placement := []huh.Field{m.sectionField(), m.subsectionField()}
	if f := m.labelField(); f != nil {
		placement = append(placement, f)
	}
	if m.editMode {
		placement = append(placement,
			huh.NewConfirm().
				Title("Completed").
				Affirmative("Done").
				Negative("Open").
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(details...),
		huh.NewGroup(schedule...),
		huh.NewGroup(placement...),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m *Model) durationOptions() []huh.Option[string] {
	choices := durationChoices
	if n, err := strconv.Atoi(m.fb.duration); err == nil && !slices.Contains(choices, n) {
		choices = append(slices.Clone(choices), n)
		slices.Sort(choices)
	}
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, n := range choices {
		opts = append(opts, huh.NewOption(calendar.FormatDuration(n), strconv.Itoa(n)))
	}
	return opts
}

func (m *Model) sectionField() huh.Field {
	opts := []huh.Option[string]{huh.NewOption("None (Unsorted)", "")}
	for _, s := range m.sections {
		opts = append(opts, huh.NewOption(s.Name, s.ID))
	}
	return huh.NewSelect[string]().
		Title("Section").
		Options(opts...).
		Value(&m.fb.sectionID)
}

func (m *Model) subsectionField() huh.Field {
	sections := m.sections
	fb := m.fb
	return huh.NewSelect[string]().
		Title("Subsection").
		OptionsFunc(func() []huh.Option[string] {
			return subsectionOptions(sections, fb.sectionID)
		}, &m.fb.sectionID).
		Value(&m.fb.subsectionID)
}

// subsectionOptions lists the subsections of the chosen section.
func subsectionOptions(sections []model.Section, sectionID string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, s := range sections {
		if s.ID != sectionID {
			continue
		}
		for _, sub := range s.Subsections {
			opts = append(opts, huh.NewOption(sub.Name, sub.ID))
		}
	}
	return opts
}

func (m *Model) labelField() huh.Field {
	if len(m.labels) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(m.labels))
	for i, l := range m.labels {
		opts[i] = huh.NewOption(l.Name, l.ID)
	}
	return huh.NewMultiSelect[string]().
		Title("Labels").
		Options(opts...).
		Value(&m.fb.labelIDs)
}

func (m Model) submit() tea.Cmd {
	if m.editMode {
		patch, err := m.patch()
		if err != nil {
			return func() tea.Msg { return TodoFormCancelMsg{Err: err} }
		}
		id := m.editing.ID
		return func() tea.Msg { return TodoUpdatedMsg{ID: id, Patch: patch} }
	}

	in, err := m.input()
	if err != nil {
		return func() tea.Msg { return TodoFormCancelMsg{Err: err} }
	}
	return func() tea.Msg { return TodoCreatedMsg{Input: in} }
}

// input converts the bound values into a create request.
func (m Model) input() (model.CreateTodoInput, error) {
	fb := m.fb
	in := model.CreateTodoInput{
		Title:       strings.TrimSpace(fb.title),
		Description: optional(fb.description),
		Location:    optional(fb.location),
		Priority:    fb.priority,
		Labels:      m.selectedLabels(),
	}

	var err error
	if in.ScheduledDate, err = parseSchedule(fb.scheduled, m.loc); err != nil {
		return in, err
	}
	if in.DeadlineDate, err = parseDate(fb.deadline, m.loc); err != nil {
		return in, err
	}
	if in.DurationMinutes, err = parseDuration(fb.duration); err != nil {
		return in, err
	}
	in.SectionID, in.SubsectionID = m.placement()

	if fb.reminder != "" && in.ScheduledDate != nil {
		in.Reminders = []model.Reminder{{
			ID:       ident.New(ident.KindReminder),
			RemindAt: *in.ScheduledDate,
			Type:     model.ReminderType(fb.reminder),
		}}
	}
	return in, nil
}

// patch converts the bound values into an update of the edited todo.
// Date fields are only patched when their text changed, so values finer
// than the form's precision survive an edit.
func (m Model) patch() (model.TodoPatch, error) {
	fb := m.fb
	title := strings.TrimSpace(fb.title)
	priority := fb.priority
	completed := fb.completed
	labels := m.selectedLabels()
	p := model.TodoPatch{
		Title:       &title,
		Description: nullable(optional(fb.description)),
		Location:    nullable(optional(fb.location)),
		Priority:    &priority,
		IsCompleted: &completed,
		Labels:      &labels,
	}

	if fb.scheduled != m.formatTime(m.editing.ScheduledDate, scheduleLayout) {
		at, err := parseSchedule(fb.scheduled, m.loc)
		if err != nil {
			return p, err
		}
		p.ScheduledDate = nullable(at)
	}
	if fb.deadline != m.formatTime(m.editing.DeadlineDate, dateLayout) {
		at, err := parseDate(fb.deadline, m.loc)
		if err != nil {
			return p, err
		}
		p.DeadlineDate = nullable(at)
	}
	d, err := parseDuration(fb.duration)
	if err != nil {
		return p, err
	}
	p.DurationMinutes = nullable(d)

	sec, sub := m.placement()
	p.SectionID = nullable(sec)
	p.SubsectionID = nullable(sub)
	return p, nil
}

// placement returns the chosen section and subsection. A subsection that
// does not belong to the chosen section is dropped.
func (m Model) placement() (section, subsection *string) {
	if m.fb.sectionID == "" {
		return nil, nil
	}
	section = model.Ptr(m.fb.sectionID)
	if m.fb.subsectionID == "" {
		return section, nil
	}
	for _, s := range m.sections {
		if s.ID != m.fb.sectionID {
			continue
		}
		for _, sub := range s.Subsections {
			if sub.ID == m.fb.subsectionID {
				return section, model.Ptr(sub.ID)
			}
		}
	}
	return section, nil
}

// selectedLabels resolves the chosen label ids to snapshots. Snapshots
// already on the edited todo are kept for ids no longer in the catalog.
func (m Model) selectedLabels() []model.Label {
	out := []model.Label{}
	for _, id := range m.fb.labelIDs {
		if i := slices.IndexFunc(m.labels, func(l model.Label) bool { return l.ID == id }); i >= 0 {
			out = append(out, m.labels[i])
			continue
		}
		if i := slices.IndexFunc(m.editing.Labels, func(l model.Label) bool { return l.ID == id }); i >= 0 {
			out = append(out, m.editing.Labels[i])
		}
	}
	return out
}

func (m Model) formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.In(m.loc).Format(layout)
}

func parseSchedule(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{scheduleLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid schedule %q, use YYYY-MM-DD HH:MM", s)
}

func parseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return &t, nil
}

func parseDuration(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid duration %q", s)
	}
	return &n, nil
}

func validateSchedule(s string) error {
	_, err := parseSchedule(s, time.Local)
	return err
}

func validateDate(s string) error {
	_, err := parseDate(s, time.Local)
	return err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nullable[T any](v *T) model.Field[T] {
	if v == nil {
		return model.Null[T]()
	}
	return model.Value(*v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
