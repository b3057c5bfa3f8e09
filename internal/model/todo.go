package model

import "time"

// Priority ranks a todo from p1 (highest) to p4 (lowest).
type Priority string

const (
	PriorityP1 Priority = "p1"
	PriorityP2 Priority = "p2"
	PriorityP3 Priority = "p3"
	PriorityP4 Priority = "p4"
)

// DefaultPriority is assigned to todos created without an explicit priority.
const DefaultPriority = PriorityP4

// Priorities lists every priority from highest to lowest.
var Priorities = []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4}

// Rank returns the numeric rank of p (p1=1 … p4=4). Unknown values rank
// after p4.
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	case PriorityP4:
		return 4
	default:
		return 5
	}
}

// PriorityColors maps each priority to its display color.
var PriorityColors = map[Priority]string{
	PriorityP1: "#EF4444",
	PriorityP2: "#F97316",
	PriorityP3: "#3B82F6",
	PriorityP4: "#94A3B8",
}

// Color returns the display color of p, or "" for unknown values.
func (p Priority) Color() string {
	return PriorityColors[p]
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() <= 4
}

// ReminderType identifies a reminder preset.
type ReminderType string

const (
	ReminderBefore5Min  ReminderType = "before_5min"
	ReminderBefore15Min ReminderType = "before_15min"
	ReminderBefore30Min ReminderType = "before_30min"
	ReminderBefore1Hr   ReminderType = "before_1hr"
	ReminderCustom      ReminderType = "custom"
)

// Reminder is a notification attached to a todo.
type Reminder struct {
	ID       string       `json:"id" db:"id"`
	RemindAt time.Time    `json:"remind_at" db:"remind_at"`
	Type     ReminderType `json:"type" db:"type"`
}

// Todo is a single task with scheduling, priority and categorization
// metadata.
//
// Labels are value snapshots taken when the label was attached; they are
// not updated when the label itself is renamed or deleted.
type Todo struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     *string    `json:"description" db:"description"`
	ScheduledDate   *time.Time `json:"scheduled_date" db:"scheduled_date"`
	DeadlineDate    *time.Time `json:"deadline_date" db:"deadline_date"`
	DurationMinutes *int       `json:"duration_minutes" db:"duration_minutes"`
	Priority        Priority   `json:"priority" db:"priority"`
	Location        *string    `json:"location" db:"location"`
	IsCompleted     bool       `json:"is_completed" db:"is_completed"`
	CompletedAt     *time.Time `json:"completed_at" db:"completed_at"`
	SectionID       *string    `json:"section_id" db:"section_id"`
	SubsectionID    *string    `json:"subsection_id" db:"subsection_id"`
	Labels          []Label    `json:"labels" db:"-"`
	Reminders       []Reminder `json:"reminders" db:"-"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy of t so callers can never alias store state.
func (t Todo) Clone() Todo {
	c := t
	c.Description = clonePtr(t.Description)
	c.ScheduledDate = clonePtr(t.ScheduledDate)
	c.DeadlineDate = clonePtr(t.DeadlineDate)
	c.DurationMinutes = clonePtr(t.DurationMinutes)
	c.Location = clonePtr(t.Location)
	c.CompletedAt = clonePtr(t.CompletedAt)
	c.SectionID = clonePtr(t.SectionID)
	c.SubsectionID = clonePtr(t.SubsectionID)
	if t.Labels != nil {
		c.Labels = append(make([]Label, 0, len(t.Labels)), t.Labels...)
	}
	if t.Reminders != nil {
		c.Reminders = append(make([]Reminder, 0, len(t.Reminders)), t.Reminders...)
	}
	return c
}

// HasLabel reports whether t carries a label snapshot with the given id.
func (t Todo) HasLabel(id string) bool {
	for _, l := range t.Labels {
		if l.ID == id {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the deadline has passed on an open todo.
func (t Todo) IsOverdue(now time.Time) bool {
	return t.DeadlineDate != nil && t.DeadlineDate.Before(now) && !t.IsCompleted
}

// CreateTodoInput holds the fields accepted when creating a todo. Title is
// required by contract; every other field is optional.
type CreateTodoInput struct {
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	DeadlineDate    *time.Time `json:"deadline_date,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Priority        Priority   `json:"priority,omitempty"`
	Location        *string    `json:"location,omitempty"`
	SectionID       *string    `json:"section_id,omitempty"`
	SubsectionID    *string    `json:"subsection_id,omitempty"`
	Labels          []Label    `json:"labels,omitempty"`
	Reminders       []Reminder `json:"reminders,omitempty"`
}

// Field is a patch slot for a nullable attribute. A zero Field leaves the
// attribute untouched; a Set field with a nil Value clears it.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Value returns a Field that sets the attribute to v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a Field that clears the attribute.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// apply returns the patched value of cur.
func (f Field[T]) apply(cur *T) *T {
	if !f.Set {
		return cur
	}
	return clonePtr(f.Value)
}

// TodoPatch describes a partial update of a todo. There is deliberately no
// slot for the identifier or the timestamps: the identifier is immutable
// and timestamps are always derived by the store.
type TodoPatch struct {
	Title           *string
	Description     Field[string]
	ScheduledDate   Field[time.Time]
	DeadlineDate    Field[time.Time]
	DurationMinutes Field[int]
	Priority        *Priority
	Location        Field[string]
	IsCompleted     *bool
	SectionID       Field[string]
	SubsectionID    Field[string]
	Labels          *[]Label
	Reminders       *[]Reminder
}

// Apply returns a copy of t with the patch applied. CompletedAt is
// re-derived from IsCompleted at now; UpdatedAt is left to the caller.
func (p TodoPatch) Apply(t Todo, now time.Time) Todo {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	out.Description = p.Description.apply(out.Description)
	out.ScheduledDate = p.ScheduledDate.apply(out.ScheduledDate)
	out.DeadlineDate = p.DeadlineDate.apply(out.DeadlineDate)
	out.DurationMinutes = p.DurationMinutes.apply(out.DurationMinutes)
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	out.Location = p.Location.apply(out.Location)
	out.SectionID = p.SectionID.apply(out.SectionID)
	out.SubsectionID = p.SubsectionID.apply(out.SubsectionID)
	if p.Labels != nil {
		out.Labels = append([]Label{}, (*p.Labels)...)
	}
	if p.Reminders != nil {
		out.Reminders = append([]Reminder{}, (*p.Reminders)...)
	}
	if p.IsCompleted != nil && *p.IsCompleted != out.IsCompleted {
		out.IsCompleted = *p.IsCompleted
		if out.IsCompleted {
			out.CompletedAt = &now
		} else {
			out.CompletedAt = nil
		}
	}
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
