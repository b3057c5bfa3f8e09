package model

// SortField names a todo attribute the display list can be sorted by.
type SortField string

const (
	SortByScheduledDate SortField = "scheduled_date"
	SortByPriority      SortField = "priority"
	SortByCreatedAt     SortField = "created_at"
	SortByDeadlineDate  SortField = "deadline_date"
)

// SortFields lists every supported sort field.
var SortFields = []SortField{
	SortByCreatedAt,
	SortByScheduledDate,
	SortByDeadlineDate,
	SortByPriority,
}

// Valid reports whether f is a supported sort field.
func (f SortField) Valid() bool {
	for _, s := range SortFields {
		if s == f {
			return true
		}
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TodoFilters narrows the set of todos shown in a view.
type TodoFilters struct {
	SectionID     *string   // exact section match, subsections are not implied
	LabelIDs      []string  // any of these labels (OR logic)
	Priority      *Priority // exact priority match
	ShowCompleted bool
}

// Clone returns a copy of f that shares no memory with it.
func (f TodoFilters) Clone() TodoFilters {
	c := f
	c.SectionID = clonePtr(f.SectionID)
	c.Priority = clonePtr(f.Priority)
	c.LabelIDs = append([]string{}, f.LabelIDs...)
	return c
}

// FilterPatch is a shallow partial update of TodoFilters. Unset slots keep
// their current value.
type FilterPatch struct {
	SectionID     Field[string]
	LabelIDs      *[]string
	Priority      Field[Priority]
	ShowCompleted *bool
}

// Apply merges the patch onto f.
func (p FilterPatch) Apply(f TodoFilters) TodoFilters {
	out := f.Clone()
	out.SectionID = p.SectionID.apply(out.SectionID)
	out.Priority = p.Priority.apply(out.Priority)
	if p.LabelIDs != nil {
		out.LabelIDs = append([]string{}, (*p.LabelIDs)...)
	}
	if p.ShowCompleted != nil {
		out.ShowCompleted = *p.ShowCompleted
	}
	return out
}
