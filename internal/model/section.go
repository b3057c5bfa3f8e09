package model

// Label is a named, colored tag attachable to many todos.
type Label struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"` // hex, e.g. "#3B82F6"
}

// Section is a user-defined grouping for todos. It owns its subsections.
type Section struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	SortOrder   int          `json:"sort_order" db:"sort_order"`
	Subsections []Subsection `json:"subsections" db:"-"`
}

// Subsection is a grouping nested in exactly one Section.
type Subsection struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
	SectionID string `json:"section_id" db:"section_id"`
}

// Clone returns a copy of s that does not share its subsection slice.
func (s Section) Clone() Section {
	c := s
	c.Subsections = append([]Subsection{}, s.Subsections...)
	return c
}
