package todos

import "github.com/nhle/todo-way/internal/model"

// Group is one section of the grouped view. The unsorted group has an
// empty SectionID.
type Group struct {
	SectionID string
	Name      string
	Todos     []model.Todo // directly under the section
	Subgroups []Subgroup
	Count     int // open todos in the section, subsections included
}

// Subgroup holds the todos of one subsection.
type Subgroup struct {
	Subsection model.Subsection
	Todos      []model.Todo
}

// Build groups the open todos by section and subsection. Unsectioned todos
// form a leading "Unsorted" group that is omitted when empty. Every
// section gets a group, every subsection a subgroup, in catalog order.
// Todos pointing at an unknown subsection stay at section level; todos
// pointing at an unknown section are not shown.
func Build(todos []model.Todo, sections []model.Section) []Group {
	var groups []Group

	var unsorted []model.Todo
	bySection := make(map[string][]model.Todo)
	for _, t := range todos {
		if t.IsCompleted {
			continue
		}
		if t.SectionID == nil {
			unsorted = append(unsorted, t)
			continue
		}
		bySection[*t.SectionID] = append(bySection[*t.SectionID], t)
	}
	if len(unsorted) > 0 {
		groups = append(groups, Group{Name: "Unsorted", Todos: unsorted, Count: len(unsorted)})
	}

	for _, s := range sections {
		members := bySection[s.ID]
		g := Group{SectionID: s.ID, Name: s.Name, Count: len(members)}

		index := make(map[string]int, len(s.Subsections))
		for i, sub := range s.Subsections {
			index[sub.ID] = i
			g.Subgroups = append(g.Subgroups, Subgroup{Subsection: sub})
		}
		for _, t := range members {
			if t.SubsectionID != nil {
				if i, ok := index[*t.SubsectionID]; ok {
					g.Subgroups[i].Todos = append(g.Subgroups[i].Todos, t)
					continue
				}
			}
			g.Todos = append(g.Todos, t)
		}
		groups = append(groups, g)
	}
	return groups
}

// Total returns the number of todos across groups.
func Total(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += g.Count
	}
	return n
}
