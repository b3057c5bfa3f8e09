package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-way/internal/app"
	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/theme"
	"github.com/nhle/todo-way/internal/ui/inbox"
)

type listOptions struct {
	section   string
	labels    []string
	priority  string
	completed bool
	sortBy    string
	order     string
}

func addList(topLevel *cobra.Command, ro *rootOptions) {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos with the given filters and sort.",
		Example: `
todoway list
todoway list --section Work --priority p1
todoway list --label lbl-home --label lbl-errand --completed
todoway list --sort deadline_date --order asc
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.session(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := lo.apply(s); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			visible := s.Todos.Visible()
			d := inbox.TodoDelegate{
				Fields:      s.Prefs.Preferences().TodoCardDisplayFields,
				SectionName: s.Sections.SectionName,
			}
			for _, t := range visible {
				fmt.Fprintf(out, "%s  %s\n", d.Line(t), theme.DimmedStyle.Render(t.ID))
			}
			if len(visible) == 0 {
				fmt.Fprintln(out, theme.DimmedStyle.Render("no matching todos"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lo.section, "section", "", "only todos in this section (id or name)")
	cmd.Flags().StringArrayVar(&lo.labels, "label", nil, "only todos carrying any of these label ids (repeatable)")
	cmd.Flags().StringVar(&lo.priority, "priority", "", "only todos with this priority (p1-p4)")
	cmd.Flags().BoolVar(&lo.completed, "completed", false, "include completed todos")
	cmd.Flags().StringVar(&lo.sortBy, "sort", string(model.SortByCreatedAt), "sort field: "+sortFieldNames())
	cmd.Flags().StringVar(&lo.order, "order", string(model.SortDesc), "sort order: asc or desc")

	topLevel.AddCommand(cmd)
}

// apply validates the flags and configures the session's todo store.
func (lo *listOptions) apply(s *app.Session) error {
	field := model.SortField(lo.sortBy)
	if !field.Valid() {
		return fmt.Errorf("unknown sort field %q, want one of %s", lo.sortBy, sortFieldNames())
	}
	order := model.SortOrder(lo.order)
	if order != model.SortAsc && order != model.SortDesc {
		return fmt.Errorf("unknown sort order %q, want asc or desc", lo.order)
	}

	patch := model.FilterPatch{
		LabelIDs:      &lo.labels,
		ShowCompleted: &lo.completed,
	}
	if lo.priority != "" {
		p := model.Priority(lo.priority)
		if !p.Valid() {
			return fmt.Errorf("unknown priority %q, want p1-p4", lo.priority)
		}
		patch.Priority = model.Value(p)
	}
	if lo.section != "" {
		patch.SectionID = model.Value(resolveSection(s, lo.section))
	}

	s.Todos.SetSortBy(field)
	s.Todos.SetSortOrder(order)
	s.Todos.SetFilters(patch)
	return nil
}

// resolveSection maps a section name to its id. Unknown names are used as
// ids verbatim.
func resolveSection(s *app.Session, nameOrID string) string {
	for _, sec := range s.Sections.Sections() {
		if sec.ID == nameOrID || strings.EqualFold(sec.Name, nameOrID) {
			return sec.ID
		}
	}
	return nameOrID
}

func sortFieldNames() string {
	names := make([]string, len(model.SortFields))
	for i, f := range model.SortFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
