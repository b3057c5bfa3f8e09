package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/prefs"
)

func addPrefs(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change UI preferences.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prefs.Open(ro.cfg.Prefs.Path, ro.log).Preferences()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sidebar_open: %t\n", p.SidebarOpen)
			fmt.Fprintf(out, "theme: %s\n", p.Theme)
			fmt.Fprintf(out, "calendar_view: %s\n", p.CalendarView)
			f := p.TodoCardDisplayFields
			fmt.Fprintln(out, "todo_card_display_fields:")
			for _, row := range []struct {
				name string
				on   bool
			}{
				{"show_date", f.ShowDate},
				{"show_deadline", f.ShowDeadline},
				{"show_duration", f.ShowDuration},
				{"show_priority", f.ShowPriority},
				{"show_labels", f.ShowLabels},
				{"show_section", f.ShowSection},
			} {
				fmt.Fprintf(out, "  %s: %t\n", row.name, row.on)
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set theme|calendar-view VALUE",
		Short: "Set the theme or the calendar view.",
		Example: `
todoway prefs set theme dark
todoway prefs set calendar-view dayGridMonth
`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"theme", "calendar-view"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := prefs.Open(ro.cfg.Prefs.Path, ro.log)
			switch args[0] {
			case "theme":
				return s.SetTheme(model.Theme(args[1]))
			case "calendar-view":
				return s.SetCalendarView(model.CalendarView(args[1]))
			default:
				return fmt.Errorf("unknown preference %q, want theme or calendar-view", args[0])
			}
		},
	}

	toggleTargets := append([]string{"sidebar"}, prefs.DisplayFields...)
	toggle := &cobra.Command{
		Use:       "toggle sidebar|FIELD",
		Short:     "Flip the sidebar or a card display field.",
		Long:      "Flip the sidebar or one of the card display fields: " + strings.Join(prefs.DisplayFields, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: toggleTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(toggleTargets, args[0]) {
				return fmt.Errorf("unknown toggle %q, want one of %s", args[0], strings.Join(toggleTargets, ", "))
			}
			s := prefs.Open(ro.cfg.Prefs.Path, ro.log)
			if args[0] == "sidebar" {
				return s.ToggleSidebar()
			}
			return s.ToggleCardDisplayField(args[0])
		},
	}

	cmd.AddCommand(show, set, toggle)
	topLevel.AddCommand(cmd)
}
