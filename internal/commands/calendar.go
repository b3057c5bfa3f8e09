package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-way/internal/calendar"
	"github.com/nhle/todo-way/internal/theme"
)

func addCalendar(topLevel *cobra.Command, ro *rootOptions) {
	var from string
	var days int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show scheduled todos day by day.",
		Example: `
todoway calendar
todoway calendar --from 2025-06-02 --days 5
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := startOfDay(from)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}

			s, err := ro.session(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			events := calendar.Events(s.Todos.Todos())
			for i := 0; i < days; i++ {
				dayStart := start.AddDate(0, 0, i)
				dayEnd := dayStart.AddDate(0, 0, 1)

				fmt.Fprintln(out, theme.HeaderStyle.Render(dayStart.Format("Mon Jan 02")))
				dayEvents := calendar.InRange(events, dayStart, dayEnd)
				if len(dayEvents) == 0 {
					fmt.Fprintln(out, theme.DimmedStyle.Render("  nothing scheduled"))
					continue
				}
				for _, e := range dayEvents {
					fmt.Fprintf(out, "  %s %s %s\n",
						theme.DateStyle.Render(eventTimes(e)),
						theme.PriorityStyle(e.Priority).Render("●"),
						e.Title,
					)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day to show (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to show")

	topLevel.AddCommand(cmd)
}

// startOfDay parses a YYYY-MM-DD date in local time; empty means today.
func startOfDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --from %q: %w", s, err)
	}
	return t, nil
}

func eventTimes(e calendar.Event) string {
	start := e.Start.Local().Format("15:04")
	if e.End == nil {
		return start
	}
	return fmt.Sprintf("%s-%s (%s)", start, e.End.Local().Format("15:04"), calendar.FormatDuration(*e.DurationMinutes))
}
