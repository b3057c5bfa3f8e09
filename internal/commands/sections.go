package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-way/internal/theme"
)

func addSections(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List sections and their subsections.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.session(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			for _, sec := range s.Sections.Sections() {
				fmt.Fprintf(out, "%d. %s %s\n", sec.SortOrder, sec.Name, theme.DimmedStyle.Render(sec.ID))
				for _, sub := range sec.Subsections {
					fmt.Fprintf(out, "   %d. %s %s\n", sub.SortOrder, sub.Name, theme.DimmedStyle.Render(sub.ID))
				}
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addLabels(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List labels.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.session(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			for _, l := range s.Sections.Labels() {
				fmt.Fprintf(out, "%s %s\n", theme.LabelStyle(l).Render("#"+l.Name), theme.DimmedStyle.Render(l.ID))
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
