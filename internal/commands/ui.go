package commands

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/app"
	"github.com/nhle/todo-way/internal/logging"
)

func addUI(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive inbox.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alternate screen owns the terminal, so log to a file next
			// to the config instead.
			logCfg := logging.Detached(ro.cfg.Log, filepath.Dir(ro.configPath))
			log, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			ro.log.Debug("ui logging redirected", zap.String("output", logCfg.Output))

			s, err := app.Open(ro.cfg, logging.Component(log, "session"))
			if err != nil {
				return err
			}
			defer s.Close()

			p := tea.NewProgram(app.NewModel(s), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running ui: %w", err)
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
