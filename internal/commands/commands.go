// Package commands wires the todoway command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/app"
	"github.com/nhle/todo-way/internal/logging"
	"github.com/nhle/todo-way/internal/model"
)

// rootOptions is shared by every subcommand.
type rootOptions struct {
	configPath string
	cfg        *model.AppConfig
	log        *zap.Logger
}

// New returns the root command.
func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "todoway",
		Short:         "Plan, schedule and review todos from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ro.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ro.log != nil {
				_ = ro.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&ro.configPath, "config", model.DefaultConfigPath(), "path to the config file")

	addCommands(cmd, ro)
	return cmd
}

// addCommands registers every subcommand on topLevel.
func addCommands(topLevel *cobra.Command, ro *rootOptions) {
	addList(topLevel, ro)
	addCalendar(topLevel, ro)
	addSections(topLevel, ro)
	addLabels(topLevel, ro)
	addPrefs(topLevel, ro)
	addSeed(topLevel, ro)
	addUI(topLevel, ro)
}

func (ro *rootOptions) setup() error {
	cfg, err := model.LoadConfig(ro.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	ro.cfg = cfg
	ro.log = log
	return nil
}

// session opens and loads a session. Load errors are logged and returned
// only when nothing at all could be loaded.
func (ro *rootOptions) session(ctx context.Context) (*app.Session, error) {
	s, err := app.Open(ro.cfg, logging.Component(ro.log, "session"))
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil && s.Todos.Len() == 0 {
		_ = s.Close()
		return nil, fmt.Errorf("loading data: %w", err)
	}
	return s, nil
}
