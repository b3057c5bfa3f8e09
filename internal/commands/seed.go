package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/source"
)

func addSeed(topLevel *cobra.Command, ro *rootOptions) {
	var path string
	var use bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the bundled sample data into a SQLite snapshot.",
		Example: `
todoway seed
todoway seed --path ./snapshot.db --use
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if path == "" {
				path = ro.cfg.Data.SQLitePath
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating snapshot directory: %w", err)
			}

			snap, err := source.Load(ctx, source.NewFixtures())
			if err != nil {
				return err
			}
			db, err := source.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Seed(ctx, snap); err != nil {
				return err
			}
			ro.log.Info("snapshot seeded",
				zap.String("path", path),
				zap.Int("todos", len(snap.Todos)),
				zap.Int("sections", len(snap.Sections)),
				zap.Int("labels", len(snap.Labels)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d todos into %s\n", len(snap.Todos), path)

			if use {
				ro.cfg.Data.Source = model.DataSourceSQLite
				ro.cfg.Data.SQLitePath = path
				if err := model.SaveConfig(ro.configPath, ro.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "config %s now reads from the snapshot\n", ro.configPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "snapshot file (default data.sqlite_path from the config)")
	cmd.Flags().BoolVar(&use, "use", false, "switch the config to read from the snapshot")

	topLevel.AddCommand(cmd)
}
