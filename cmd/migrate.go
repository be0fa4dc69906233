package cmd

import (
	"homeschool_hub_backend/internal/app"
	"homeschool_hub_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.ForceMigrate = true
		cfg.MigrateOnly = true

		if _, err := app.NewApp(cfg, path); err != nil {
			return err
		}
		defer logger.Log.Sync()

		cmd.Println("Database migration completed")
		return nil
	},
}
