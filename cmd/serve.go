package cmd

import (
	"homeschool_hub_backend/internal/app"
	"homeschool_hub_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Run database migrations on start, even in release mode")
}

func runServe(cmd *cobra.Command) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		cfg.ForceMigrate = true
	}

	application, err := app.NewApp(cfg, path)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	return application.Run()
}
