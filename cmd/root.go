package cmd

import (
	"path/filepath"

	"homeschool_hub_backend/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "homeschool-hub",
	Short: "Homeschool Hub API server",
	Long:  "Homeschool Hub backend: AI-generated assignments, grading, points and messaging for homeschool teachers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file whose variables fill unset environment variables")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig applies --env-file, then reads the file named by --config and
// returns it with its path.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if _, err := config.LoadEnvFile(envFile); err != nil {
		return nil, "", err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
