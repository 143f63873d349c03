package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

// globalFlags are shared by every subcommand. Subcommands read them through pointers
// because cobra fills them only after the tree is built.
type globalFlags struct {
	port       string
	configPath string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "blog-service",
		Short:        "Article blog with FAQ, bookmarks and interactive quizzes",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.port, "port", os.Getenv("PORT"), "port to listen on (overrides server.port)")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", envOr("CONFIG_PATH", defaultConfigPath), "path to YAML config")
	cmd.AddCommand(
		NewStartCmd(&flags.configPath, &flags.port),
		NewMigrateCmd(&flags.configPath),
		NewSeedCmd(&flags.configPath),
		NewDBCheckCmd(&flags.configPath),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
