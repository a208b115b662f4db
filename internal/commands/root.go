package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Maverick2506/Fintrack-backend/internal/cli"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal finance backend",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
			if !cmd.Flags().Changed("config") {
				if env := os.Getenv(cli.ConfigEnv); env != "" {
					configPath = env
				}
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (env "+cli.ConfigEnv+")")

	cfgPath := func() string { return configPath }
	rootCmd.AddCommand(
		newServeCommand(cfgPath),
		newWorkerCommand(cfgPath),
		newMaterializeCommand(cfgPath),
		newSettleCommand(cfgPath),
		newMigrateCommand(cfgPath),
		newHashPasswordCommand(),
	)

	return rootCmd
}
