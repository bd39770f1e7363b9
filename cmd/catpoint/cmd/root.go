package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/service/console"
	"github.com/oshokin/catpoint/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the log level from the configuration.
	logLevel string

	// rootCmd represents the base command of the security controller.
	rootCmd = &cobra.Command{
		Use:   "catpoint",
		Short: "Home security controller with sensors and a cat-spotting camera.",
		Long: `Tracks the arming status, the sensors and the camera of a home security system
and derives the alarm status from them.

State is kept in the store selected by the configuration file (YAML file,
SQLite database or memory). Each subcommand applies one operator action;
"run" executes a script of actions in a single process so the last camera
result is remembered between them.`,
		SilenceUsage: true,
	}
)

// Execute runs the catpoint CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCommands executes the given console commands in one session.
func runCommands(cmd *cobra.Command, commands ...[]string) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return console.Run(ctx, options(cmd), commands...)
}

// options builds console options from the persistent flags.
func options(cmd *cobra.Command) *console.Options {
	return &console.Options{
		ConfigPath:     configPath,
		ConfigRequired: cmd.Flags().Changed("config"),
		LogLevel:       logLevel,
		Output:         cmd.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
}
