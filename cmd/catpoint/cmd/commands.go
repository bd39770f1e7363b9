package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/service/console"
)

var (
	// statusCmd prints the system state.
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show arming status, alarm status and sensors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommands(cmd, []string{"status"})
		},
	}

	// armCmd arms the system.
	armCmd = &cobra.Command{
		Use:       "arm home|away",
		Short:     "Arm the system and reset every sensor.",
		Long:      "Arms the system at home or away. Every sensor is reset to inactive; arming at home while a cat is in view raises the alarm.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"home", "away"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommands(cmd, []string{"arm", args[0]})
		},
	}

	// disarmCmd disarms the system.
	disarmCmd = &cobra.Command{
		Use:   "disarm",
		Short: "Disarm the system and clear the alarm.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommands(cmd, []string{"disarm"})
		},
	}

	// imageCmd scans a camera snapshot.
	imageCmd = &cobra.Command{
		Use:   "image <path>",
		Short: "Scan a camera snapshot (PNG, JPEG or GIF) for cats.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommands(cmd, []string{"image", args[0]})
		},
	}

	// runCmd executes a script of console commands.
	runCmd = &cobra.Command{
		Use:   "run [script]",
		Short: "Execute console commands from a script or stdin.",
		Long: `Executes one console command per line from the given script file, or from stdin
when no file is given. Blank lines and lines starting with # are ignored.
Run "catpoint run" and type "help" to list the commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			input := cmd.InOrStdin()

			if len(args) > 0 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}

				defer func() {
					_ = f.Close()
				}()

				input = f
			}

			return console.RunScript(ctx, options(cmd), input)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(statusCmd, armCmd, disarmCmd, imageCmd, runCmd)
}
