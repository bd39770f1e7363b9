package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// sensorCmd groups the sensor subcommands.
	sensorCmd = &cobra.Command{
		Use:   "sensor",
		Short: "Manage and trigger sensors.",
	}

	// sensorListCmd lists sensors.
	sensorListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered sensors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommands(cmd, []string{"sensor", "list"})
		},
	}
)

// newSensorActionCmd builds a sensor subcommand taking a name and a type.
func newSensorActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <name> <door|window|motion>",
		Short: short,
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // Name and type.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommands(cmd, append([]string{"sensor", action}, args...))
		},
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	sensorCmd.AddCommand(
		sensorListCmd,
		newSensorActionCmd("add", "Register a sensor."),
		newSensorActionCmd("remove", "Unregister a sensor."),
		newSensorActionCmd("activate", "Report a sensor as triggered."),
		newSensorActionCmd("deactivate", "Report a sensor as calm."),
	)

	rootCmd.AddCommand(sensorCmd)
}
