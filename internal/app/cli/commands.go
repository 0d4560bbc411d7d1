package cli

import (
	"github.com/spf13/cobra"

	"github.com/ska-mid/dish-manager-core/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandRun CommandType = iota
	CommandStatus
	CommandVersion
	CommandHelp
)

// Options contains the parsed command-line arguments
type Options struct {
	Type CommandType
	NoUI bool
}

// Parse parses command-line args and returns an Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{Type: CommandRun}

	var showVersion bool

	root := buildRootCommand(result, &showVersion)
	root.AddCommand(
		buildRunCommand(result),
		buildStatusCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	if showVersion {
		result.Type = CommandVersion
	}

	return result, nil
}

// buildRootCommand creates the root cobra command
func buildRootCommand(result *Options, showVersion *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Supervisory controller for a single radio-telescope antenna",
		Long: `Dishmanagerd fronts one antenna as a single managed entity, coordinating
the dish structure, feed, receiver, down-converter and weather-station
controllers behind a consolidated mode, pointing and capability view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandRun
		},
	}

	cmd.PersistentFlags().BoolVar(&result.NoUI, "no-ui", false, "Run without TUI")
	cmd.Flags().BoolVarP(showVersion, "version", "v", false, "Show version information")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
	})

	return cmd
}

// buildRunCommand creates the run subcommand
func buildRunCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start supervising the antenna",
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandRun
		},
	}
}

// buildStatusCommand creates the status subcommand
func buildStatusCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print a one-shot component-state snapshot and exit",
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandStatus
		},
	}
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}
}
