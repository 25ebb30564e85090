// Package cli wires configuration, storage and services into the levelkeeper commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewRootCmd builds the levelkeeper command tree.
func NewRootCmd(build BuildInfo) *cobra.Command {
	var envFile string
	a := &app{}

	cmd := &cobra.Command{
		Use:   "levelkeeper",
		Short: "Membership level upgrades",
		Long: `levelkeeper keeps user records and periodically promotes users
BASIC -> SILVER -> GOLD from their login and recommendation counts.
Configuration is read from the environment and an optional dotenv file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, envFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with default settings (empty to skip)")

	cmd.AddCommand(newUpgradeCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newUserCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newVersionCmd(build))

	return cmd
}

// Execute runs the root command with ctx, which is cancelled on shutdown signals.
func Execute(ctx context.Context, build BuildInfo) error {
	return NewRootCmd(build).ExecuteContext(ctx)
}
