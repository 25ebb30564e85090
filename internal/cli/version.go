package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl := `Build version: %s
Build date: %s
Build commit: %s
`
			fmt.Fprintf(cmd.OutOrStdout(), tmpl, build.Version, build.Date, build.Commit)
			return nil
		},
	}
}
