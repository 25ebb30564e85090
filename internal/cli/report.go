package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errArchiveDisabled = errors.New("report archive is disabled, set MINIO_ENABLED=true")

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect archived batch run reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a batch run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id: %w", err)
			}

			ctx := cmd.Context()
			archive, err := a.reportArchive(ctx)
			if err != nil {
				return err
			}
			if archive == nil {
				return errArchiveDisabled
			}

			report, err := archive.Load(ctx, runID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	})

	return cmd
}
