package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dtroode/levelkeeper/internal/model"
	"github.com/dtroode/levelkeeper/internal/worker"
)

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Run the level upgrade batch once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			archive, err := a.reportArchive(ctx)
			if err != nil {
				return err
			}

			sched, err := worker.NewScheduler(a.membership(st), archive, a.cfg.Upgrade.Schedule, a.logger)
			if err != nil {
				return err
			}

			result, err := sched.RunOnce(ctx)
			if err != nil {
				return fmt.Errorf("upgrade batch rolled back: %w", err)
			}

			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printResult(w io.Writer, result model.UpgradeResult) {
	fmt.Fprintf(w, "run %s: scanned %d, upgraded %d\n", result.RunID, result.Scanned, len(result.Upgraded))
	for _, u := range result.Upgraded {
		fmt.Fprintf(w, "  %s -> %s\n", u.ID, u.Level)
	}
}
