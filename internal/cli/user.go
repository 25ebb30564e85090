package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dtroode/levelkeeper/internal/model"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserAddCmd(a))
	cmd.AddCommand(newUserGetCmd(a))
	cmd.AddCommand(newUserListCmd(a))

	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var (
		user  model.User
		level string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user.ID = args[0]
			if level != "" {
				l, err := model.ParseLevel(level)
				if err != nil {
					return err
				}
				user.Level = l
			}

			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			if err := a.membership(st).Add(ctx, user); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %s added\n", user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user.Name, "name", "", "display name")
	cmd.Flags().StringVar(&user.Password, "password", "", "password")
	cmd.Flags().StringVar(&user.Email, "email", "", "email address upgrade notices are sent to")
	cmd.Flags().StringVar(&level, "level", "", "initial level: BASIC, SILVER or GOLD (default BASIC)")
	cmd.Flags().IntVar(&user.Login, "login", 0, "login count")
	cmd.Flags().IntVar(&user.Recommend, "recommend", 0, "recommendation count")

	return cmd
}

func newUserGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			user, err := a.membership(st).Get(ctx, args[0])
			if err != nil {
				return err
			}

			return printUsers(cmd.OutOrStdout(), []model.User{user})
		},
	}
}

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			users, err := a.membership(st).List(ctx)
			if err != nil {
				return err
			}

			return printUsers(cmd.OutOrStdout(), users)
		},
	}
}

func printUsers(w io.Writer, users []model.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tLEVEL\tLOGIN\tRECOMMEND")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", u.ID, u.Name, u.Email, u.Level, u.Login, u.Recommend)
	}
	return tw.Flush()
}
