package cli

import (
	"github.com/spf13/cobra"

	"go.pagestore/internal/auth"
)

func newUserCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create-user <username> <password> <role>",
		Args:  cobra.ExactArgs(3),
		Short: "Create a new user (role: superuser, user or guest)",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password := args[0], args[1]

			role, err := auth.ParseRole(args[2])
			if err != nil {
				return err
			}

			fs, err := auth.NewFileStore(a.cfg.UserFile)
			if err != nil {
				return err
			}

			if _, err := auth.CreateUser(fs, username, password, role); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "User %s created\n", username)
			return nil
		},
	}
}
