package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"go.pagestore/internal/auth"
)

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Args:  cobra.NoArgs,
		Short: "List users with their role and granted databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := auth.NewFileStore(a.cfg.UserFile)
			if err != nil {
				return err
			}

			users, err := fs.ListUsers()
			if err != nil {
				return err
			}

			for _, u := range users {
				printf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.Username, u.Role, strings.Join(u.AccessDB, ","))
			}
			return nil
		},
	}
}
