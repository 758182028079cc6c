package cli

import (
	"github.com/spf13/cobra"

	"go.pagestore/internal/auth"
)

func newUserDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username>",
		Args:  cobra.ExactArgs(1),
		Short: "Delete a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := auth.NewFileStore(a.cfg.UserFile)
			if err != nil {
				return err
			}

			if err := fs.DeleteUser(args[0]); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "User %s deleted\n", args[0])
			return nil
		},
	}
}
