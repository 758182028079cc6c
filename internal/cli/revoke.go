package cli

import (
	"github.com/spf13/cobra"

	"go.pagestore/internal/auth"
)

func newRevokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <username> <dbname>",
		Args:  cobra.ExactArgs(2),
		Short: "Revoke user access to a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, dbname := args[0], args[1]

			fs, err := auth.NewFileStore(a.cfg.UserFile)
			if err != nil {
				return err
			}

			u, err := fs.GetUser(username)
			if err != nil {
				return err
			}

			if u.Revoke(dbname) {
				if err := fs.SaveUser(u); err != nil {
					return err
				}
			}

			printf(cmd.OutOrStdout(), "Revoked %s access to %s\n", username, dbname)
			return nil
		},
	}
}
