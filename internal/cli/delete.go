package cli

import (
	"github.com/spf13/cobra"

	"go.pagestore/internal/engine"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <dbname>",
		Args:  cobra.ExactArgs(1),
		Short: "Delete an existing database and its log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.Drop(args[0], a.cfg); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "Database %s deleted\n", args[0])
			return nil
		},
	}
}
