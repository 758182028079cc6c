package cli

import (
	"github.com/spf13/cobra"

	"go.pagestore/internal/engine"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <dbname>",
		Args:  cobra.ExactArgs(1),
		Short: "Create a new database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.Create(args[0], a.cfg); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "Database %s created\n", args[0])
			return nil
		},
	}
}
