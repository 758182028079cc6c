package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go.pagestore/internal/engine"
)

func newOpenCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "open [dbname]",
		Short: "Open a database in an interactive session, creating it if it does not exist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				db  *engine.Database
				err error
			)
			switch {
			case path != "" && len(args) == 0:
				db, err = engine.OpenPath(path, a.cfg.StorageOptions(), a.log)
			case path == "" && len(args) == 1:
				db, err = engine.Open(args[0], a.cfg)
			default:
				return errors.New("give either a database name or --path")
			}
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			replErr := startREPL(cmd.InOrStdin(), cmd.OutOrStdout(), db)
			return errors.Join(replErr, db.Close())
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "path to a .db file outside the data directory")
	return cmd
}
