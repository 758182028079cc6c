package cli

import (
	"github.com/spf13/cobra"
)

func newSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store <value> under <key>, replacing any previous value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.db.Set(args[0], []byte(args[1])); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "OK\n")
			return nil
		},
	}
}
