package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"go.pagestore/internal/storage"
)

func newGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Retrieve value associated with <key>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := s.db.Get(args[0])
			if errors.Is(err, storage.ErrKeyNotFound) {
				printf(cmd.OutOrStdout(), "(nil)\n")
				return nil
			}
			if err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "%s\n", val)
			return nil
		},
	}
}

func newDelCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "del <key>",
		Aliases: []string{"delete"},
		Short:   "Remove <key>",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.db.Delete(args[0]); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "OK\n")
			return nil
		},
	}
}
