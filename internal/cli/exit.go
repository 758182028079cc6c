package cli

import (
	"github.com/spf13/cobra"
)

func newExitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "exit",
		Aliases: []string{"quit"},
		Short:   "Close the database and leave the session",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s.done = true
		},
	}
}
