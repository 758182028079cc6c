package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.pagestore/internal/server"
)

func newStartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the pagestore server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr != "" {
				a.cfg.Addr = addr
			}

			srv, err := server.New(a.cfg, a.log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Listen(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides addr from the config)")
	return cmd
}
