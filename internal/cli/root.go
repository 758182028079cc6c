package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go.pagestore/internal/config"
	"go.pagestore/internal/logger"
)

// app carries what every command needs once the root has loaded the configuration.
type app struct {
	cfg *config.Config
	log *logger.Logger

	home       string
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "pagestore",
		Short:         "pagestore - paged B-tree key value store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.home, a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(cmd.ErrOrStderr(), cfg.Level())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.home, "home", "", "app home directory (default $"+config.HomeEnv+" or ~/.local/share/pagestore)")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default <home>/config.yaml)")

	rootCmd.AddCommand(
		newOpenCmd(a),
		newCreateCmd(a),
		newDeleteCmd(a),
		newInspectCmd(a),
		newStartCmd(a),
		newUserCreateCmd(a),
		newUserDeleteCmd(a),
		newUserListCmd(a),
		newGrantCmd(a),
		newRevokeCmd(a),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
