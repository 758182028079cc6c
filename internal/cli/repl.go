package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go.pagestore/internal/engine"
)

type session struct {
	db   *engine.Database
	done bool
}

// newSessionCmd builds the command tree available inside the REPL.
func newSessionCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:           "pagestore>",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newSetCmd(s),
		newGetCmd(s),
		newDelCmd(s),
		newStatsCmd(s),
		newExitCmd(s),
	)
	return root
}

// startREPL reads commands line by line and forwards each one to cobra until exit or EOF.
func startREPL(in io.Reader, out io.Writer, db *engine.Database) error {
	s := &session{db: db}
	reader := bufio.NewScanner(in)

	for !s.done {
		fmt.Fprint(out, "pagestore> ")

		if !reader.Scan() {
			fmt.Fprintln(out)
			return reader.Err()
		}

		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}

		// A fresh tree per line so flags never carry over between commands.
		root := newSessionCmd(s)
		root.SetArgs(strings.Fields(input))
		root.SetOut(out)
		root.SetErr(out)

		if err := root.Execute(); err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
	return nil
}
