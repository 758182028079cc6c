package cli

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"go.pagestore/internal/engine"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dbname>",
		Short: "Show the file layout and tree shape of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !engine.Exists(args[0], a.cfg) {
				return engine.ErrDatabaseNotFound
			}

			db, err := engine.Open(args[0], a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			info, err := db.Inspect()
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func newStatsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the file layout and tree shape of the open database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := s.db.Inspect()
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func printInfo(w io.Writer, info *engine.Info) {
	fileSize := uint64(info.MaxPage+1) * uint64(info.PageSize)

	printf(w, "path:           %s\n", info.Path)
	printf(w, "page size:      %s\n", humanize.IBytes(uint64(info.PageSize)))
	printf(w, "pages:          %d (%s)\n", info.MaxPage+1, humanize.IBytes(fileSize))
	printf(w, "root page:      %d\n", info.Root)
	printf(w, "free list page: %d\n", info.FreeListPage)
	printf(w, "free pages:     %d\n", len(info.ReleasedPages))
	printf(w, "depth:          %d\n", info.Tree.Depth)
	printf(w, "nodes:          %d (%d leaves)\n", info.Tree.Nodes, info.Tree.Leaves)
	printf(w, "items:          %s\n", humanize.Comma(int64(info.Tree.Items)))
	printf(w, "largest node:   %s\n", humanize.IBytes(uint64(info.Tree.MaxBytes)))
}
