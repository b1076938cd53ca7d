package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"truthmines/internal/domain"
	"truthmines/internal/service"
)

// DefaultMaxHops bounds path searches when --max-depth is not given
const DefaultMaxHops = 5

func newPathsCommand(a *app) *cobra.Command {
	var (
		from     string
		to       string
		maxHops  int
		limit    int
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "paths --from ID --to ID [graph-dir]",
		Short: "List the simple paths between two nodes",
		Long: `Paths follows outgoing edges from --from and prints every path that
reaches --to in at most --max-depth hops without revisiting a node.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.svc.Paths(cmd.Context(), service.PathsOptions{
				GraphDir: a.graphDir(args),
				Snapshot: snapshot,
				From:     from,
				To:       to,
				MaxHops:  maxHops,
				Limit:    limit,
			})
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				return fmt.Errorf("node ID not found: %s", nf.ID)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintf(w, "No path from %s to %s within %d hops\n", from, to, maxHops)
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(w, strings.Join(p, " -> "))
			}
			fmt.Fprintf(w, "Found %d paths\n", len(paths))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start node id")
	cmd.Flags().StringVar(&to, "to", "", "target node id")
	cmd.Flags().IntVar(&maxHops, "max-depth", DefaultMaxHops, "maximum number of hops per path")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many paths (0 = all)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "read the graph from a SQLite export")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
