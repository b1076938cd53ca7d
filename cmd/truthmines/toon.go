package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTOONCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toon [graph-dir]",
		Short: "Write every edge to dist/edges.toon grouped by relation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphDir := a.graphDir(args)

			result, err := a.svc.BuildEdgesTOON(cmd.Context(), graphDir, a.cfg.DistPath(graphDir))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			a.reportArtifacts(w)
			for _, rc := range result.Relations {
				fmt.Fprintf(w, "  %s: %d\n", rc.Relation, rc.Edges)
			}
			fmt.Fprintf(w, "Total: %d edges in %d relations\n", result.Total, len(result.Relations))
			return nil
		},
	}
}
