package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index [graph-dir]",
		Short: "Write the manifest, graph summary and node TOON to dist/",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphDir := a.graphDir(args)

			result, err := a.svc.BuildIndex(cmd.Context(), graphDir, a.cfg.DistPath(graphDir))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			a.reportArtifacts(w)
			stats := result.Manifest.Stats
			fmt.Fprintf(w, "Indexed %d nodes, %d edges\n", stats.TotalNodes, stats.TotalEdges)
			return nil
		},
	}
}
