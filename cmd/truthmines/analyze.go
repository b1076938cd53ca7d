package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"truthmines/internal/domain"
	"truthmines/internal/service"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var (
		nodeID   string
		top      int
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "analyze [--node ID] [graph-dir]",
		Short: "Score how much of the graph rests on each node",
		Long: `Analyze computes load-bearing scores. A node's score is the share of the
graph's nodes that descend from it and that no foundation reaches once the
node is removed. Foundations are nodes with no incoming supports, proves,
entails or predicts edge.

Without --node every node is ranked, highest score first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := a.svc.Analyze(cmd.Context(), service.AnalyzeOptions{
				GraphDir: a.graphDir(args),
				Snapshot: snapshot,
				NodeID:   nodeID,
				Top:      top,
			})
			if errors.Is(err, domain.ErrNodeNotFound) {
				return fmt.Errorf("node ID not found: %s", nodeID)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if nodeID != "" {
				lb := scores[0]
				fmt.Fprintf(w, "%s: load-bearing %.3f (%d of %d descendants orphaned)\n",
					lb.ID, lb.Score, len(lb.Orphaned), lb.Descendants)
				if len(lb.Orphaned) > 0 {
					fmt.Fprintf(w, "Orphaned: %s\n", strings.Join(lb.Orphaned, ", "))
				}
				return nil
			}

			for _, lb := range scores {
				fmt.Fprintf(w, "%.3f  %s  %d/%d\n", lb.Score, lb.ID, len(lb.Orphaned), lb.Descendants)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "score a single node")
	cmd.Flags().IntVar(&top, "top", 10, "number of nodes to rank (0 = all)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "read the graph from a SQLite export")
	return cmd
}
