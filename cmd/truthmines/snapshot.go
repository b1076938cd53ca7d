package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"truthmines/internal/domain"
	"truthmines/internal/service"
)

func newSnapshotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Query a SQLite export",
		Long: `The snapshot commands read a database written by
"export --format sqlite" without loading the graph directory.`,
	}
	cmd.AddCommand(
		newSnapshotStatsCommand(a),
		newSnapshotNodesCommand(a),
		newSnapshotEdgesCommand(a),
		newSnapshotShowCommand(a),
	)
	return cmd
}

// withSnapshot opens path, runs fn and closes the snapshot
func (a *app) withSnapshot(path string, fn func(*service.Snapshot) error) error {
	sn, err := a.svc.OpenSnapshot(path)
	if err != nil {
		return err
	}
	defer sn.Close()
	return fn(sn)
}

func newSnapshotStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats PATH",
		Short: "Count the stored nodes and edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshot(args[0], func(sn *service.Snapshot) error {
				stats, err := sn.Stats(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Nodes: %d\nEdges: %d\n", stats.Nodes, stats.Edges)
				printTally(cmd, "Domains", stats.ByDomain)
				printTally(cmd, "Types", stats.ByType)
				return nil
			})
		},
	}
}

func printTally(cmd *cobra.Command, title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d\n", k, counts[k])
	}
}

func newSnapshotNodesCommand(a *app) *cobra.Command {
	var filter service.NodeFilter

	cmd := &cobra.Command{
		Use:   "nodes PATH",
		Short: "List stored nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshot(args[0], func(sn *service.Snapshot) error {
				nodes, err := sn.Nodes(cmd.Context(), filter)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, n := range nodes {
					fmt.Fprintf(w, "%s  %-12s %-12s %s\n", n.ID, n.Type, n.Domain, n.Title)
				}
				fmt.Fprintf(w, "%d nodes\n", len(nodes))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter.Type, "type", "", "only nodes of this type")
	cmd.Flags().StringVar(&filter.Domain, "domain", "", "only nodes of this domain")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "only nodes carrying this tag")
	return cmd
}

func newSnapshotEdgesCommand(a *app) *cobra.Command {
	var relation string

	cmd := &cobra.Command{
		Use:   "edges PATH",
		Short: "List stored edges in import order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshot(args[0], func(sn *service.Snapshot) error {
				edges, err := sn.ListEdges(cmd.Context(), relation)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, e := range edges {
					if e.HasWeight() {
						fmt.Fprintf(w, "%s (w=%s)\n", e.String(), e.WeightString())
					} else {
						fmt.Fprintln(w, e.String())
					}
				}
				fmt.Fprintf(w, "%d edges\n", len(edges))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&relation, "relation", "", "only edges of this relation")
	return cmd
}

func newSnapshotShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show PATH ID",
		Short: "Print one stored node and its forward neighbors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshot(args[0], func(sn *service.Snapshot) error {
				detail, err := sn.Node(cmd.Context(), args[1])
				if errors.Is(err, domain.ErrNodeNotFound) {
					return fmt.Errorf("node ID not found: %s", args[1])
				}
				if err != nil {
					return err
				}

				n := detail.Node
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s  %s  %s\n", n.ID, n.Type, n.Domain)
				fmt.Fprintf(w, "Title: %s\n", n.Title)
				if len(n.Tags) > 0 {
					fmt.Fprintf(w, "Tags: %v\n", n.Tags)
				}
				for _, to := range detail.Neighbors {
					fmt.Fprintf(w, "  -> %s\n", to)
				}
				return nil
			})
		},
	}
}
