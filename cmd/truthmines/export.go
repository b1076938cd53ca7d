package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"truthmines/internal/codec"
	"truthmines/internal/domain"
	"truthmines/internal/service"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		format string
		output string
		nodeID   string
		depth    int
		snapshot string
		domains  []string
	)

	formats := append(codec.Formats(), service.FormatSQLite)

	cmd := &cobra.Command{
		Use:   "export [graph-dir]",
		Short: "Export the graph or a subgraph in another format",
		Long: fmt.Sprintf(`Export writes the whole graph, or with --node the neighborhood of one
node, in one of: %s.

--domain keeps only nodes of the named domains. Text formats go to stdout
when --output is omitted. The sqlite format always needs --output and
replaces any existing file.`, strings.Join(formats, ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("depth") {
				depth = a.cfg.Extract.Depth
			}

			err := a.svc.Export(cmd.Context(), service.ExportOptions{
				GraphDir: a.graphDir(args),
				Snapshot: snapshot,
				Format:   format,
				Output:   output,
				NodeID:   nodeID,
				Depth:    depth,
				Domains:  domains,
			}, cmd.OutOrStdout())
			if errors.Is(err, domain.ErrNodeNotFound) {
				return fmt.Errorf("node ID not found: %s", nodeID)
			}
			if err != nil {
				return err
			}

			if output != "" {
				a.reportArtifacts(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format ("+strings.Join(formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&nodeID, "node", "", "export only the neighborhood of this node")
	cmd.Flags().IntVar(&depth, "depth", 2, "maximum number of hops with --node")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "read the graph from a SQLite export")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "keep only nodes of this domain (repeatable)")
	return cmd
}
