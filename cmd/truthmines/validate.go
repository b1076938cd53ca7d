package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"truthmines/internal/service"
)

func newValidateCommand(a *app) *cobra.Command {
	var (
		strict    bool
		schemaDir string
	)

	cmd := &cobra.Command{
		Use:   "validate [graph-dir]",
		Short: "Check every node and edge against the schemas",
		Long: `Validate parses every node file and edge line, checks them against the
node and edge JSON Schemas and verifies that every edge endpoint names a
known node. With --strict, domains and relations must also appear in the
vocabulary (domains.yaml in the schema directory).

All problems are reported, one per line, before the command fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphDir := a.graphDir(args)
			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Strict
			}
			if schemaDir == "" {
				schemaDir = a.cfg.SchemaPath(graphDir)
			}

			report, err := a.svc.Validate(cmd.Context(), service.ValidateOptions{
				GraphDir:  graphDir,
				SchemaDir: schemaDir,
				Strict:    strict,
			})
			if err != nil {
				return err
			}

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if warning := report.Warning(); warning != "" {
				fmt.Fprintln(stderr, warning)
			}
			if report.OK() {
				fmt.Fprintln(stdout, report.Summary())
				return nil
			}
			if err := report.WriteIssues(stderr); err != nil {
				return err
			}
			fmt.Fprintln(stderr, report.Summary())
			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "also check domains and relations against the vocabulary")
	cmd.Flags().StringVar(&schemaDir, "schema-dir", "", "schema directory (default: <graph-dir>/schema)")
	return cmd
}
