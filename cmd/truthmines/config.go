package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"truthmines/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(newConfigShowCommand(a), newConfigInitCommand())
	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if a.configPath != "" {
				fmt.Fprintf(w, "Config file: %s\n", a.configPath)
			} else {
				fmt.Fprintln(w, "Config file: none (defaults)")
			}
			fmt.Fprintln(w, a.cfg.Summary())
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "config file to write (default: XDG config path)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
