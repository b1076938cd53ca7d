package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"truthmines/internal/config"
	"truthmines/internal/logging"
	"truthmines/internal/service"
)

// app carries the state shared by every subcommand once flags are parsed
type app struct {
	configFile string
	logLevel   string
	logJSON    bool

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	svc        *service.GraphService
	bus        *service.EventBus
	events     chan service.Event
}

// NewRootCommand builds a fresh command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "truthmines",
		Short: "Validate and package a fact graph",
		Long: `truthmines works on a graph directory holding nodes/**/*.json and
edges/**/*.jsonl files.

It validates the graph against JSON Schemas and a domain vocabulary,
extracts bounded neighborhoods as TOON context packs, builds the dist/
index artifacts, and answers path and load-bearing queries. Exports to
SQLite can be queried with the snapshot commands.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: search "+config.ConfigFileName+" and XDG paths)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON lines")

	root.AddCommand(
		newValidateCommand(a),
		newExtractCommand(a),
		newTOONCommand(a),
		newIndexCommand(a),
		newExportCommand(a),
		newPathsCommand(a),
		newAnalyzeCommand(a),
		newSnapshotCommand(a),
		newConfigCommand(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and wires the service
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configFile != "" {
		cfg, path, err = config.LoadFromPath(a.configFile)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = a.logJSON
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.configPath = path
	a.logger = logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Logging.JSON,
		Writer:  cmd.ErrOrStderr(),
		Service: "truthmines",
	})
	if path != "" {
		a.logger.Debug("config loaded", "path", path, "summary", cfg.Summary())
	}

	a.bus = service.NewEventBus()
	a.events = make(chan service.Event, 64)
	a.bus.Subscribe(a.events)
	a.svc = service.NewGraphService(a.logger, a.bus)
	return nil
}

// graphDir picks the graph directory: positional argument first, then the
// configured one
func (a *app) graphDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.GraphDir
}

// reportArtifacts prints one line per file written since the last call
func (a *app) reportArtifacts(w io.Writer) {
	defer func() {
		if n := a.bus.Dropped(); n > 0 {
			a.logger.Warn("progress events dropped, artifact list may be incomplete", "dropped", n)
		}
	}()
	for {
		select {
		case e := <-a.events:
			if e.Type == service.EventArtifactWritten {
				fmt.Fprintf(w, "Created %s\n", e.Payload["path"])
			}
		default:
			return
		}
	}
}
