package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formrestore/internal/config"
	"github.com/goliatone/go-formrestore/internal/observability"
	"github.com/goliatone/go-formrestore/pkg/model"
	"github.com/goliatone/go-formrestore/pkg/registry"
	"github.com/goliatone/go-formrestore/pkg/repopulate"
	"github.com/goliatone/go-formrestore/pkg/snapshot"
)

// app carries the state shared by every subcommand. Each root() call builds a
// fresh command tree so tests can run commands in isolation.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    config.Config
	logger *zap.Logger
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "formrestore",
		Short:         "Restore a submitted form onto an HTML page.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./formrestore.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	_ = a.v.BindPFlag("logger.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logger.format", flags.Lookup("log-format"))

	cmd.AddCommand(
		a.applyCmd(),
		a.browserCmd(),
		a.inspectCmd(),
		versionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger, zapcore.AddSync(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", zap.String("file", a.v.ConfigFileUsed()))
	return nil
}

// engine builds the repopulation engine from the fields configuration.
func (a *app) engine() *repopulate.Engine {
	return repopulate.New(
		repopulate.WithURLField(a.cfg.Fields.URLKey, a.cfg.Fields.URLElementID),
		repopulate.WithOtherSuffix(a.cfg.Fields.OtherSuffix),
		repopulate.WithLogger(a.logger.Named("repopulate")),
	)
}

// registrySource names where field kinds come from. OpenAPI takes precedence
// when both are set.
type registrySource struct {
	path      string
	openAPI   string
	operation string
}

func (s *registrySource) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&s.path, "registry", "", "registry file (.json, .yaml, .toml)")
	flags.StringVar(&s.openAPI, "openapi", "", "OpenAPI document to derive the registry from")
	flags.StringVar(&s.operation, "operation", "", "operation id inside --openapi")
}

func (s *registrySource) load(cmd *cobra.Command) (registry.Map, error) {
	switch {
	case s.openAPI != "":
		if s.operation == "" {
			return nil, fmt.Errorf("--operation is required with --openapi")
		}
		data, err := os.ReadFile(s.openAPI)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		return registry.FromOpenAPI(cmd.Context(), data, s.operation)
	case s.path != "":
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read registry: %w", err)
		}
		return registry.Load(data, s.path)
	default:
		// Without a registry only the fallback rules apply.
		return registry.Map{}, nil
	}
}

func loadSnapshot(path string) (model.Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("--snapshot is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return snapshot.Decode(data)
}

func writeReport(cmd *cobra.Command, report repopulate.Report) {
	out := cmd.ErrOrStderr()
	for _, applied := range report.Applied {
		line := fmt.Sprintf("applied  %s  kind=%s target=%s matches=%d", applied.Key, applied.Kind, applied.Target, applied.Matches)
		if applied.Rule != "" {
			line += " rule=" + applied.Rule
		}
		fmt.Fprintln(out, line)
	}
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "skipped  %s  reason=%s\n", skipped.Key, skipped.Reason)
	}
	fmt.Fprintf(out, "%d applied, %d skipped\n", len(report.Applied), len(report.Skipped))
}
