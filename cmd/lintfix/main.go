// Package main implements the lintfix CLI: classify lint errors, feed fix
// outcomes back, and maintain the learning cache.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/classifier"
	"github.com/fyrsmithlabs/lintfix/internal/config"
	"github.com/fyrsmithlabs/lintfix/internal/logging"
	"github.com/fyrsmithlabs/lintfix/internal/telemetry"
)

// version information
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the persistent flag values shared by every subcommand.
type app struct {
	configPath string
	cacheDir   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lintfix",
		Short: "Classify lint errors as automatically fixable or not",
		Long: `lintfix decides whether a lint error can be fixed automatically, and learns
from the outcome of every fix attempt it is told about.

Results are printed as JSON on stdout; logs go to stderr.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/lintfix/config.yaml)")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", "", "learning cache directory (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newClassifyCmd(a),
		newRecordCmd(a),
		newStatsCmd(a),
		newCleanupCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// session is one opened store plus the logger and run context around it.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
	store  *classifier.Store
}

func (a *app) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.cacheDir != "" {
		cfg.SetCacheDir(a.cacheDir)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logCfg, err := logging.FromSettings(cfg.Logging)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ctx := logging.WithRunID(cmd.Context(), uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)

	// Providers are installed globally before the store resolves its
	// tracer and meter.
	tel, err := telemetry.New(ctx, cfg.Telemetry,
		telemetry.WithLogger(logger.Underlying()),
		telemetry.WithVersion(version),
	)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	store, err := classifier.Open(ctx, cfg, logger.Underlying().With(zap.String("run.id", logging.RunIDFromContext(ctx))))
	if err != nil {
		_ = tel.Shutdown(ctx)
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Dir, err)
	}
	logger.Debug(ctx, "opened cache", zap.String("cache_dir", cfg.Cache.Dir), zap.String("command", cmd.Name()))
	return &session{ctx: ctx, cfg: cfg, logger: logger, tel: tel, store: store}, nil
}

func (s *session) close() {
	_ = s.store.Close()
	if err := s.tel.Shutdown(context.WithoutCancel(s.ctx)); err != nil {
		s.logger.Warn(s.ctx, "telemetry shutdown failed", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
