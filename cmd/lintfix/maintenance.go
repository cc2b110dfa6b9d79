package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show rule, pattern, example and model counts and disk usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return printJSON(cmd.OutOrStdout(), s.store.Statistics())
		},
	}
}

func newCleanupCmd(a *app) *cobra.Command {
	var maxAgeDays int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop old training examples and orphaned models",
		Long: `Drop training examples older than --max-age-days, then delete the models of
languages left without examples.

Examples:
  # Use cleanup.max_age_days from config
  lintfix cleanup

  # Purge everything
  lintfix cleanup --max-age-days 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			days := s.cfg.Cleanup.MaxAgeDays
			if cmd.Flags().Changed("max-age-days") {
				days = maxAgeDays
			}
			report, err := s.store.Cleanup(days)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 30, "drop examples older than this many days")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export successful fix messages for sharing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			doc, err := s.store.Export(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import an export as successful fix examples",
		Long: `Import an export produced by "lintfix export". Every successful message
becomes a fixable example tagged with the "imported" linter, and languages
with enough examples are retrained. An unreadable export is reported as a
warning and leaves the cache unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.store.Import(args[0])
			if err != nil {
				s.logger.Warn(s.ctx, "import failed", zap.String("path", args[0]), zap.Error(err))
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: import of %s failed: %v\n", args[0], err)
				if report.Imported == nil {
					return nil
				}
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
