package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/lintfix/internal/learning"
	"github.com/fyrsmithlabs/lintfix/internal/logging"
)

func newRecordCmd(a *app) *cobra.Command {
	var o learning.Outcome

	cmd := &cobra.Command{
		Use:   "record <message>",
		Short: "Record the outcome of a fix attempt",
		Long: `Record whether a fix attempt for a lint error succeeded. Outcomes grow the
training set, retrain the language model, mine new patterns and adjust the
confidence of matching ones.

Examples:
  # A successful fix
  lintfix record --language python --linter flake8 "W291 trailing whitespace"

  # A failed fix
  lintfix record --language python --linter pylint --fixable=false "too-many-branches"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			o.Message = args[0]
			ctx := logging.WithLint(s.ctx, logging.Lint{Language: o.Language, Linter: o.Linter})
			report, err := s.store.Record(ctx, o)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&o.Language, "language", "", "language of the linted file")
	cmd.Flags().StringVar(&o.Linter, "linter", "", "linter that reported the error")
	cmd.Flags().BoolVar(&o.Fixable, "fixable", true, "whether the fix succeeded")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}
