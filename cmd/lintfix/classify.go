package main

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/logging"
)

// classifyRequest is one line of batch input.
type classifyRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
	Linter   string `json:"linter"`
	RuleID   string `json:"rule_id"`
}

// classifyResponse echoes the request next to its result.
type classifyResponse struct {
	classifyRequest
	Result decision.Result `json:"result"`
}

func newClassifyCmd(a *app) *cobra.Command {
	var req classifyRequest
	var batch bool

	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify one lint error, or a JSON-lines batch from stdin",
		Long: `Classify a lint error as automatically fixable or not.

Examples:
  # Classify one message
  lintfix classify --language python --linter flake8 --rule E501 "line too long (120 > 79)"

  # Classify a batch, one JSON object per line
  lintfix classify --batch < errors.jsonl`,
		Args: func(cmd *cobra.Command, args []string) error {
			if batch {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !batch {
				req.Message = args[0]
				return printJSON(cmd.OutOrStdout(), s.classify(req))
			}

			out := json.NewEncoder(cmd.OutOrStdout())
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)
			line := 0
			for scanner.Scan() {
				line++
				if len(scanner.Bytes()) == 0 {
					continue
				}
				var r classifyRequest
				if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
					s.logger.Warn(s.ctx, "skipping malformed batch line", zap.Int("line", line), zap.Error(err))
					continue
				}
				if err := out.Encode(s.classify(r)); err != nil {
					return fmt.Errorf("failed to encode output: %w", err)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read batch input: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Language, "language", "", "language of the linted file")
	cmd.Flags().StringVar(&req.Linter, "linter", "", "linter that reported the error")
	cmd.Flags().StringVar(&req.RuleID, "rule", "", "rule identifier, e.g. E501 or name[play]")
	cmd.Flags().BoolVar(&batch, "batch", false, "read JSON lines of {message, language, linter, rule_id} from stdin")
	return cmd
}

func (s *session) classify(req classifyRequest) classifyResponse {
	r := s.store.Classify(req.Message, req.Language, req.Linter, req.RuleID)
	ctx := logging.WithLint(s.ctx, logging.Lint{Language: req.Language, Linter: req.Linter, RuleID: req.RuleID})
	s.logger.Debug(ctx, "classified",
		zap.String("method", string(r.Method)),
		zap.Bool("fixable", r.Fixable),
		zap.Float64("confidence", r.Confidence),
	)
	return classifyResponse{classifyRequest: req, Result: r}
}
