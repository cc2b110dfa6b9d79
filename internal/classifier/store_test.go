package classifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/lintfix/internal/config"
	"github.com/fyrsmithlabs/lintfix/internal/decision"
	"github.com/fyrsmithlabs/lintfix/internal/learning"
	"github.com/fyrsmithlabs/lintfix/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Cache.Dir = dir
	cfg.Patterns.CustomPath = filepath.Join(dir, "custom", "patterns.toml")
	cfg.Cleanup.DisableAuto = true
	return &cfg
}

func openStore(t *testing.T, cfg *config.Config) *Store {
	t.Helper()
	s, err := Open(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// elixir has no seeds, so these messages reach the model tier.
func recordElixir(t *testing.T, s *Store, withModel bool) {
	t.Helper()
	outcomes := []learning.Outcome{
		{Message: "pipe chain start", Language: "elixir", Linter: "credo", Fixable: true},
		{Message: "nested module attribute", Language: "elixir", Linter: "credo", Fixable: false},
		{Message: "pipe chain start here", Language: "elixir", Linter: "credo", Fixable: true},
		{Message: "nested module attribute found", Language: "elixir", Linter: "credo", Fixable: false},
		{Message: "pipe chain start again", Language: "elixir", Linter: "credo", Fixable: true},
	}
	for i, o := range outcomes {
		report, err := s.Record(context.Background(), o)
		require.NoError(t, err)
		assert.Equal(t, withModel && i == len(outcomes)-1, report.Retrained, "outcome %d", i)
	}
}

func TestStore_RuleKnowledgeWins(t *testing.T) {
	s := openStore(t, testConfig(t))

	r := s.Classify("All plays should be named", "ansible", "ansible-lint", "name[play]")
	assert.False(t, r.Fixable)
	assert.Equal(t, RuleConfidence, r.Confidence)
	assert.Equal(t, decision.MethodRuleKnowledge, r.Method)
	assert.Equal(t, "naming", r.ErrorType)
}

func TestStore_FormatterFallback(t *testing.T) {
	s := openStore(t, testConfig(t))

	r := s.Classify("anything", "python", "black", "")
	assert.True(t, r.Fixable)
	assert.Equal(t, FallbackConfidence, r.Confidence)
	assert.Equal(t, decision.MethodFallback, r.Method)
}

func TestStore_ClassifyIsTotal(t *testing.T) {
	s := openStore(t, testConfig(t))

	inputs := []Input{
		{},
		{Message: "x"},
		{Language: "python"},
		{Message: "line too long (120 > 79)", Language: "python", Linter: "flake8", RuleID: "E501"},
		{Message: "E501 line too long", Language: "PYTHON", Linter: "FLAKE8"},
		{Message: "héllo wörld ünused", Language: "python", Linter: "pylint"},
		{Message: "\x00\xff\xfe", Language: "\xff", Linter: "\x00", RuleID: "[["},
		{Message: "name[casing]", Language: "ansible", Linter: "ansible-lint", RuleID: "name[casing]"},
		{Message: "SyntaxError: invalid syntax", Language: "python", Linter: "flake8"},
	}
	for _, in := range inputs {
		var r decision.Result
		require.NotPanics(t, func() { r = s.Classify(in.Message, in.Language, in.Linter, in.RuleID) })
		assert.GreaterOrEqual(t, r.Confidence, 0.0, "%+v", in)
		assert.LessOrEqual(t, r.Confidence, 1.0, "%+v", in)
		assert.NotEmpty(t, r.Method, "%+v", in)
	}
}

func TestStore_PatternReinforcement(t *testing.T) {
	s := openStore(t, testConfig(t))
	ctx := context.Background()
	msg := "E501 line too long (120 > 79 characters)"

	before := s.Classify(msg, "python", "flake8", "")
	require.Equal(t, decision.MethodPatternMatch, before.Method)
	require.Equal(t, "line too long", before.MatchedPattern)
	assert.InDelta(t, 0.75, before.Confidence, 1e-9)

	report, err := s.Record(ctx, learning.Outcome{Message: msg, Language: "python", Linter: "flake8", Fixable: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reinforced)
	assert.Empty(t, report.MinedPattern)

	// The cached decision was purged by the mutation.
	assert.InDelta(t, 0.85, s.Classify(msg, "python", "flake8", "").Confidence, 1e-9)

	s.RecordOutcome(ctx, learning.Outcome{Message: msg, Language: "python", Linter: "flake8", Fixable: false})
	assert.InDelta(t, 0.75, s.Classify(msg, "python", "flake8", "").Confidence, 1e-9)
}

func TestStore_LearnedPatternIsQueryableAndPersisted(t *testing.T) {
	cfg := testConfig(t)
	s := openStore(t, cfg)

	report, err := s.Record(context.Background(), learning.Outcome{
		Message:  "unexpected indentation error in block",
		Language: "python",
		Linter:   "pylint",
		Fixable:  true,
	})
	require.NoError(t, err)
	require.Equal(t, "unexpected indentation error", report.MinedPattern)

	hasLearned := func(st *Store) bool {
		for _, p := range st.index.Query("unexpected indentation error", "python") {
			if p.Pattern == "unexpected indentation error" {
				return true
			}
		}
		return false
	}
	assert.True(t, hasLearned(s))
	require.NoError(t, s.Close())

	reopened := openStore(t, cfg)
	assert.True(t, hasLearned(reopened))
	assert.Equal(t, s.Statistics().Patterns["python"], reopened.Statistics().Patterns["python"])
}

func TestStore_ModelTierAndDeterminism(t *testing.T) {
	cfg := testConfig(t)
	s := openStore(t, cfg)
	recordElixir(t, s, true)

	r := s.Classify("pipe chain start detected", "elixir", "credo", "")
	assert.Equal(t, decision.MethodMLPrediction, r.Method)
	assert.True(t, r.Fixable)
	assert.Greater(t, r.Confidence, 0.5)
	assert.Equal(t, map[string]int{"elixir": 5}, s.Statistics().Models)
	assert.True(t, s.Statistics().MLAvailable)

	// A second store loads the persisted model and answers identically.
	reopened := openStore(t, cfg)
	assert.Equal(t, r, reopened.Classify("pipe chain start detected", "elixir", "credo", ""))
}

func openLoggedStore(t *testing.T, cfg *config.Config) (*Store, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger()
	s, err := Open(context.Background(), cfg, tl.Underlying())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, tl
}

func TestStore_RecordAcrossReopensTrainsModel(t *testing.T) {
	cfg := testConfig(t)
	outcomes := []learning.Outcome{
		{Message: "pipe chain start", Language: "elixir", Linter: "credo", Fixable: true},
		{Message: "nested module attribute", Language: "elixir", Linter: "credo", Fixable: false},
		{Message: "pipe chain start here", Language: "elixir", Linter: "credo", Fixable: true},
		{Message: "nested module attribute found", Language: "elixir", Linter: "credo", Fixable: false},
		{Message: "pipe chain start again", Language: "elixir", Linter: "credo", Fixable: true},
	}

	for i, o := range outcomes {
		s, tl := openLoggedStore(t, cfg)
		assert.Equal(t, i, s.Statistics().Examples["elixir"], "examples before outcome %d", i)

		report, err := s.Record(context.Background(), o)
		require.NoError(t, err)
		assert.Equal(t, i+1, report.Examples)
		assert.Equal(t, i == len(outcomes)-1, report.Retrained, "outcome %d", i)
		require.NoError(t, s.Close())

		tl.AssertNotLogged(t, zapcore.WarnLevel, "unreadable")
	}

	s, tl := openLoggedStore(t, cfg)
	st := s.Statistics()
	assert.Equal(t, map[string]int{"elixir": 5}, st.Models)
	assert.Equal(t, 5, st.Examples["elixir"])
	assert.Equal(t, decision.MethodMLPrediction, s.Classify("pipe chain start detected", "elixir", "credo", "").Method)
	tl.AssertNotLogged(t, zapcore.WarnLevel, "unreadable")
}

func TestStore_CorruptFilesAreLoggedAndIgnored(t *testing.T) {
	cfg := testConfig(t)
	s := openStore(t, cfg)
	recordElixir(t, s, true)
	_, err := s.Record(context.Background(), learning.Outcome{
		Message:  "unexpected indentation error in block",
		Language: "python",
		Linter:   "pylint",
		Fixable:  true,
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	garbage := []byte("{not json")
	files := []string{
		filepath.Join(cfg.TrainingDir(), "elixir.json"),
		filepath.Join(cfg.ModelsDir(), "elixir.vectorizer.json"),
		filepath.Join(cfg.ModelsDir(), "elixir.classifier.json"),
		filepath.Join(cfg.PatternsDir(), "python.json"),
	}
	for _, f := range files {
		require.FileExists(t, f)
		require.NoError(t, os.WriteFile(f, garbage, 0600))
		_ = os.Remove(f + ".prev")
	}

	reopened, tl := openLoggedStore(t, cfg)
	st := reopened.Statistics()
	assert.Zero(t, st.Examples["elixir"])
	assert.Empty(t, st.Models)

	tl.AssertLogged(t, zapcore.WarnLevel, "ignoring unreadable training file")
	tl.AssertLogged(t, zapcore.WarnLevel, "skipping unreadable model artifact")
	tl.AssertLogged(t, zapcore.WarnLevel, "skipping unreadable pattern file")
	tl.AssertField(t, "skipping unreadable model artifact", "artifact", "elixir")

	// Seeds still answer for the language whose learned patterns were lost.
	r := reopened.Classify("E501 line too long (120 > 79 characters)", "python", "flake8", "")
	assert.Equal(t, decision.MethodPatternMatch, r.Method)
}

func TestStore_MLDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.ML.Disable = true
	s := openStore(t, cfg)
	recordElixir(t, s, false)

	assert.NotContains(t, s.Statistics().Tiers, decision.MethodMLPrediction)
	assert.False(t, s.Statistics().MLAvailable)
	r := s.Classify("pipe chain start detected", "elixir", "credo", "")
	assert.Equal(t, decision.MethodFallback, r.Method)
	assert.False(t, r.Fixable)
}

func TestStore_CleanupZeroPurgesEverything(t *testing.T) {
	s := openStore(t, testConfig(t))
	recordElixir(t, s, true)
	require.Equal(t, decision.MethodMLPrediction, s.Classify("pipe chain start detected", "elixir", "credo", "").Method)

	report, err := s.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, 5, report.ExamplesRemoved)
	assert.Equal(t, []string{"elixir"}, report.LanguagesEmptied)

	st := s.Statistics()
	assert.Empty(t, st.Examples)
	assert.Empty(t, st.Models)
	assert.Zero(t, st.Disk.TrainingBytes)
	assert.Zero(t, st.Disk.ModelBytes)
	assert.Zero(t, st.Disk.PerLanguage["elixir"].TrainingBytes)
	assert.Zero(t, st.Disk.PerLanguage["elixir"].ModelBytes)

	assert.NotEqual(t, decision.MethodMLPrediction, s.Classify("pipe chain start detected", "elixir", "credo", "").Method)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	src := openStore(t, testConfig(t))
	ctx := context.Background()
	src.RecordOutcome(ctx, learning.Outcome{Message: "W291 trailing whitespace", Language: "python", Linter: "flake8", Fixable: true})
	src.RecordOutcome(ctx, learning.Outcome{Message: "E302 expected 2 blank lines", Language: "python", Linter: "flake8", Fixable: true})
	src.RecordOutcome(ctx, learning.Outcome{Message: "F821 undefined name x", Language: "python", Linter: "flake8", Fixable: false})

	path := filepath.Join(t.TempDir(), "export.json")
	doc, err := src.Export(path)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Languages["python"].ExampleCount)

	dst := openStore(t, testConfig(t))
	report, err := dst.Import(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"python": 2}, report.Imported)

	imported := dst.training.All("python")
	require.Len(t, imported, 2)
	var messages []string
	for _, ex := range imported {
		assert.Equal(t, "imported", ex.Linter)
		assert.True(t, ex.Fixable)
		messages = append(messages, ex.Message)
	}
	assert.ElementsMatch(t, []string{"W291 trailing whitespace", "E302 expected 2 blank lines"}, messages)
}

func TestStore_LoadsFeedAndCustomPatterns(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.FeedPath()), 0700))
	require.NoError(t, os.WriteFile(cfg.FeedPath(),
		[]byte(`{"credo": {"Credo.Check.Readability.PipeChainStart": {"category": "style", "auto_fixable": true}}}`), 0600))

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Patterns.CustomPath), 0700))
	require.NoError(t, os.WriteFile(cfg.Patterns.CustomPath, []byte(`
[[pattern]]
pattern = "module attribute"
language = "elixir"
linter = "credo"
error_type = "design"
fixable = false
confidence = 0.9
`), 0600))

	s := openStore(t, cfg)

	r := s.Classify("pipe chain start", "elixir", "credo", "Credo.Check.Readability.PipeChainStart")
	assert.Equal(t, decision.MethodRuleKnowledge, r.Method)
	assert.True(t, r.Fixable)

	r = s.Classify("nested module attribute", "elixir", "credo", "")
	assert.Equal(t, decision.MethodPatternMatch, r.Method)
	assert.False(t, r.Fixable)
	assert.Equal(t, "design", r.ErrorType)
}

func TestStore_WatchedFeedReloads(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.Watch = true
	s := openStore(t, cfg)

	const rule = "Credo.Check.Readability.PipeChainStart"
	require.NotEqual(t, decision.MethodRuleKnowledge, s.Classify("pipe chain start", "elixir", "credo", rule).Method)

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(cfg.FeedPath(),
		[]byte(`{"credo": {"`+rule+`": {"category": "style", "auto_fixable": true}}}`), 0600))

	assert.Eventually(t, func() bool {
		return s.Classify("pipe chain start", "elixir", "credo", rule).Method == decision.MethodRuleKnowledge
	}, 5*time.Second, 50*time.Millisecond)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ML.MinExamples = 0
	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}
