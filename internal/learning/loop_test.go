package learning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/lintfix/internal/patterns"
	"github.com/fyrsmithlabs/lintfix/internal/telemetry"
	"github.com/fyrsmithlabs/lintfix/internal/textmodel"
)

func TestMinePhrase(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"Unused variable 'x' detected here", "unused variable 'x'", true},
		{"All plays should be named", "all plays should", true},
		{"Something odd here but expected later", "something odd here but expected", true},
		{"Line 12 has an error", "", false},
		{"File main.go has error", "", false},
		{"error in file main.go", "error in file", true},
		{"no indicator words at all here", "", false},
		{"too short", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := MinePhrase(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReinforce(t *testing.T) {
	list := []patterns.ErrorPattern{
		{Pattern: "trailing whitespace", Linter: "flake8", Confidence: 0.8},
		{Pattern: "Trailing", Linter: "FLAKE8", Confidence: 0.95},
		{Pattern: "whitespace", Linter: "pylint", Confidence: 0.5},
		{Pattern: "tabs", Linter: "flake8", Confidence: 0.5},
		{Pattern: "trailing whitespace", Linter: "flake8", Confidence: 0.15},
	}

	up, n := Reinforce(list, "W291 TRAILING whitespace", "flake8", true)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 0.9, up[0].Confidence, 1e-9)
	assert.InDelta(t, 1.0, up[1].Confidence, 1e-9)
	assert.InDelta(t, 0.5, up[2].Confidence, 1e-9, "other linter untouched")
	assert.InDelta(t, 0.5, up[3].Confidence, 1e-9, "non-matching untouched")
	assert.InDelta(t, 0.25, up[4].Confidence, 1e-9)
	assert.InDelta(t, 0.8, list[0].Confidence, 1e-9, "input is not modified")

	down, n := Reinforce(list, "W291 trailing whitespace", "flake8", false)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 0.7, down[0].Confidence, 1e-9)
	assert.InDelta(t, 0.85, down[1].Confidence, 1e-9)
	assert.InDelta(t, 0.1, down[4].Confidence, 1e-9)

	// Already at the floor: nothing changes.
	floor, n := Reinforce(down[4:], "trailing whitespace", "flake8", false)
	assert.Zero(t, n)
	assert.InDelta(t, 0.1, floor[0].Confidence, 1e-9)
}

func TestReinforce_RepeatedStepsStayExact(t *testing.T) {
	list := []patterns.ErrorPattern{{Pattern: "semi", Linter: "eslint", Confidence: 0.3}}
	for i := 0; i < 4; i++ {
		list, _ = Reinforce(list, "missing semi", "eslint", true)
	}
	assert.Equal(t, 0.7, list[0].Confidence)
}

type fixture struct {
	loop     *Loop
	store    *TrainingStore
	models   *textmodel.Registry
	index    *patterns.Index
	patterns *patterns.FileStore
	changes  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	f := &fixture{
		store:    NewTrainingStore(dir+"/training", 0, logger),
		models:   textmodel.NewRegistry(dir+"/models", textmodel.WithLogger(logger)),
		index:    patterns.NewIndex(),
		patterns: patterns.NewFileStore(dir + "/patterns"),
	}
	for lang, list := range patterns.DefaultPatterns() {
		f.index.Build(lang, list)
	}
	f.loop = NewLoop(f.store, f.models, f.index, f.patterns,
		WithLogger(logger),
		WithOnChange(func() { f.changes++ }),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
	)
	return f
}

func findPattern(list []patterns.ErrorPattern, linter, text string) (patterns.ErrorPattern, bool) {
	for _, p := range list {
		if p.Linter == linter && p.Pattern == text {
			return p, true
		}
	}
	return patterns.ErrorPattern{}, false
}

func TestLoop_RejectsDegenerateOutcome(t *testing.T) {
	f := newFixture(t)
	_, err := f.loop.Record(context.Background(), Outcome{Message: "", Language: "python"})
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	_, err = f.loop.Record(context.Background(), Outcome{Message: "x", Language: " "})
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	assert.Zero(t, f.changes)

	// The non-failing variant swallows the error.
	f.loop.RecordOutcome(context.Background(), Outcome{})
	assert.Empty(t, f.store.Languages())
}

func TestLoop_ReinforcesSeedPattern(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, ok := findPattern(f.index.Patterns("python"), "flake8", "line too long")
	require.True(t, ok)

	report, err := f.loop.Record(ctx, Outcome{Message: "E501 line too long (90 > 79)", Language: "python", Linter: "flake8", Fixable: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reinforced)
	assert.Empty(t, report.MinedPattern)

	after, _ := findPattern(f.index.Patterns("python"), "flake8", "line too long")
	assert.InDelta(t, before.Confidence+0.1, after.Confidence, 1e-9)

	_, err = f.loop.Record(ctx, Outcome{Message: "E501 line too long (90 > 79)", Language: "python", Linter: "flake8", Fixable: false})
	require.NoError(t, err)
	after, _ = findPattern(f.index.Patterns("python"), "flake8", "line too long")
	assert.InDelta(t, before.Confidence, after.Confidence, 1e-9)

	// Another linter's outcome leaves the flake8 pattern alone.
	_, err = f.loop.Record(ctx, Outcome{Message: "line too long", Language: "python", Linter: "pylint", Fixable: true})
	require.NoError(t, err)
	after, _ = findPattern(f.index.Patterns("python"), "flake8", "line too long")
	assert.InDelta(t, before.Confidence, after.Confidence, 1e-9)
	assert.Equal(t, 3, f.changes)
}

func TestLoop_MinesPattern(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg := "Unused variable 'tmp' should be removed"

	report, err := f.loop.Record(ctx, Outcome{Message: msg, Language: "python", Linter: "pylint", Fixable: true})
	require.NoError(t, err)
	assert.Equal(t, "unused variable 'tmp'", report.MinedPattern)
	assert.Zero(t, report.Reinforced, "a freshly mined pattern is not reinforced")

	matches := f.index.Query(report.MinedPattern, "python")
	mined, ok := findPattern(matches, "pylint", "unused variable 'tmp'")
	require.True(t, ok)
	assert.Equal(t, MinedConfidence, mined.Confidence)
	assert.Equal(t, MinedErrorType, mined.ErrorType)
	assert.True(t, mined.Fixable)

	// The learned pattern is persisted.
	saved := f.patterns.LoadAll(nil)
	_, ok = findPattern(saved["python"], "pylint", "unused variable 'tmp'")
	assert.True(t, ok)

	// Seeing the same message again reinforces it instead of mining a copy.
	report, err = f.loop.Record(ctx, Outcome{Message: msg, Language: "python", Linter: "pylint", Fixable: true})
	require.NoError(t, err)
	assert.Empty(t, report.MinedPattern)
	assert.Equal(t, 1, report.Reinforced)
	mined, _ = findPattern(f.index.Patterns("python"), "pylint", "unused variable 'tmp'")
	assert.InDelta(t, 0.8, mined.Confidence, 1e-9)
}

func TestLoop_FailedFixDoesNotMine(t *testing.T) {
	f := newFixture(t)
	report, err := f.loop.Record(context.Background(), Outcome{Message: "Unused variable 'tmp' should be removed", Language: "python", Linter: "pylint", Fixable: false})
	require.NoError(t, err)
	assert.Empty(t, report.MinedPattern)
}

func TestLoop_RetrainsFromFifthExample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	outcomes := []Outcome{
		{Message: "trailing whitespace found", Fixable: true},
		{Message: "trailing comma missing", Fixable: true},
		{Message: "cyclomatic complexity too high", Fixable: false},
		{Message: "possible sql injection", Fixable: false},
		{Message: "import block unsorted", Fixable: true},
	}
	for i, o := range outcomes {
		o.Language = "go"
		o.Linter = "golangci-lint"
		report, err := f.loop.Record(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, i+1, report.Examples)
		assert.Equal(t, i == 4, report.Retrained, "outcome %d", i)
	}
	assert.True(t, f.models.Has("go"))
	assert.Equal(t, map[string]int{"go": 5}, f.models.TrainedCounts())

	examples := f.store.All("go")
	require.Len(t, examples, 5)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), examples[0].Timestamp)
	assert.Equal(t, "golangci-lint", examples[0].Linter)
}

func TestLoop_Instrumentation(t *testing.T) {
	dir := t.TempDir()
	tel := telemetry.NewTestTelemetry()
	loop := NewLoop(NewTrainingStore(dir, 0, nil), nil, nil, nil,
		WithInstrumentation(tel.TracerProvider(), tel.MeterProvider()),
	)
	ctx := context.Background()

	_, err := loop.Record(ctx, Outcome{Message: "trailing whitespace", Language: "Python", Linter: "flake8", Fixable: true})
	require.NoError(t, err)
	_, err = loop.Record(ctx, Outcome{Message: "too complex", Language: "python", Fixable: false})
	require.NoError(t, err)
	_, err = loop.Record(ctx, Outcome{Message: "", Language: "python"})
	require.Error(t, err)

	tel.AssertSpanExists(t, "learning.record_outcome")
	tel.AssertSpanAttribute(t, "learning.record_outcome", "language", "python")
	assert.Len(t, tel.Spans(), 3)
	assert.Equal(t, int64(2), tel.CounterValue(t, "lintfix.learning.outcomes_total"))
}
