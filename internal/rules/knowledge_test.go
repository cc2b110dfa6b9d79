package rules

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

	"github.com/fyrsmithlabs/lintfix/internal/logging"
)

func TestFixability(t *testing.T) {
	assert.False(t, Unknown.IsKnown())
	assert.NotEqual(t, Unknown, Known(false))

	fixable, known := Known(false).Value()
	assert.True(t, known)
	assert.False(t, fixable)

	var zero Fixability
	assert.Equal(t, Unknown, zero)
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "known(true)", Known(true).String())
	assert.Equal(t, "known(false)", Known(false).String())
}

func TestKnowledgeBase_Seed(t *testing.T) {
	kb := NewKnowledgeBase(zaptest.NewLogger(t))

	tests := []struct {
		name   string
		linter string
		ruleID string
		want   Fixability
	}{
		{"play naming is manual", "ansible-lint", "name[play]", Known(false)},
		{"casing is fixable", "ansible-lint", "name[casing]", Known(true)},
		{"case insensitive keys", "Flake8", "w291", Known(true)},
		{"unknown rule", "flake8", "Z999", Unknown},
		{"unknown linter", "nolint", "E501", Unknown},
		{"empty rule id", "black", "", Unknown},
		{"empty linter", "", "E501", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kb.IsKnownFixable(tt.linter, tt.ruleID))
		})
	}

	r, ok := kb.Lookup("ansible-lint", "name[play]")
	require.True(t, ok)
	assert.Equal(t, SourceSeed, r.Source)
	assert.Equal(t, "naming", r.Category)
	assert.Greater(t, kb.Count(), 50)
	assert.Contains(t, kb.Linters(), "ansible-lint")
}

func TestKnowledgeBase_MergeFeed(t *testing.T) {
	kb := NewKnowledgeBase(zaptest.NewLogger(t))
	feed := `{
	  "ansible-lint": {
	    "name[play]": {"category": "naming", "auto_fixable": true, "complexity": "low", "description": "d", "fix_strategy": "f", "source_url": "https://example.invalid"},
	    "javascript:void(0)": {"category": "x", "auto_fixable": true},
	    ".hidden": {"category": "x", "auto_fixable": true},
	    "#anchor": {"category": "x", "auto_fixable": true},
	    "no-flag": {"category": "x"},
	    "bad-body": "not an object"
	  },
	  "newlinter": {
	    "R1": {"category": "style", "auto_fixable": false}
	  }
	}`

	stats, err := kb.MergeFeed([]byte(feed))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 3, stats.Rejected)
	assert.Equal(t, 2, stats.Skipped)

	// Feed wins over seed.
	assert.Equal(t, Known(true), kb.IsKnownFixable("ansible-lint", "name[play]"))
	r, _ := kb.Lookup("ansible-lint", "name[play]")
	assert.Equal(t, SourceFeed, r.Source)

	assert.Equal(t, Known(false), kb.IsKnownFixable("newlinter", "R1"))
	assert.Equal(t, Unknown, kb.IsKnownFixable("ansible-lint", "#anchor"))
	assert.Equal(t, Unknown, kb.IsKnownFixable("ansible-lint", "no-flag"))

	// Seeds not mentioned by the feed survive.
	assert.Equal(t, Known(true), kb.IsKnownFixable("flake8", "W291"))
}

func TestKnowledgeBase_MalformedLinterBlockIsSkipped(t *testing.T) {
	tl := logging.NewTestLogger()
	kb := NewKnowledgeBase(tl.Underlying())

	feed := `{
	  "pylint": {"C0301": {"category": "style", "auto_fixable": true}},
	  "eslint": "oops"
	}`
	stats, err := kb.MergeFeed([]byte(feed))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Loaded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Rejected)

	assert.Equal(t, Known(true), kb.IsKnownFixable("pylint", "C0301"))
	// Seeds for the skipped linter are untouched.
	assert.Equal(t, Known(true), kb.IsKnownFixable("eslint", "semi"))

	tl.AssertLogged(t, zapcore.DebugLevel, "skipping malformed linter block")
	tl.AssertField(t, "skipping malformed linter block", "linter", "eslint")
}

func TestKnowledgeBase_MalformedRuleIDIsLogged(t *testing.T) {
	tl := logging.NewTestLogger()
	kb := NewKnowledgeBase(tl.Underlying())

	stats, err := kb.MergeFeed([]byte(`{"eslint": {"javascript:alert(1)": {"auto_fixable": true}}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rejected)

	tl.AssertLogged(t, zapcore.DebugLevel, "dropping malformed rule id")
	tl.AssertField(t, "dropping malformed rule id", "rule_id", "javascript:alert(1)")
	tl.AssertLogged(t, zapcore.InfoLevel, "merged rule feed")
	tl.AssertNotLogged(t, zapcore.DebugLevel, "skipping malformed linter block")
}

func TestKnowledgeBase_MalformedFeedKeepsState(t *testing.T) {
	kb := NewKnowledgeBase(zaptest.NewLogger(t))
	_, err := kb.MergeFeed([]byte(`{"eslint": {"semi": {"auto_fixable": false}}}`))
	require.NoError(t, err)

	_, err = kb.MergeFeed([]byte(`{"broken`))
	require.ErrorIs(t, err, ErrInvalidFeed)
	assert.Equal(t, Known(false), kb.IsKnownFixable("eslint", "semi"))
}

func TestKnowledgeBase_ReloadDropsRemovedFeedEntries(t *testing.T) {
	kb := NewKnowledgeBase(nil)
	_, err := kb.MergeFeed([]byte(`{"x": {"R1": {"auto_fixable": true}}}`))
	require.NoError(t, err)
	_, err = kb.MergeFeed([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Unknown, kb.IsKnownFixable("x", "R1"))
}

func TestKnowledgeBase_LoadFeedMissing(t *testing.T) {
	kb := NewKnowledgeBase(nil)
	_, err := kb.LoadFeed(filepath.Join(t.TempDir(), "none.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestKnowledgeBase_WatchFeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rule_feed.json")
	kb := NewKnowledgeBase(zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- kb.WatchFeed(ctx, path, func() { reloaded <- struct{}{} })
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"watched": {"R1": {"auto_fixable": true}}}`), 0600))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("feed was not reloaded")
	}
	assert.Equal(t, Known(true), kb.IsKnownFixable("watched", "R1"))

	cancel()
	require.NoError(t, <-done)
}
