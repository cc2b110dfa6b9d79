package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".cache", "lintfix"), cfg.Cache.Dir)
	assert.Equal(t, filepath.Join(cfg.Cache.Dir, "rules", "rule_feed.json"), cfg.Rules.FeedPath)
	assert.Equal(t, filepath.Join(home, ".config", "lintfix", "patterns.toml"), cfg.Patterns.CustomPath)
	assert.Equal(t, 5, cfg.ML.MinExamples)
	assert.Equal(t, 500, cfg.ML.MaxFeatures)
	assert.Equal(t, 1000, cfg.Learning.MaxExamples)
	assert.Equal(t, 30, cfg.Cleanup.MaxAgeDays)
	assert.Equal(t, 24*time.Hour, cfg.Cleanup.AutoInterval.Duration())
	assert.Equal(t, 512, cfg.Classifier.CacheSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, filepath.Join(cfg.Cache.Dir, "training"), cfg.TrainingDir())
	assert.Equal(t, filepath.Join(cfg.Cache.Dir, "models"), cfg.ModelsDir())
	assert.Equal(t, filepath.Join(cfg.Cache.Dir, "patterns"), cfg.PatternsDir())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
cache:
  dir: `+dir+`
ml:
  disable: true
  min_examples: 10
classifier:
  cache_size: 0
cleanup:
  auto_interval: 2h
logging:
  level: debug
  format: json
`, 0600)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Cache.Dir)
	assert.Equal(t, filepath.Join(dir, "rules", "rule_feed.json"), cfg.Rules.FeedPath)
	assert.True(t, cfg.ML.Disable)
	assert.Equal(t, 10, cfg.ML.MinExamples)
	assert.Equal(t, 500, cfg.ML.MaxFeatures, "unset keys keep defaults")
	assert.Zero(t, cfg.Classifier.CacheSize)
	assert.Equal(t, 2*time.Hour, cfg.Cleanup.AutoInterval.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "cache:\n  dir: /from/file\n", 0600)
	envDir := t.TempDir()
	t.Setenv("LINTFIX_CACHE_DIR", envDir)
	t.Setenv("LINTFIX_ML_MIN_EXAMPLES", "7")
	t.Setenv("LINTFIX_RULES_FEED_PATH", "/tmp/feed.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, envDir, cfg.Cache.Dir)
	assert.Equal(t, 7, cfg.ML.MinExamples)
	assert.Equal(t, "/tmp/feed.json", cfg.Rules.FeedPath)
}

func TestLoad_ExpandsHome(t *testing.T) {
	t.Setenv("LINTFIX_CACHE_DIR", "~/lintfix-cache")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "lintfix-cache"), cfg.Cache.Dir)
}

func TestLoad_RejectsWorldWritableFile(t *testing.T) {
	path := writeConfig(t, "cache:\n  dir: /tmp/x\n", 0666)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "ml:\n  min_examples: 0\nlogging:\n  format: xml\n", 0600)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ml.min_examples")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"LINTFIX_CACHE_DIR":             "cache.dir",
		"LINTFIX_ML_MIN_EXAMPLES":       "ml.min_examples",
		"LINTFIX_CLASSIFIER_CACHE_SIZE": "classifier.cache_size",
		"LINTFIX_VERBOSE":               "verbose",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90m")))
	assert.Equal(t, 90*time.Minute, d.Duration())
	assert.Error(t, d.UnmarshalText([]byte("-1h")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", string(text))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.resolve()
	require.NoError(t, cfg.Validate())

	cfg.Learning.MaxExamples = 3
	assert.ErrorContains(t, cfg.Validate(), "exceeds learning.max_examples")

	cfg = Default()
	cfg.Cleanup.MaxAgeDays = -1
	cfg.Classifier.CacheSize = -5
	err := cfg.Validate()
	assert.ErrorContains(t, err, "cleanup.max_age_days")
	assert.ErrorContains(t, err, "classifier.cache_size")
}

func TestSetCacheDir(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.SetCacheDir(dir)
	assert.Equal(t, dir, cfg.Cache.Dir)
	assert.Equal(t, filepath.Join(dir, "rules", "rule_feed.json"), cfg.Rules.FeedPath)

	cfg.Rules.FeedPath = "/srv/feed.json"
	cfg.SetCacheDir(t.TempDir())
	assert.Equal(t, "/srv/feed.json", cfg.Rules.FeedPath)
}
