package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against an isolated cache and returns stdout and
// stderr.
func run(t *testing.T, cacheDir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LINTFIX_PATTERNS_CUSTOM_PATH", filepath.Join(cacheDir, "none.toml"))
	t.Setenv("LINTFIX_CLEANUP_DISABLE_AUTO", "true")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(cacheDir, "missing.yaml"),
		"--cache-dir", cacheDir,
		"--log-level", "error",
	}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	t.Run("rule knowledge", func(t *testing.T) {
		out, _, err := run(t, dir, "", "classify",
			"--language", "ansible", "--linter", "ansible-lint", "--rule", "name[play]",
			"All plays should be named")
		require.NoError(t, err)

		var resp classifyResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.False(t, resp.Result.Fixable)
		assert.Equal(t, 0.95, resp.Result.Confidence)
		assert.Equal(t, "rule_knowledge", string(resp.Result.Method))
		assert.Equal(t, "name[play]", resp.RuleID)
	})

	t.Run("requires a message", func(t *testing.T) {
		_, _, err := run(t, dir, "", "classify", "--language", "python")
		assert.Error(t, err)
	})

	t.Run("batch", func(t *testing.T) {
		input := `{"message": "anything", "language": "python", "linter": "black"}

not json
{"message": "", "language": "python", "linter": "flake8"}
`
		out, _, err := run(t, dir, input, "classify", "--batch")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)

		var first, second classifyResponse
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
		assert.True(t, first.Result.Fixable)
		assert.Equal(t, "fallback", string(first.Result.Method))
		assert.Equal(t, 0.1, second.Result.Confidence)
	})
}

func TestRecordAndStats(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, dir, "", "record", "--language", "python", "--linter", "pylint",
		"unexpected indentation error in block")
	require.NoError(t, err)
	var report struct {
		Examples     int    `json:"examples"`
		MinedPattern string `json:"mined_pattern"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Examples)
	assert.Equal(t, "unexpected indentation error", report.MinedPattern)

	_, _, err = run(t, dir, "", "record", "--linter", "pylint", "no language")
	assert.Error(t, err)

	out, _, err = run(t, dir, "", "stats")
	require.NoError(t, err)
	var stats struct {
		CacheDir string         `json:"cache_dir"`
		Examples map[string]int `json:"examples"`
		Disk     struct {
			TrainingBytes int64 `json:"training_bytes"`
		} `json:"disk"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, dir, stats.CacheDir)
	assert.Equal(t, map[string]int{"python": 1}, stats.Examples)
	assert.Positive(t, stats.Disk.TrainingBytes)

	out, _, err = run(t, dir, "", "cleanup", "--max-age-days", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"examples_removed": 1`)
}

func TestRecordTrainsModelAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	outcomes := []struct {
		message string
		fixable bool
	}{
		{"pipe chain start", true},
		{"nested module attribute", false},
		{"pipe chain start here", true},
		{"nested module attribute found", false},
		{"pipe chain start again", true},
	}

	for i, o := range outcomes {
		out, _, err := run(t, dir, "", "record",
			"--language", "elixir", "--linter", "credo",
			"--fixable="+strconv.FormatBool(o.fixable), o.message)
		require.NoError(t, err)

		var report struct {
			Examples  int  `json:"examples"`
			Retrained bool `json:"retrained"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, i+1, report.Examples, "invocation %d", i)
		assert.Equal(t, i == len(outcomes)-1, report.Retrained, "invocation %d", i)
	}

	out, _, err := run(t, dir, "", "stats")
	require.NoError(t, err)
	var stats struct {
		MLAvailable bool           `json:"ml_available"`
		Examples    map[string]int `json:"examples"`
		Models      map[string]int `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.True(t, stats.MLAvailable)
	assert.Equal(t, 5, stats.Examples["elixir"])
	assert.Equal(t, map[string]int{"elixir": 5}, stats.Models)

	out, _, err = run(t, dir, "", "classify", "--language", "elixir", "--linter", "credo",
		"pipe chain start detected")
	require.NoError(t, err)
	var resp classifyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ml_prediction", string(resp.Result.Method))
	assert.True(t, resp.Result.Fixable)
}

func TestExportImport(t *testing.T) {
	src := t.TempDir()
	_, _, err := run(t, src, "", "record", "--language", "go", "--linter", "gofmt", "file is not gofmted")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	_, _, err = run(t, src, "", "export", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	dst := t.TempDir()
	out, _, err := run(t, dst, "", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"go": 1`)

	// A corrupt export is a warning, not a failure.
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	out, errOut, err := run(t, dst, "", "import", bad)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "warning: import")
}
