// Package config provides configuration loading for lintfix.
//
// Configuration is read from an optional YAML file and LINTFIX_* environment
// variables on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete lintfix configuration.
type Config struct {
	Cache      CacheConfig      `koanf:"cache"`
	Rules      RulesConfig      `koanf:"rules"`
	Patterns   PatternsConfig   `koanf:"patterns"`
	Matcher    MatcherConfig    `koanf:"matcher"`
	ML         MLConfig         `koanf:"ml"`
	Learning   LearningConfig   `koanf:"learning"`
	Cleanup    CleanupConfig    `koanf:"cleanup"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Logging    LoggingConfig    `koanf:"logging"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// CacheConfig locates the learning cache.
type CacheConfig struct {
	Dir string `koanf:"dir"`
}

// RulesConfig controls the rule feed.
type RulesConfig struct {
	// FeedPath defaults to <cache.dir>/rules/rule_feed.json.
	FeedPath string `koanf:"feed_path"`
	// Watch reloads the feed whenever it changes on disk.
	Watch bool `koanf:"watch"`
}

// PatternsConfig controls user-supplied patterns.
type PatternsConfig struct {
	CustomPath string `koanf:"custom_path"`
}

// MatcherConfig controls the pattern matcher.
type MatcherConfig struct {
	DisableAutomaton bool `koanf:"disable_automaton"`
}

// MLConfig controls the per-language text model tier.
type MLConfig struct {
	Disable     bool `koanf:"disable"`
	MinExamples int  `koanf:"min_examples"`
	MaxFeatures int  `koanf:"max_features"`
}

// LearningConfig controls the training store.
type LearningConfig struct {
	MaxExamples int `koanf:"max_examples"`
}

// CleanupConfig controls automatic cleanup.
type CleanupConfig struct {
	MaxAgeDays   int      `koanf:"max_age_days"`
	DisableAuto  bool     `koanf:"disable_auto"`
	AutoInterval Duration `koanf:"auto_interval"`
}

// ClassifierConfig controls the decision cache. A CacheSize of 0 disables it.
type ClassifierConfig struct {
	CacheSize int `koanf:"cache_size"`
}

// LoggingConfig mirrors logging.Config in file form.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig controls OpenTelemetry export. Disabled by default.
type TelemetryConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`
	// Protocol is "grpc" or "http/protobuf".
	Protocol        string   `koanf:"protocol"`
	Insecure        bool     `koanf:"insecure"`
	SamplingRate    float64  `koanf:"sampling_rate"`
	MetricsEnabled  bool     `koanf:"metrics_enabled"`
	ExportInterval  Duration `koanf:"export_interval"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Cache: CacheConfig{
			Dir: filepath.Join(home, ".cache", "lintfix"),
		},
		Rules: RulesConfig{
			Watch: false,
		},
		Patterns: PatternsConfig{
			CustomPath: filepath.Join(home, ".config", "lintfix", "patterns.toml"),
		},
		ML: MLConfig{
			MinExamples: 5,
			MaxFeatures: 500,
		},
		Learning: LearningConfig{
			MaxExamples: 1000,
		},
		Cleanup: CleanupConfig{
			MaxAgeDays:   30,
			AutoInterval: Duration(24 * time.Hour),
		},
		Classifier: ClassifierConfig{
			CacheSize: 512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Endpoint:        "localhost:4317",
			Protocol:        "grpc",
			Insecure:        true,
			SamplingRate:    1.0,
			MetricsEnabled:  true,
			ExportInterval:  Duration(15 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
	}
}

// resolve expands "~" and fills paths derived from the cache directory.
func (c *Config) resolve() {
	c.Cache.Dir = expandHome(c.Cache.Dir)
	c.Patterns.CustomPath = expandHome(c.Patterns.CustomPath)
	c.Rules.FeedPath = expandHome(c.FeedPath())
}

// SetCacheDir moves the cache directory. A feed path that was derived from
// the old directory follows it.
func (c *Config) SetCacheDir(dir string) {
	if c.Rules.FeedPath == filepath.Join(c.Cache.Dir, "rules", "rule_feed.json") {
		c.Rules.FeedPath = ""
	}
	c.Cache.Dir = dir
	c.resolve()
}

// Layout paths under the cache directory.

// TrainingDir returns the training example directory.
func (c *Config) TrainingDir() string { return filepath.Join(c.Cache.Dir, "training") }

// ModelsDir returns the model artifact directory.
func (c *Config) ModelsDir() string { return filepath.Join(c.Cache.Dir, "models") }

// FeedPath returns the rule feed location, defaulting to
// <cache.dir>/rules/rule_feed.json.
func (c *Config) FeedPath() string {
	if c.Rules.FeedPath == "" {
		return filepath.Join(c.Cache.Dir, "rules", "rule_feed.json")
	}
	return c.Rules.FeedPath
}

// PatternsDir returns the learned pattern directory.
func (c *Config) PatternsDir() string { return filepath.Join(c.Cache.Dir, "patterns") }

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Cache.Dir) == "" {
		errs = append(errs, errors.New("cache.dir is required"))
	}
	if c.ML.MinExamples < 1 {
		errs = append(errs, fmt.Errorf("ml.min_examples must be at least 1, got %d", c.ML.MinExamples))
	}
	if c.ML.MaxFeatures < 1 {
		errs = append(errs, fmt.Errorf("ml.max_features must be at least 1, got %d", c.ML.MaxFeatures))
	}
	if c.Learning.MaxExamples < 1 {
		errs = append(errs, fmt.Errorf("learning.max_examples must be at least 1, got %d", c.Learning.MaxExamples))
	}
	if c.ML.MinExamples > c.Learning.MaxExamples {
		errs = append(errs, fmt.Errorf("ml.min_examples (%d) exceeds learning.max_examples (%d)", c.ML.MinExamples, c.Learning.MaxExamples))
	}
	if c.Cleanup.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("cleanup.max_age_days must not be negative, got %d", c.Cleanup.MaxAgeDays))
	}
	if c.Classifier.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("classifier.cache_size must not be negative, got %d", c.Classifier.CacheSize))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
