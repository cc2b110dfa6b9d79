package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/lintfix/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Level      zapcore.Level
	Format     string
	Output     string // "stderr" or "stdout"
	Sampling   SamplingConfig
	Caller     bool
	Stacktrace zapcore.Level
	Fields     map[string]string
}

// SamplingConfig controls log volume reduction.
type SamplingConfig struct {
	Enabled bool
	Tick    config.Duration
	Levels  map[zapcore.Level]LevelSamplingConfig
}

// LevelSamplingConfig defines sampling rate per level.
type LevelSamplingConfig struct {
	Initial    int
	Thereafter int
}

// NewDefaultConfig returns console logging at info to stderr.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "console",
		Output: "stderr",
		Sampling: SamplingConfig{
			Enabled: true,
			Tick:    config.Duration(time.Second),
			Levels:  DefaultLevelSamplingConfig(),
		},
		Stacktrace: zapcore.ErrorLevel,
		Fields: map[string]string{
			"service": "lintfix",
		},
	}
}

// FromSettings builds a config from the file/env logging section.
func FromSettings(s config.LoggingConfig) (*Config, error) {
	cfg := NewDefaultConfig()
	if s.Level != "" {
		level, err := LevelFromString(s.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", s.Level, err)
		}
		cfg.Level = level
	}
	if s.Format != "" {
		cfg.Format = s.Format
	}
	return cfg, cfg.Validate()
}

// DefaultLevelSamplingConfig returns default sampling config by level.
func DefaultLevelSamplingConfig() map[zapcore.Level]LevelSamplingConfig {
	return map[zapcore.Level]LevelSamplingConfig{
		TraceLevel:         {Initial: 1, Thereafter: 0},
		zapcore.DebugLevel: {Initial: 10, Thereafter: 0},
		zapcore.InfoLevel:  {Initial: 100, Thereafter: 10},
		zapcore.WarnLevel:  {Initial: 100, Thereafter: 100},
		// Error+ never sampled
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if c.Output != "stderr" && c.Output != "stdout" {
		return fmt.Errorf("output must be 'stderr' or 'stdout', got %q", c.Output)
	}
	if c.Sampling.Enabled && c.Sampling.Tick.Duration() <= 0 {
		return fmt.Errorf("sampling tick must be > 0 when sampling enabled")
	}
	for level, s := range c.Sampling.Levels {
		if level >= zapcore.ErrorLevel {
			return fmt.Errorf("level %s cannot be sampled", levelName(level))
		}
		if s.Initial < 0 || s.Thereafter < 0 {
			return fmt.Errorf("sampling rates for %s must be >= 0", levelName(level))
		}
	}
	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}
	return nil
}
