package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LINTFIX_"
)

// DefaultPath returns ~/.config/lintfix/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lintfix", "config.yaml")
}

// Load loads configuration from a YAML file, then overrides with environment
// variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LINTFIX_CACHE_DIR, LINTFIX_ML_MIN_EXAMPLES, ...)
//  2. YAML config file (~/.config/lintfix/config.yaml)
//  3. Built-in defaults
//
// An empty configPath uses DefaultPath. A missing file is not an error.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the first underscore separates section from
// field:
//
//	LINTFIX_CACHE_DIR            -> cache.dir
//	LINTFIX_ML_MIN_EXAMPLES      -> ml.min_examples
//	LINTFIX_CLASSIFIER_CACHE_SIZE -> classifier.cache_size
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = DefaultPath()
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			// Open once and validate the descriptor to avoid a TOCTOU race.
			f, err := os.Open(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open config file: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("failed to stat config file: %w", err)
			}
			if err := validateConfigFileProperties(info); err != nil {
				return nil, fmt.Errorf("config file validation failed: %w", err)
			}

			content, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps LINTFIX_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// validateConfigFileProperties rejects group/world-writable and oversized
// files.
func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		if perm := info.Mode().Perm(); perm&0022 != 0 {
			return fmt.Errorf("insecure config file permissions: %v (must not be group or world writable)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}
