// Package cachefs persists the classifier's JSON documents under the cache
// directory.
//
// Every document is written inside a small envelope carrying a format version
// and an xxhash checksum of the payload. Writes go to a temp file that is
// fsynced and renamed into place; the previous copy is kept as "<name>.prev"
// so a torn or corrupted write can fall back to the last known-good version.
//
// Layout under the cache root:
//
//	~/.cache/lintfix/
//	├── training/{lang}.json           ← training examples
//	├── models/{lang}.vectorizer.json  ← language model artifact pair
//	├── models/{lang}.classifier.json
//	├── patterns/{lang}.json           ← learned/reinforced patterns
//	├── rules/rule_feed.json           ← external rule feed (read only)
//	└── .last_cleanup                  ← cleanup throttle marker
package cachefs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// FormatVersion is the envelope version written by this package.
const FormatVersion = 1

// PrevSuffix is appended to the last known-good copy of a document.
const PrevSuffix = ".prev"

// Errors for cache file operations.
var (
	ErrCorrupt     = errors.New("cache file corrupted")
	ErrVersion     = errors.New("unsupported cache file version")
	ErrInvalidName = errors.New("invalid cache key")
)

type envelope struct {
	Version   int             `json:"version"`
	Checksum  string          `json:"checksum"`
	WrittenAt time.Time       `json:"written_at"`
	Payload   json.RawMessage `json:"payload"`
}

// unsafeChars matches everything that may not appear in a cache file name.
var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]`)

// SafeName converts a language key to a file name stem. The mapping is not
// reversible; documents store the original key in their payload.
func SafeName(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", ErrInvalidName
	}
	name := unsafeChars.ReplaceAllString(key, "_")
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		name = "_" + strings.TrimLeft(name, ".")
	}
	if len(name) > 128 {
		return "", fmt.Errorf("%w: too long", ErrInvalidName)
	}
	return name, nil
}

func checksum(payload []byte) string {
	return strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// WriteJSON encodes v into an envelope and atomically replaces path.
func WriteJSON(path string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.MarshalIndent(envelope{
		Version:   FormatVersion,
		Checksum:  checksum(payload),
		WrittenAt: time.Now().UTC(),
		Payload:   payload,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it over path. An existing file is preserved as path.prev.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+PrevSuffix); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to keep previous copy: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}

// ReadJSON decodes the envelope at path into v. When the current file is
// missing, torn or fails its checksum, the .prev copy is tried. The returned
// error wraps os.ErrNotExist when neither copy exists, and ErrCorrupt when
// no copy could be decoded.
func ReadJSON(path string, v any) error {
	err := ReadEnvelope(path, v)
	if err == nil {
		return nil
	}

	prevErr := ReadEnvelope(path+PrevSuffix, v)
	if prevErr == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) && errors.Is(prevErr, os.ErrNotExist) {
		return err
	}
	if errors.Is(err, os.ErrNotExist) {
		return prevErr
	}
	return err
}

// ReadEnvelope decodes the envelope at exactly path, without falling back to
// the previous copy. Callers that must keep two documents consistent pick
// the copies themselves.
func ReadEnvelope(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if env.Version != FormatVersion {
		return fmt.Errorf("%w: %s: version %d", ErrVersion, path, env.Version)
	}
	// The envelope is indented on disk; the checksum covers the compact form.
	var payload bytes.Buffer
	if err := json.Compact(&payload, env.Payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if checksum(payload.Bytes()) != env.Checksum {
		return fmt.Errorf("%w: %s: checksum mismatch", ErrCorrupt, path)
	}
	if err := json.Unmarshal(payload.Bytes(), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return nil
}

// Remove deletes path and its previous copy. Missing files are not an error.
func Remove(path string) error {
	for _, p := range []string{path, path + PrevSuffix} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Size returns the combined size of path and its previous copy.
func Size(path string) int64 {
	var total int64
	for _, p := range []string{path, path + PrevSuffix} {
		if info, err := os.Stat(p); err == nil {
			total += info.Size()
		}
	}
	return total
}

// List returns the stems of files in dir ending with suffix, skipping temp
// files and previous copies.
func List(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var stems []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".write-") || strings.HasSuffix(name, PrevSuffix) {
			continue
		}
		if strings.HasSuffix(name, suffix) {
			stems = append(stems, strings.TrimSuffix(name, suffix))
		}
	}
	return stems, nil
}
