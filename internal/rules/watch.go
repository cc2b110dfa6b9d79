package rules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize rule feed watcher")

// WatchFeed reloads the feed at path whenever it is written, created or
// renamed into place, until ctx is cancelled. The parent directory is watched
// so atomic replacement by the scraper is seen. onReload runs after every
// successful merge. WatchFeed blocks; run it in its own goroutine.
func (kb *KnowledgeBase) WatchFeed(ctx context.Context, path string, onReload func()) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create feed directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, err := kb.LoadFeed(path); err != nil {
				// A half-written feed is retried on the next event.
				kb.logger.Warn("rule feed reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			if onReload != nil {
				onReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			kb.logger.Warn("rule feed watcher error", zap.Error(err))
		}
	}
}
