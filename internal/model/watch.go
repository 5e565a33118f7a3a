package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig blocks until ctx is done, calling onChange with the freshly
// loaded configuration each time the file at path is written or replaced.
// The parent directory is watched so editors that save via rename are seen.
func WatchConfig(
	ctx context.Context,
	path string,
	onChange func(*AppConfig, error),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("config watcher closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			onChange(LoadConfig(path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("config watcher closed")
			}
			onChange(nil, fmt.Errorf("watching config: %w", err))
		}
	}
}
