package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the cached config file whenever it is written, created,
// renamed or removed. The file is resolved once when Watch starts; its
// directory is watched so editors that replace the file are noticed.
//
// Watch blocks until ctx is cancelled.
func (s *Session) Watch(ctx context.Context) error {
	path, err := s.ConfigFilePath(ctx)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Warn("failed to close config file watcher", "error", err)
		}
	}()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	s.logger.Info("watching config file", "path", path)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("config file watch stopped", "path", path)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("config file watcher events channel closed")
			}
			if filepath.Clean(event.Name) != path || event.Op == fsnotify.Chmod {
				continue
			}
			s.logger.Debug("config file event", "path", event.Name, "op", event.Op.String())
			s.Invalidate(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("config file watcher errors channel closed")
			}
			s.logger.Error("config file watcher error", "error", err)
		}
	}
}
