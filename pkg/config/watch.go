package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ReloadDelay coalesces the burst of events an editor produces on save.
var ReloadDelay = 150 * time.Millisecond

// Watch reloads path whenever it changes and passes each valid result to
// onChange. Invalid files are logged and skipped. The parent directory is
// watched so that atomic renames by editors are seen. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	if path == "" {
		<-ctx.Done()
		return nil
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	log.Debugf("Watching %s for changes", target)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			reload = time.After(ReloadDelay)

		case <-reload:
			reload = nil
			cfg, err := Load(target)
			if err != nil {
				log.Warnf("Ignoring config change in %s: %v", target, err)
				continue
			}
			log.Infof("Reloaded config from %s", target)
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Config watcher error: %v", err)
		}
	}
}
