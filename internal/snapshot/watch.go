package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phanxgames/geonet"
)

// watchDebounce coalesces the bursts of events editors emit for one save.
const watchDebounce = 150 * time.Millisecond

// Watch reloads the snapshot at path whenever it changes and passes the
// result to fn. The parent directory is watched so that atomic renames are
// seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func(geonet.Snapshot)) error {
	if logger == nil {
		logger = slog.Default()
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("snapshot watcher error", "path", path, "error", err)
		case <-timer.C:
			snap, err := Load(path)
			if err != nil {
				logger.Warn("snapshot reload failed", "path", path, "error", err)
				continue
			}
			logger.Info("snapshot reloaded", "path", path,
				"nodes", len(snap.Nodes), "edges", len(snap.Edges))
			fn(snap)
		}
	}
}
