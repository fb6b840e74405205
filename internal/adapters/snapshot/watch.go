package snapshot

import (
	"context"
	"path/filepath"

	"progdex/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn whenever the document at path is replaced on disk. The
// parent directory is watched rather than the file, because atomic saves
// rename a temp file over it and the original inode goes away. Watch
// returns once the watcher is running and stops when ctx ends
func Watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return err
	}

	log := logger.Named("snapshot")
	base := filepath.Base(path)

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				log.Debug().Str("event", ev.String()).Msg("snapshot changed on disk")
				fn()
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(werr).Msg("snapshot watcher error")
			}
		}
	}()
	return nil
}
