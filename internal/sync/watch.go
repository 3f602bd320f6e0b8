package sync

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchFS layers an fsnotify watch over root onto the syncer: any write
// event triggers an out-of-cycle sync instead of waiting for the next
// interval tick. The interval timer remains authoritative — a failure to
// start the watch (unsupported filesystem, too many open files) is logged
// and the syncer falls back to interval-only operation.
func (s *Syncer) WatchFS(root string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("fs_watch_unavailable", slog.String("error", err.Error()))
		return
	}

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d == nil || !d.IsDir() {
			return nil
		}
		if d.Name() != filepath.Base(root) && len(d.Name()) > 0 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		if addErr := w.Add(path); addErr != nil {
			s.log.Warn("fs_watch_add_failed", slog.String("path", path), slog.String("error", addErr.Error()))
		}
		return nil
	})

	s.watcher = w
	go s.watchLoop()
}

func (s *Syncer) watchLoop() {
	for {
		select {
		case _, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			select {
			case s.kick <- struct{}{}:
			default:
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("fs_watch_error", slog.String("error", err.Error()))
		case <-s.stop:
			_ = s.watcher.Close()
			return
		}
	}
}
