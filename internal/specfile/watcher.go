package specfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch evicts cached collections as soon as their files change on disk.
// The parent directory of each path is watched rather than the file, so
// editors that save by rename are still seen.  Watch blocks until ctx is
// cancelled.
func (s *Store) Watch(ctx context.Context, paths ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	s.log.Infow("specfile watcher started", "files", len(watched), "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			s.log.Infow("specfile watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			name := filepath.Clean(ev.Name)
			if !watched[name] || ev.Op == fsnotify.Chmod {
				continue
			}
			s.Invalidate(name)
			s.log.Infow("specfile changed, cache entry dropped", "file", name, "op", ev.Op.String())

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			s.log.Errorw("specfile watcher error", "err", err)
		}
	}
}
