// control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// Re-reads a configuration file whenever it changes on disk.

package control

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig blocks until ctx is done, calling fn with the freshly loaded
// file each time path is written or replaced. Load failures are passed to
// fn as well; the watch continues.
//
// The parent directory is watched rather than the file itself, since
// editors commonly replace a file by renaming over it.
func WatchConfig(ctx context.Context, path string, fn func(FileConfig, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fn(LoadConfig(abs))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(FileConfig{}, fmt.Errorf("watch config: %w", err))
		}
	}
}
