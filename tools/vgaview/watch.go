package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDump invokes onChange whenever the memory image at path is rewritten
// and, if interval is not zero, at every interval tick. Shared memory backends
// are updated through the mapping without generating file events so they
// need polling. The parent directory is watched since pmemsave replaces the
// file on every dump.
func watchDump(ctx context.Context, path string, interval time.Duration, onChange func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err = w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			if err = onChange(); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-tick:
			if err = onChange(); err != nil {
				return err
			}
		}
	}
}
