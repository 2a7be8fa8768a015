package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// settle coalesces the burst of events a single save produces.
var settle = 100 * time.Millisecond

// watchFile calls fn each time path is written or recreated, until ctx is
// done. The parent directory is watched so editors that replace the file
// are still seen. Errors from fn are logged and watching continues.
func watchFile(ctx context.Context, path string, log logger.Logger, fn func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	log.Info(fmt.Sprintf("watching %s", path))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warning(fmt.Sprintf("watch %s: %v", path, err))
		case <-pending:
			pending = nil
			if err := fn(); err != nil {
				log.Error(err.Error())
			}
		}
	}
}
