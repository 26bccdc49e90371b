package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/splitscroll/pkg/config"
)

// watchConfig calls reload with the new story whenever the file at path is
// written. The directory is watched so editors that replace the file on save
// are still seen. Invalid stories are logged and skipped.
func watchConfig(ctx context.Context, path string, log *slog.Logger, reload func(*config.Config)) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating story file watcher", "err", err)
		return
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Error("error adding story file watcher", "path", path, "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := config.Load(path)
			if err != nil {
				log.Warn("story reload skipped", "path", path, "err", err)
				continue
			}
			reload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("story watcher error", "err", err)
		}
	}
}
