package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/webitel/wlog"
)

// Watch reloads the file at path on every write and passes the new Config to
// onChange. A file that fails to load is logged and the previous config stays
// in effect. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, log *wlog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	log.Info("watching config for changes", wlog.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// editors saving atomically produce create instead of write
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := New(path)
			if err != nil {
				log.Error("reload config, keeping previous", wlog.String("path", path), wlog.Err(err))

				continue
			}

			log.Info("config reloaded", wlog.String("path", path))
			onChange(cfg)

			_ = watcher.Add(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Error("config watcher", wlog.Err(err))
		}
	}
}
