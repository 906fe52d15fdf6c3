package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads configPath whenever it changes and passes the result to onChange,
// until ctx is done. The parent directory is watched so rename-on-save editors work.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	reload := make(chan struct{}, 1)
	go func() {
		defer fw.Close()
		var timer *time.Timer
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})

			case <-reload:
				if !utils.FileExists(absPath) {
					continue
				}
				cfg, err := LoadConfig(absPath)
				if err != nil {
					log.Warnf("Config reload failed: %v", err)
					continue
				}
				log.Debugf("Config reloaded from %s", absPath)
				onChange(cfg)

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Warnf("Config watcher error: %v", err)

			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()
	return nil
}
