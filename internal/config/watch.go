package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
//
// Editors often replace a file rather than write it in place, so the
// directory is watched and events are filtered by name.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher

	changes chan *Config
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. Reloaded configs are published on Changes;
// a config that fails to load is logged and skipped. The watcher stops when
// ctx is cancelled or Close is called.
func Watch(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fsw:      fsw,
		changes:  make(chan *Config, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Changes delivers the most recent reloaded config. Reloads that are not
// consumed in time are replaced by newer ones.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		<-w.done
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := Load(w.path)
			if err != nil {
				log.Printf("config reload: %v", err)
				continue
			}
			w.publish(cfg)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("config watch: %v", err)
		}
	}
}

// publish replaces any unread config with cfg. The loop is the only sender.
func (w *Watcher) publish(cfg *Config) {
	select {
	case <-w.changes:
	default:
	}
	w.changes <- cfg
}
