package config

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a configuration file when it changes.
//
// The directory of the file is watched rather than the file itself so that
// editors replacing the file on save are noticed. Rapid changes are
// debounced into one reload.
type Watcher struct {
	path     string
	loader   *Loader
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	configs chan *Config
	errs    chan error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader sets the loader used for reloads.
func WithLoader(l *Loader) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.loader = l
		}
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watch starts watching the configuration file at path.
func Watch(path string, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		loader:   NewLoader(),
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		configs:  make(chan *Config, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Configs delivers every successfully reloaded configuration. Only the
// latest undelivered configuration is kept.
func (w *Watcher) Configs() <-chan *Config {
	return w.configs
}

// Errors delivers reload and watch errors. Only the latest undelivered
// error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := ErrWatcherClosed
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)) {
				continue
			}
			w.logger.Debug("config changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			send(w.errs, err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.loader.Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
		send(w.errs, err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path)
	send(w.configs, cfg)
}

// send delivers v, replacing an undelivered older value. The watcher loop
// is the only sender.
func send[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
