package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/seatkeys/internal/logging"
)

// Poster queues work onto the goroutine that owns the seat.
type Poster interface {
	Post(fn func()) error
}

// Watcher reloads the configuration file when it changes. The file is
// parsed on the watcher goroutine; the new Config is handed to the
// reload callback through the Poster so it is applied between events.
type Watcher struct {
	path     string
	poster   Poster
	onReload func(*Config)
	log      *logrus.Entry
	fsw      *fsnotify.Watcher
}

// NewWatcher watches path. The containing directory is watched so that
// editors replacing the file are noticed.
func NewWatcher(path string, poster Poster, onReload func(*Config), log *logrus.Entry) (*Watcher, error) {
	if log == nil {
		log = logging.Discard()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	return &Watcher{
		path:     abs,
		poster:   poster,
		onReload: onReload,
		log:      log,
		fsw:      fsw,
	}, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Config watcher error")
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.WithError(err).Error("Failed to reload config, keeping the previous one")
		return
	}
	if err := w.poster.Post(func() { w.onReload(cfg) }); err != nil {
		w.log.WithError(err).Debug("Dropping config reload")
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
