package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 150 * time.Millisecond

// Watcher reloads preferences when the file changes on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(Prefs)
	logger  *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Watch starts watching the preferences file at path and calls onLoad with
// the reloaded preferences after each change. The parent directory is
// watched so editors that save by rename are picked up. Stop or cancel ctx
// to release the watcher.
func Watch(ctx context.Context, path string, logger *zap.Logger, onLoad func(Prefs)) (*Watcher, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		path:    resolved,
		onLoad:  onLoad,
		logger:  logger.With(zap.String("prefs_path", resolved)),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Stop ends the watch and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() { _ = w.watcher.Close() }()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
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
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerCh = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("prefs watcher error", zap.Error(err))

		case <-timerCh:
			timerCh = nil
			p, err := Load(w.path)
			if err != nil {
				w.logger.Warn("prefs reload failed, keeping current prefs", zap.Error(err))
				continue
			}
			w.logger.Debug("prefs reloaded", zap.String("theme", p.Theme), zap.String("units", p.Units), zap.String("sort", p.Sort))
			if w.onLoad != nil {
				w.onLoad(p)
			}
		}
	}
}
