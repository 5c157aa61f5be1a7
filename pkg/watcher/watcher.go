// Package watcher reports changes to a single file, such as the config
// file, coalescing the bursts of events editors produce on save.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window. Zero keeps the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger routes watch errors to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// Watcher calls onChange once per burst of writes, creates, renames or
// removals of the watched file.
//
// The parent directory is watched rather than the file so that editors
// replacing the file by rename keep being seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	logger   logrus.FieldLogger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
	done  chan struct{}
}

// New returns a watcher for path. Call Run to start watching.
func New(path string, onChange func(), opts ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watcher: nil onChange")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounceDuration,
		onChange: onChange,
		logger:   logrus.StandardLogger(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)
	defer w.fsw.Close()
	defer w.cancelPending()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).WithField("path", w.path).Warn("file watch error")
		}
	}
}

// Done is closed when Run returns.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// schedule (re)starts the debounce timer. Only the callback of the latest
// schedule runs; a timer that already fired for an older sequence bails.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	seq := w.seq

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := seq == w.seq
		if current {
			w.timer = nil
		}
		w.mu.Unlock()

		if current {
			w.onChange()
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
