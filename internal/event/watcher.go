// ABOUTME: FileWatcher turns edits of one external file into debounced Notify events.
// ABOUTME: Each change uses a fresh fsnotify subscription; missing files are retried with backoff.

package event

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/mauromedda/irepl/internal/log"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

var errWatcherClosed = errors.New("file watcher closed")

// FileWatcher is the Notify producer.
type FileWatcher struct {
	path       string
	debounce   time.Duration
	bus        *Bus
	newBackOff func() backoff.BackOff
}

// NewFileWatcher watches path and coalesces changes within debounce.
func NewFileWatcher(path string, debounce time.Duration, bus *Bus) *FileWatcher {
	return &FileWatcher{
		path:       path,
		debounce:   debounce,
		bus:        bus,
		newBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

// Run forwards one Notify per debounced change until ctx is done or the
// bus closes. Failing to watch the file at all is returned as an error.
func (w *FileWatcher) Run(ctx context.Context) error {
	for {
		n, err := w.WaitChange(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		log.Debug("watcher: %s", n)
		if err := w.bus.Send(n); err != nil {
			return nil
		}
	}
}

// WaitChange subscribes, blocks for one debounced change, and drops the
// subscription again. An edit that lands between two subscriptions can be
// missed.
func (w *FileWatcher) WaitChange(ctx context.Context) (Notify, error) {
	watcher, err := w.subscribe(ctx)
	if err != nil {
		return Notify{}, err
	}
	defer watcher.Close()

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		events int
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return Notify{}, ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return Notify{}, errWatcherClosed
			}
			if ev.Op&relevantOps == 0 {
				continue
			}
			events++
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			return Notify{Path: w.path, Count: events}, nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return Notify{}, errWatcherClosed
			}
			log.Warn("watcher: %v", err)
		}
	}
}

// subscribe creates a watcher on the file, retrying while it does not exist.
func (w *FileWatcher) subscribe(ctx context.Context) (*fsnotify.Watcher, error) {
	var watcher *fsnotify.Watcher
	op := func() error {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := fw.Add(w.path); err != nil {
			_ = fw.Close()
			if errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return backoff.Permanent(err)
		}
		watcher = fw
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(w.newBackOff(), ctx)); err != nil {
		return nil, fmt.Errorf("watching %s: %w", w.path, err)
	}
	return watcher, nil
}
