// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/rfmboard/internal/config"
	"github.com/tomtom215/rfmboard/internal/logging"
)

// Reloader is the part of Manager the watcher needs.
type Reloader interface {
	Reload(ctx context.Context) (*Snapshot, error)
}

// Watcher reloads the dataset when one of the input files changes. It
// watches the directories holding the files (editors and exporters often
// replace files by rename, which a file watch would lose) and debounces
// bursts of events into a single reload.
//
// Watcher implements suture.Service.
type Watcher struct {
	reloader Reloader
	files    map[string]struct{} // cleaned absolute paths
	dirs     []string
	debounce time.Duration

	// reloaded is signaled after each watch-triggered reload; tests only.
	reloaded chan struct{}
}

// NewWatcher creates a watcher for the configured input files.
func NewWatcher(r Reloader, data config.DataConfig) *Watcher {
	w := &Watcher{
		reloader: r,
		files:    make(map[string]struct{}, 3),
		debounce: data.WatchDebounce,
	}
	dirSeen := make(map[string]struct{})
	for _, p := range []string{data.RFMPath(), data.ScaledPath(), data.ClusteredPath()} {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirSeen[dir]; !ok {
			dirSeen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	if w.debounce <= 0 {
		w.debounce = 500 * time.Millisecond
	}
	return w
}

// Serve watches until ctx is canceled.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logging.Info().Strs("dirs", w.dirs).Dur("debounce", w.debounce).Msg("Watching dataset files")

	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			logging.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Dataset file changed")

			mu.Lock()
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			timer = time.AfterFunc(w.debounce, func() {
				defer wg.Done()
				w.reload(ctx)
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			logging.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		abs = filepath.Clean(event.Name)
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := w.reloader.Reload(ctx); err != nil {
		logging.Warn().Err(err).Msg("Watch-triggered reload produced a degraded dataset")
	}
	if w.reloaded != nil {
		select {
		case w.reloaded <- struct{}{}:
		default:
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (w *Watcher) String() string {
	return "dataset-watcher"
}
